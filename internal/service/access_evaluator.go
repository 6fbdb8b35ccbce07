package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/repository"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

type AccessSource string

const (
	AccessSourceNone    AccessSource = ""
	AccessSourceToken   AccessSource = "token"
	AccessSourceSession AccessSource = "session"
)

// AccessRequest carries whatever credentials arrived with a request. Either
// or both of Token and UserID may be empty.
type AccessRequest struct {
	Token     string
	UserID    string
	CuratorID uuid.UUID
}

type Decision struct {
	Granted bool
	GrantID uuid.UUID
	Source  AccessSource
	// StaleToken is set when a token was presented that no longer unlocks
	// anything (bad signature, expired, or its grant was revoked). Callers
	// should clear the cookie.
	StaleToken bool
}

// AccessEvaluator decides whether a requester may see a curator's inner tier.
// A valid token is only a pointer to a grant; the grant store decides.
type AccessEvaluator interface {
	HasAccess(ctx context.Context, req AccessRequest) (Decision, error)
}

type accessEvaluator struct {
	codec  *jwtpkg.Codec
	grants repository.AccessGrantRepository
	logger *zap.Logger
}

func NewAccessEvaluator(codec *jwtpkg.Codec, grants repository.AccessGrantRepository, logger *zap.Logger) AccessEvaluator {
	return &accessEvaluator{
		codec:  codec,
		grants: grants,
		logger: logger.Named("access_evaluator"),
	}
}

// HasAccess never grants on a store error: the returned Decision is a denial
// whenever err is non-nil.
func (s *accessEvaluator) HasAccess(ctx context.Context, req AccessRequest) (Decision, error) {
	var decision Decision

	if req.Token != "" {
		claims := s.codec.Verify(req.Token)
		switch {
		case claims == nil:
			decision.StaleToken = true
		case claims.CuratorID == req.CuratorID:
			grant, err := s.grants.GetByID(ctx, claims.GrantID)
			switch {
			case err == nil && grant.CuratorID == req.CuratorID:
				return Decision{Granted: true, GrantID: grant.ID, Source: AccessSourceToken}, nil
			case err == nil, errors.Is(err, repository.ErrNotFound):
				decision.StaleToken = true
			default:
				s.logger.Error("grant lookup failed",
					zap.String("grant_id", claims.GrantID.String()),
					zap.Error(err),
				)
				return Decision{}, storeErr("lookup grant", err)
			}
		}
	}

	if req.UserID != "" {
		curatorID := req.CuratorID
		grant, err := s.grants.LatestForUser(ctx, req.UserID, &curatorID)
		switch {
		case err == nil:
			return Decision{
				Granted:    true,
				GrantID:    grant.ID,
				Source:     AccessSourceSession,
				StaleToken: decision.StaleToken,
			}, nil
		case errors.Is(err, repository.ErrNotFound):
		default:
			s.logger.Error("grant lookup failed",
				zap.String("user_id", req.UserID),
				zap.String("curator_id", req.CuratorID.String()),
				zap.Error(err),
			)
			return Decision{StaleToken: decision.StaleToken}, storeErr("lookup user grant", err)
		}
	}

	return decision, nil
}
