package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
)

type RedeemRequest struct {
	Code   string
	UserID string
	// Email is the authenticated user's address, needed only for codes
	// restricted to a domain.
	Email string
}

type Redemption struct {
	Grant   *model.AccessGrant
	Curator CuratorSummary
	// Created is false when the user already held a grant for this code.
	Created bool
}

// GrantIssuer turns a verified code into a durable AccessGrant.
type GrantIssuer interface {
	Redeem(ctx context.Context, req RedeemRequest) (*Redemption, error)
}

type grantIssuer struct {
	verifier CodeVerifier
	codes    repository.InviteCodeRepository
	grants   repository.AccessGrantRepository
	curators repository.CuratorRepository
	now      Clock
	logger   *zap.Logger
}

func NewGrantIssuer(
	verifier CodeVerifier,
	codes repository.InviteCodeRepository,
	grants repository.AccessGrantRepository,
	curators repository.CuratorRepository,
	now Clock,
	logger *zap.Logger,
) GrantIssuer {
	return &grantIssuer{
		verifier: verifier,
		codes:    codes,
		grants:   grants,
		curators: curators,
		now:      now,
		logger:   logger.Named("grant_issuer"),
	}
}

func (s *grantIssuer) Redeem(ctx context.Context, req RedeemRequest) (*Redemption, error) {
	if req.UserID == "" {
		return nil, ErrUnauthorized
	}
	code := model.NormalizeCode(req.Code)
	log := s.logger.With(zap.String("user_id", req.UserID), zap.String("code", code))

	// A prior Verify result is never reused: the code may have expired or
	// filled up since the client checked it.
	verified, err := s.verifier.Verify(ctx, code, req.Email)
	if errors.Is(err, ErrCodeMaxed) {
		return s.existingRedemption(ctx, code, req.UserID, log)
	}
	if err != nil {
		return nil, err
	}

	grant := &model.AccessGrant{
		ID:        uuid.New(),
		UserID:    req.UserID,
		CuratorID: verified.Curator.ID,
		CodeID:    verified.Code.ID,
		Code:      verified.Code.Code,
		GrantedAt: s.now().UTC(),
	}
	stored, created, err := s.grants.Redeem(ctx, grant)
	if err != nil {
		if errors.Is(err, repository.ErrCodeExhausted) {
			log.Info("invite code filled up during redemption")
			return nil, ErrCodeMaxed
		}
		log.Error("grant upsert failed", zap.Error(err))
		return nil, storeErr("redeem invite code", err)
	}

	if created {
		log.Info("access granted",
			zap.String("grant_id", stored.ID.String()),
			zap.String("curator_id", stored.CuratorID.String()),
		)
	}
	return &Redemption{Grant: stored, Curator: verified.Curator, Created: created}, nil
}

// existingRedemption lets a retry from a user who already holds a grant for
// a now-full code succeed without touching the counter.
func (s *grantIssuer) existingRedemption(ctx context.Context, code, userID string, log *zap.Logger) (*Redemption, error) {
	invite, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeMaxed
		}
		log.Error("invite code lookup failed", zap.Error(err))
		return nil, storeErr("lookup invite code", err)
	}
	grant, err := s.grants.GetByUserAndCode(ctx, userID, invite.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeMaxed
		}
		log.Error("grant lookup failed", zap.Error(err))
		return nil, storeErr("lookup grant", err)
	}
	curator, err := s.curators.GetByID(ctx, grant.CuratorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeInvalid
		}
		log.Error("curator lookup failed", zap.Error(err))
		return nil, storeErr("lookup curator", err)
	}
	if !curator.IsActive {
		return nil, ErrCuratorInactive
	}
	return &Redemption{
		Grant: grant,
		Curator: CuratorSummary{
			ID:          curator.ID,
			Slug:        curator.Slug,
			DisplayName: curator.DisplayName,
		},
	}, nil
}
