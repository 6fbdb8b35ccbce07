package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
)

// Clock supplies the current time; tests pin it.
type Clock func() time.Time

type CuratorSummary struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"display_name"`
}

type CodeSummary struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// VerifiedCode is the outcome of a successful check. It is only valid at the
// instant it was produced.
type VerifiedCode struct {
	Curator CuratorSummary `json:"curator"`
	Code    CodeSummary    `json:"code"`
}

// CodeVerifier evaluates an invite code against its policy without mutating
// anything, so clients may check a code before redeeming it.
type CodeVerifier interface {
	Verify(ctx context.Context, rawCode string, email string) (*VerifiedCode, error)
}

type codeVerifier struct {
	codes    repository.InviteCodeRepository
	curators repository.CuratorRepository
	now      Clock
	logger   *zap.Logger
}

func NewCodeVerifier(
	codes repository.InviteCodeRepository,
	curators repository.CuratorRepository,
	now Clock,
	logger *zap.Logger,
) CodeVerifier {
	return &codeVerifier{
		codes:    codes,
		curators: curators,
		now:      now,
		logger:   logger.Named("code_verifier"),
	}
}

func (s *codeVerifier) Verify(ctx context.Context, rawCode string, email string) (*VerifiedCode, error) {
	code := model.NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrCodeInvalid
	}

	invite, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeInvalid
		}
		s.logger.Error("invite code lookup failed", zap.String("code", code), zap.Error(err))
		return nil, storeErr("lookup invite code", err)
	}
	if !invite.IsActive {
		return nil, ErrCodeInvalid
	}
	if invite.Expired(s.now()) {
		return nil, ErrCodeExpired
	}
	if invite.AllowedEmailDomain != nil && !EmailDomainAllowed(email, *invite.AllowedEmailDomain) {
		return nil, ErrCodeDomain
	}
	if invite.Exhausted() {
		return nil, ErrCodeMaxed
	}

	curator, err := s.curators.GetByID(ctx, invite.CuratorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeInvalid
		}
		s.logger.Error("curator lookup failed",
			zap.String("code", code),
			zap.String("curator_id", invite.CuratorID.String()),
			zap.Error(err),
		)
		return nil, storeErr("lookup curator", err)
	}
	if !curator.IsActive {
		return nil, ErrCuratorInactive
	}

	return &VerifiedCode{
		Curator: CuratorSummary{
			ID:          curator.ID,
			Slug:        curator.Slug,
			DisplayName: curator.DisplayName,
		},
		Code: CodeSummary{ID: invite.ID, Code: invite.Code},
	}, nil
}

// EmailDomainAllowed reports whether email belongs to allowed or one of its
// subdomains. "a@notacme.com" does not match "acme.com". A blank allowed
// domain places no restriction; a blank email never matches a restriction.
func EmailDomainAllowed(email, allowed string) bool {
	allowed = strings.TrimLeft(strings.ToLower(strings.TrimSpace(allowed)), "@.")
	if allowed == "" {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return domain == allowed || strings.HasSuffix(domain, "."+allowed)
}
