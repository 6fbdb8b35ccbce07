package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
	"innercloset/gatekeeper/pkg/crypto"
)

type CreateInviteCodeParams struct {
	CuratorID uuid.UUID
	CreatedBy string
	// Code is generated when empty.
	Code               string
	MaxUses            int
	ExpiresAt          *time.Time
	AllowedEmailDomain string
}

// InviteService is the administrative side of invite codes and grants.
type InviteService interface {
	CreateInviteCode(ctx context.Context, params CreateInviteCodeParams) (*model.InviteCode, error)
	ListInviteCodes(ctx context.Context, curatorID *uuid.UUID) ([]model.InviteCode, error)
	DeactivateInviteCode(ctx context.Context, id uuid.UUID) error
	RevokeGrant(ctx context.Context, grantID uuid.UUID) error
}

type inviteService struct {
	inviteRepo  repository.InviteCodeRepository
	grantRepo   repository.AccessGrantRepository
	curatorRepo repository.CuratorRepository
	logger      *zap.Logger
}

func NewInviteService(
	inviteRepo repository.InviteCodeRepository,
	grantRepo repository.AccessGrantRepository,
	curatorRepo repository.CuratorRepository,
	logger *zap.Logger,
) InviteService {
	return &inviteService{
		inviteRepo:  inviteRepo,
		grantRepo:   grantRepo,
		curatorRepo: curatorRepo,
		logger:      logger.Named("invite_service"),
	}
}

func (s *inviteService) CreateInviteCode(ctx context.Context, params CreateInviteCodeParams) (*model.InviteCode, error) {
	if params.MaxUses < 0 {
		return nil, ErrInvalidMaxUses
	}
	if _, err := s.curatorRepo.GetByID(ctx, params.CuratorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCuratorNotFound
		}
		return nil, storeErr("lookup curator", err)
	}

	code := model.NormalizeCode(params.Code)
	if code == "" {
		generated, err := crypto.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		code = generated
	}

	inviteCode := &model.InviteCode{
		ID:        uuid.New(),
		Code:      code,
		CuratorID: params.CuratorID,
		MaxUses:   params.MaxUses,
		ExpiresAt: params.ExpiresAt,
		IsActive:  true,
		CreatedBy: params.CreatedBy,
	}
	if domain := strings.TrimLeft(strings.ToLower(strings.TrimSpace(params.AllowedEmailDomain)), "@."); domain != "" {
		inviteCode.AllowedEmailDomain = &domain
	}

	if err := s.inviteRepo.Create(ctx, inviteCode); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrCodeExists
		}
		return nil, storeErr("create invite code", err)
	}
	s.logger.Info("invite code created",
		zap.String("code_id", inviteCode.ID.String()),
		zap.String("curator_id", inviteCode.CuratorID.String()),
		zap.String("created_by", params.CreatedBy),
	)
	return inviteCode, nil
}

func (s *inviteService) ListInviteCodes(ctx context.Context, curatorID *uuid.UUID) ([]model.InviteCode, error) {
	codes, err := s.inviteRepo.List(ctx, curatorID)
	if err != nil {
		return nil, storeErr("list invite codes", err)
	}
	return codes, nil
}

func (s *inviteService) DeactivateInviteCode(ctx context.Context, id uuid.UUID) error {
	if err := s.inviteRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeErr("deactivate invite code", err)
	}
	s.logger.Info("invite code deactivated", zap.String("code_id", id.String()))
	return nil
}

func (s *inviteService) RevokeGrant(ctx context.Context, grantID uuid.UUID) error {
	if err := s.grantRepo.Delete(ctx, grantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeErr("revoke grant", err)
	}
	s.logger.Info("grant revoked", zap.String("grant_id", grantID.String()))
	return nil
}
