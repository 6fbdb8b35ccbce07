package repository

import (
	"context"

	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/model"
)

type InviteCodeRepository interface {
	Create(ctx context.Context, code *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	List(ctx context.Context, curatorID *uuid.UUID) ([]model.InviteCode, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
