package repository

import (
	"context"

	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/model"
)

type AccessGrantRepository interface {
	// Redeem inserts grant unless one already exists for its (UserID, CodeID)
	// pair. A new row also increments the code's used_count, guarded so the
	// cap can never be exceeded; both happen atomically or not at all.
	// created reports whether a new grant was written.
	Redeem(ctx context.Context, grant *model.AccessGrant) (stored *model.AccessGrant, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error)
	GetByUserAndCode(ctx context.Context, userID string, codeID uuid.UUID) (*model.AccessGrant, error)
	// LatestForUser returns the most recently granted row for the user,
	// optionally restricted to one curator.
	LatestForUser(ctx context.Context, userID string, curatorID *uuid.UUID) (*model.AccessGrant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
