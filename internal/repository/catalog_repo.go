package repository

import (
	"context"

	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/model"
)

// CuratorRepository and ProductRepository are read-only views over the
// catalog tables.
type CuratorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Curator, error)
}

type ProductRepository interface {
	// ListByCurator returns the curator's products with Drop preloaded.
	ListByCurator(ctx context.Context, curatorID uuid.UUID) ([]model.Product, error)
}
