package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
)

type DropWindow struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// ProductView is a product as one requester may see it. Locked products keep
// title and price (rendered blurred) but lose their image.
type ProductView struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	PriceCents int64            `json:"price_cents"`
	ImageURL   string           `json:"image_url,omitempty"`
	Tier       model.Visibility `json:"tier"`
	Drop       *DropWindow      `json:"drop,omitempty"`
	Visibility
}

type CatalogService interface {
	ListProducts(ctx context.Context, curatorID uuid.UUID, accessGranted bool) ([]ProductView, error)
}

type catalogService struct {
	curators repository.CuratorRepository
	products repository.ProductRepository
	now      Clock
}

func NewCatalogService(curators repository.CuratorRepository, products repository.ProductRepository, now Clock) CatalogService {
	return &catalogService{curators: curators, products: products, now: now}
}

func (s *catalogService) ListProducts(ctx context.Context, curatorID uuid.UUID, accessGranted bool) ([]ProductView, error) {
	curator, err := s.curators.GetByID(ctx, curatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCuratorNotFound
		}
		return nil, storeErr("lookup curator", err)
	}
	if !curator.IsActive {
		return nil, ErrCuratorInactive
	}

	products, err := s.products.ListByCurator(ctx, curatorID)
	if err != nil {
		return nil, storeErr("list products", err)
	}

	now := s.now().UTC()
	views := make([]ProductView, 0, len(products))
	for i := range products {
		p := &products[i]
		view := ProductView{
			ID:         p.ID,
			Title:      p.Title,
			PriceCents: p.PriceCents,
			ImageURL:   p.ImageURL,
			Tier:       p.Visibility,
			Visibility: ResolveVisibility(p, now, accessGranted),
		}
		if p.Drop != nil {
			view.Drop = &DropWindow{StartsAt: p.Drop.StartsAt, EndsAt: p.Drop.EndsAt}
		}
		if view.State == ContentLocked {
			view.ImageURL = ""
		}
		views = append(views, view)
	}
	return views, nil
}
