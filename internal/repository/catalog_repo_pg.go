package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"innercloset/gatekeeper/internal/model"
)

type pgCuratorRepository struct {
	db *gorm.DB
}

func NewPGCuratorRepository(db *gorm.DB) CuratorRepository {
	return &pgCuratorRepository{db: db}
}

func (r *pgCuratorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Curator, error) {
	var curator model.Curator
	if err := r.db.WithContext(ctx).First(&curator, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &curator, nil
}

type pgProductRepository struct {
	db *gorm.DB
}

func NewPGProductRepository(db *gorm.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) ListByCurator(ctx context.Context, curatorID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Drop").
		Where("curator_id = ?", curatorID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}
