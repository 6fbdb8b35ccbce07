package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"innercloset/gatekeeper/internal/model"
)

type pgInviteCodeRepository struct {
	db *gorm.DB
}

func NewPGInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &pgInviteCodeRepository{db: db}
}

func (r *pgInviteCodeRepository) Create(ctx context.Context, code *model.InviteCode) error {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

func (r *pgInviteCodeRepository) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var inviteCode model.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&inviteCode).Error; err != nil {
		return nil, translate(err)
	}
	return &inviteCode, nil
}

func (r *pgInviteCodeRepository) List(ctx context.Context, curatorID *uuid.UUID) ([]model.InviteCode, error) {
	var codes []model.InviteCode
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if curatorID != nil {
		q = q.Where("curator_id = ?", *curatorID)
	}
	if err := q.Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *pgInviteCodeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
