package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"innercloset/gatekeeper/internal/model"
)

type pgAccessGrantRepository struct {
	db *gorm.DB
}

func NewPGAccessGrantRepository(db *gorm.DB) AccessGrantRepository {
	return &pgAccessGrantRepository{db: db}
}

func (r *pgAccessGrantRepository) Redeem(ctx context.Context, grant *model.AccessGrant) (*model.AccessGrant, bool, error) {
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}

	var (
		stored  model.AccessGrant
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A concurrent insert for the same pair blocks on the unique index
		// until the other transaction settles, then falls through to the read.
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "code_id"}},
			DoNothing: true,
		}).Create(grant)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Where("user_id = ? AND code_id = ?", grant.UserID, grant.CodeID).
				First(&stored).Error
		}

		upd := tx.Model(&model.InviteCode{}).
			Where("id = ? AND is_active AND (max_uses = 0 OR used_count < max_uses)", grant.CodeID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrCodeExhausted
		}
		stored = *grant
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCodeExhausted) {
			return nil, false, err
		}
		return nil, false, translate(err)
	}
	return &stored, created, nil
}

func (r *pgAccessGrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	if err := r.db.WithContext(ctx).First(&grant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &grant, nil
}

func (r *pgAccessGrantRepository) GetByUserAndCode(ctx context.Context, userID string, codeID uuid.UUID) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code_id = ?", userID, codeID).
		First(&grant).Error
	if err != nil {
		return nil, translate(err)
	}
	return &grant, nil
}

func (r *pgAccessGrantRepository) LatestForUser(ctx context.Context, userID string, curatorID *uuid.UUID) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if curatorID != nil {
		q = q.Where("curator_id = ?", *curatorID)
	}
	if err := q.Order("granted_at DESC").First(&grant).Error; err != nil {
		return nil, translate(err)
	}
	return &grant, nil
}

func (r *pgAccessGrantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.AccessGrant{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
