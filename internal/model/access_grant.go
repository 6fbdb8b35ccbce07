package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessGrant records that a user redeemed a code. Rows are never updated;
// deleting one revokes the access it carried.
type AccessGrant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_access_grants_user_code;index:idx_access_grants_user_curator" json:"user_id"`
	CuratorID uuid.UUID `gorm:"type:uuid;not null;index:idx_access_grants_user_curator" json:"curator_id"`
	CodeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_access_grants_user_code" json:"code_id"`
	Code      string    `gorm:"type:varchar(64);not null" json:"code"`
	GrantedAt time.Time `gorm:"not null" json:"granted_at"`
}

func (AccessGrant) TableName() string { return "access_grants" }
