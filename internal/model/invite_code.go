package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type InviteCode struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code               string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	CuratorID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"curator_id"`
	MaxUses            int        `gorm:"not null;default:0" json:"max_uses"` // 0 = unlimited
	UsedCount          int        `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	AllowedEmailDomain *string    `gorm:"type:varchar(255)" json:"allowed_email_domain,omitempty"`
	IsActive           bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy          string     `gorm:"type:varchar(128)" json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (InviteCode) TableName() string { return "invite_codes" }

// NormalizeCode is the canonical stored form of a code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (c *InviteCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

func (c *InviteCode) Exhausted() bool {
	return c.MaxUses > 0 && c.UsedCount >= c.MaxUses
}
