package model

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityGeneral Visibility = "general"
	VisibilityInner   Visibility = "inner"
	VisibilityDrop    Visibility = "drop"
)

type Drop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CuratorID uuid.UUID `gorm:"type:uuid;not null;index" json:"curator_id"`
	Name      string    `gorm:"type:varchar(256)" json:"name"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
}

func (Drop) TableName() string { return "drops" }

// Open reports whether now falls inside [StartsAt, EndsAt).
func (d *Drop) Open(now time.Time) bool {
	return !now.Before(d.StartsAt) && now.Before(d.EndsAt)
}

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CuratorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"curator_id"`
	Title      string     `gorm:"type:varchar(256);not null" json:"title"`
	PriceCents int64      `gorm:"not null" json:"price_cents"`
	ImageURL   string     `gorm:"type:text" json:"image_url,omitempty"`
	Visibility Visibility `gorm:"type:varchar(16);not null;default:general" json:"visibility"`
	DropID     *uuid.UUID `gorm:"type:uuid;index" json:"drop_id,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	Stock      int        `gorm:"not null;default:0" json:"stock"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Drop *Drop `gorm:"foreignKey:DropID" json:"drop,omitempty"`
}

func (Product) TableName() string { return "products" }
