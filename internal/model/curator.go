package model

import (
	"time"

	"github.com/google/uuid"
)

// Curator is owned by the catalog service; this module only reads it.
type Curator struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Slug        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"slug"`
	DisplayName string    `gorm:"type:varchar(256);not null" json:"display_name"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Curator) TableName() string { return "curators" }
