package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is valid only while both this row and its owning user exist.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
