package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Suggestion is a topic proposal sent through the form on the blog listing.
type Suggestion struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string    `json:"title" db:"title" gorm:"type:varchar(128);not null"`
	Description string    `json:"description" db:"description" gorm:"type:varchar(256);not null"`
	Link        *string   `json:"link,omitempty" db:"link" gorm:"type:varchar(256)"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
}

func (s *Suggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
