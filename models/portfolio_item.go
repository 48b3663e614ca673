package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LocalizedText maps a language code to text in that language.
type LocalizedText map[string]string

// Get returns the text for lang, then fallback, then any non-empty variant.
func (l LocalizedText) Get(lang, fallback string) string {
	if v := l[lang]; v != "" {
		return v
	}
	if v := l[fallback]; v != "" {
		return v
	}
	for _, v := range l {
		if v != "" {
			return v
		}
	}
	return ""
}

// PortfolioItem represents a project shown on the portfolio page
type PortfolioItem struct {
	ID          uuid.UUID                         `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                            `json:"title" db:"title" gorm:"type:varchar(128);not null"`
	Description datatypes.JSONType[LocalizedText] `json:"description" db:"description" gorm:"not null"`
	Tools       *string                           `json:"tools,omitempty" db:"tools" gorm:"type:text"`
	Category    string                            `json:"category" db:"category" gorm:"type:varchar(64);not null;default:''"`
	Image       *string                           `json:"image,omitempty" db:"image" gorm:"type:text"`
	Link        *string                           `json:"link,omitempty" db:"link" gorm:"type:text"`
	CreatedAt   time.Time                         `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
}

func (p *PortfolioItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
