package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-blog/models"
)

type SuggestionRepo struct {
	db *gorm.DB
}

func NewSuggestionRepo(db *gorm.DB) *SuggestionRepo {
	return &SuggestionRepo{db}
}

// FindAll returns all suggestions, newest first
func (r *SuggestionRepo) FindAll(ctx context.Context) ([]*models.Suggestion, error) {
	var suggestions []*models.Suggestion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&suggestions).Error
	return suggestions, err
}

// Add inserts a new suggestion into the database
func (r *SuggestionRepo) Add(ctx context.Context, suggestion *models.Suggestion) error {
	return r.db.WithContext(ctx).Create(suggestion).Error
}
