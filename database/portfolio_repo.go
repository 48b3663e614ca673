package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-blog/models"
)

type PortfolioRepo struct {
	db *gorm.DB
}

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo {
	return &PortfolioRepo{db}
}

// FindAll returns all portfolio items in insertion order
func (r *PortfolioRepo) FindAll(ctx context.Context) ([]*models.PortfolioItem, error) {
	var items []*models.PortfolioItem
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

// Add inserts a new portfolio item into the database
func (r *PortfolioRepo) Add(ctx context.Context, item *models.PortfolioItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
