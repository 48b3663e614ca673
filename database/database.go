package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-blog/models"
)

type Database struct {
	db             *gorm.DB
	blogPostRepo   *BlogPostRepo
	commentRepo    *CommentRepo
	suggestionRepo *SuggestionRepo
	portfolioRepo  *PortfolioRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		blogPostRepo:   NewBlogPostRepo(db),
		commentRepo:    NewCommentRepo(db),
		suggestionRepo: NewSuggestionRepo(db),
		portfolioRepo:  NewPortfolioRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) SuggestionRepo() *SuggestionRepo {
	return d.suggestionRepo
}

func (d Database) PortfolioRepo() *PortfolioRepo {
	return d.portfolioRepo
}

// Migrate brings the schema up to date with the models.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks that the primary connection is usable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
