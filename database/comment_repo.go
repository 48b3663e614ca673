package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-blog/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByPost returns a post's comments, newest first
func (r *CommentRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("blog_post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// FindLatestByUser returns the most recent comment left on postID by the
// session token, or nil when there is none. Always reads from the primary.
func (r *CommentRepo) FindLatestByUser(ctx context.Context, userToken string, postID uuid.UUID) (*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("user_id = ? AND blog_post_id = ?", userToken, postID).
		Order("created_at DESC").
		Limit(1).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, nil
	}
	return comments[0], nil
}

// CountByPost returns how many comments a post has
func (r *CommentRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("blog_post_id = ?", postID).Count(&count).Error
	return count, err
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
