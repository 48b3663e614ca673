package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reader comment on a blog post. UserToken correlates comments
// coming from the same browser session; it is not an account.
type Comment struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	BlogPostID uuid.UUID `json:"post_id" db:"blog_post_id" gorm:"type:uuid;not null;index:idx_comment_post;index:idx_comment_user_post,priority:2"`
	Username   string    `json:"username" db:"username" gorm:"type:varchar(128);not null"`
	Body       string    `json:"body" db:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;index:idx_comment_user_post,priority:3"`
	UserToken  string    `json:"-" db:"user_id" gorm:"column:user_id;type:varchar(255);not null;index:idx_comment_user_post,priority:1"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
