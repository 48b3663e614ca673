package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// DefaultPicture is used for posts created without a picture.
const DefaultPicture = "blog/default.png"

// reservedSlugs are first path segments the site routes itself. A post slug
// equal to one of them gets reservedSlugSuffix appended.
var reservedSlugs = map[string]bool{
	"api":       true,
	"by_views":  true,
	"healthz":   true,
	"metrics":   true,
	"page":      true,
	"portfolio": true,
}

const reservedSlugSuffix = "-post"

// BlogPost represents a blog post. Its human-readable fields live in one
// BlogPostTranslation per language.
type BlogPost struct {
	ID           uuid.UUID             `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Picture      string                `json:"picture" db:"picture" gorm:"type:text;not null"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;index:idx_blog_post_created_at"`
	IsPublished  *bool                 `json:"is_published" db:"is_published" gorm:"not null;default:true;index:idx_blog_post_published"`
	Views        int64                 `json:"views" db:"views" gorm:"type:bigint;not null;default:0"`
	Translations []BlogPostTranslation `json:"translations,omitempty" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
	Comments     []Comment             `json:"comments,omitempty" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Picture == "" {
		p.Picture = DefaultPicture
	}
	return nil
}

// Translation picks the variant for lang, then fallback, then whatever
// variant exists. ok is false only when the post has no translations loaded.
func (p BlogPost) Translation(lang, fallback string) (t BlogPostTranslation, ok bool) {
	if len(p.Translations) == 0 {
		return BlogPostTranslation{}, false
	}
	for _, candidate := range []string{lang, fallback} {
		for _, tr := range p.Translations {
			if tr.LanguageCode == candidate {
				return tr, true
			}
		}
	}
	return p.Translations[0], true
}

// BlogPostTranslation holds the localized fields of a BlogPost. Slugs are
// unique within a language.
type BlogPostTranslation struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	BlogPostID   uuid.UUID `json:"blog_post_id" db:"blog_post_id" gorm:"type:uuid;not null;uniqueIndex:idx_blog_post_translation_post_lang"`
	LanguageCode string    `json:"language_code" db:"language_code" gorm:"type:varchar(15);not null;uniqueIndex:idx_blog_post_translation_post_lang;uniqueIndex:idx_blog_post_translation_slug"`
	Title        string    `json:"title" db:"title" gorm:"type:varchar(128);not null"`
	Slug         string    `json:"slug" db:"slug" gorm:"type:varchar(128);not null;uniqueIndex:idx_blog_post_translation_slug"`
	Description  string    `json:"description" db:"description" gorm:"type:varchar(256);not null"`
	Article      string    `json:"article" db:"article" gorm:"type:text;not null"`
}

// BeforeSave derives the slug from the title when none was supplied and moves
// it off any path the site routes itself.
func (t *BlogPostTranslation) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Title)
	}
	if reservedSlugs[strings.ToLower(t.Slug)] {
		t.Slug += reservedSlugSuffix
	}
	return nil
}

func (t *BlogPostTranslation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
