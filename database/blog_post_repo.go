package database

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-blog/models"
)

// DefaultPageSize is the number of posts per listing page.
const DefaultPageSize = 6

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// PostPage is one page of the published listing.
type PostPage struct {
	Posts  []*models.BlogPost
	Number int
	Size   int
	Total  int64
}

// NumPages is at least 1 so an empty listing still has a first page.
func (p PostPage) NumPages() int {
	if p.Total == 0 || p.Size <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p PostPage) HasPrevious() bool { return p.Number > 1 }

func (p PostPage) HasNext() bool { return p.Number < p.NumPages() }

// published is the public view of blog posts; everything else goes through
// the unfiltered db handle.
func (r *BlogPostRepo) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("blog_posts.is_published = ?", true)
}

// FindPublishedPage returns page number (1-based) of published posts in the given order.
func (r *BlogPostRepo) FindPublishedPage(ctx context.Context, order models.PostOrder, number, size int) (*PostPage, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	page := &PostPage{Number: number, Size: size}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.published(gctx).Count(&page.Total).Error
	})
	g.Go(func() error {
		return r.published(gctx).
			Preload("Translations").
			Order(order.Clause()).
			Limit(size).
			Offset((number - 1) * size).
			Find(&page.Posts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// FindAllPublished returns every published post, newest first
func (r *BlogPostRepo) FindAllPublished(ctx context.Context) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.published(ctx).
		Preload("Translations").
		Order(models.OrderCreatedAtDesc.Clause()).
		Find(&blogPosts).Error
	return blogPosts, err
}

// FindPublishedBySlug resolves a published post by the slug of its
// translation in languageCode. Returns gorm.ErrRecordNotFound when no
// translation in that language carries the slug.
func (r *BlogPostRepo) FindPublishedBySlug(ctx context.Context, languageCode, slug string) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.published(ctx).
		Joins("JOIN blog_post_translations ON blog_post_translations.blog_post_id = blog_posts.id").
		Where("blog_post_translations.language_code = ? AND blog_post_translations.slug = ?", languageCode, slug).
		Preload("Translations").
		First(&blogPost).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindByID returns a blog post by its ID regardless of its publish flag
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Preload("Translations").First(&blogPost, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// IncrementViews bumps the view counter in place, touching no other column.
func (r *BlogPostRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Add inserts a new blog post and its translations
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(blogPost).Error
}

// Update saves the post's own columns; translations are left untouched
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit("Translations", "Comments").Save(blogPost).Error
}

// Delete removes a blog post together with its translations and comments
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_post_id = ?", id).Delete(&models.BlogPostTranslation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BlogPost{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
