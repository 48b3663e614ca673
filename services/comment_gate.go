package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/errs"
	"github.com/rpupo63/portfolio-blog/models"
)

// DefaultCommentCooldown is the minimum time between two comments from the
// same session on the same post.
const DefaultCommentCooldown = 60 * time.Minute

type PostLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
}

type CommentStore interface {
	FindLatestByUser(ctx context.Context, userToken string, postID uuid.UUID) (*models.Comment, error)
	Add(ctx context.Context, comment *models.Comment) error
}

// CommentSubmission is a comment as sent by a visitor.
type CommentSubmission struct {
	PostID    uuid.UUID `form:"-"`
	UserToken string    `form:"-"`
	Username  string    `form:"username" validate:"required,min=2,max=128,clean"`
	Body      string    `form:"body" validate:"required,max=1024,clean"`
}

// CommentResult carries the session token even when submission fails, so a
// freshly minted token can still be handed back to the visitor.
type CommentResult struct {
	Comment   *models.Comment
	UserToken string
}

// CommentGate decides whether a comment may be stored, enforces the
// per-session cooldown and notifies the owner about new comments.
type CommentGate struct {
	posts     PostLookup
	comments  CommentStore
	notifier  Notifier
	validator *formValidator
	cooldown  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

type CommentGateOption func(*CommentGate)

func WithCooldown(cooldown time.Duration) CommentGateOption {
	return func(g *CommentGate) {
		if cooldown > 0 {
			g.cooldown = cooldown
		}
	}
}

func WithClock(now func() time.Time) CommentGateOption {
	return func(g *CommentGate) {
		g.now = now
	}
}

func NewCommentGate(posts PostLookup, comments CommentStore, classifier Classifier, notifier Notifier, opts ...CommentGateOption) *CommentGate {
	g := &CommentGate{
		posts:     posts,
		comments:  comments,
		notifier:  notifier,
		validator: newFormValidator(classifier),
		cooldown:  DefaultCommentCooldown,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    log.With().Str("service", "CommentGate").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit validates, rate limits, stores and announces a comment. Errors are
// *errs.ApiErr: not found, validation failed or rate limited.
func (g *CommentGate) Submit(ctx context.Context, sub CommentSubmission) (CommentResult, error) {
	result := CommentResult{UserToken: sub.UserToken}
	if result.UserToken == "" {
		result.UserToken = uuid.NewString()
	}

	if _, err := g.posts.FindByID(ctx, sub.PostID); err != nil {
		return result, errs.NewDatabaseError("find", "blog post", err)
	}

	sub.Username = strings.TrimSpace(sub.Username)
	sub.Body = strings.TrimSpace(sub.Body)
	if err := g.validator.Struct(sub); err != nil {
		return result, err
	}

	now := g.now()
	last, err := g.comments.FindLatestByUser(ctx, result.UserToken, sub.PostID)
	if err != nil {
		return result, errs.NewDatabaseError("find", "comment", err)
	}
	if last != nil && now.Sub(last.CreatedAt) < g.cooldown {
		g.logger.Info().
			Str("postId", sub.PostID.String()).
			Dur("sinceLast", now.Sub(last.CreatedAt)).
			Msg("Comment rejected by cooldown")
		return result, errs.NewRateLimitedError(g.cooldown)
	}

	comment := &models.Comment{
		BlogPostID: sub.PostID,
		Username:   sub.Username,
		Body:       sub.Body,
		UserToken:  result.UserToken,
		CreatedAt:  now,
	}
	if err := g.comments.Add(ctx, comment); err != nil {
		return result, errs.NewDatabaseError("create", "comment", err)
	}
	result.Comment = comment

	body := fmt.Sprintf("Check it\nThe username is %s\nThe body is %s", comment.Username, comment.Body)
	if err := g.notifier.Notify(ctx, "NEW COMMENT", body); err != nil {
		g.logger.Error().Err(err).Str("commentId", comment.ID.String()).Msg("Failed to notify about new comment")
	}
	return result, nil
}
