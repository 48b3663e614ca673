package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ViewStore interface {
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// ViewCounter counts detail page reads. Every read counts; there is no
// per-visitor deduplication.
type ViewCounter struct {
	store  ViewStore
	logger zerolog.Logger
}

func NewViewCounter(store ViewStore) *ViewCounter {
	return &ViewCounter{
		store:  store,
		logger: log.With().Str("service", "ViewCounter").Logger(),
	}
}

// RecordView never fails the read; increment errors are only logged.
func (v *ViewCounter) RecordView(ctx context.Context, postID uuid.UUID) {
	if err := v.store.IncrementViews(ctx, postID); err != nil {
		v.logger.Error().Err(err).Str("postId", postID.String()).Msg("Failed to record view")
	}
}
