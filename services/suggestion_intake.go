package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/errs"
	"github.com/rpupo63/portfolio-blog/models"
)

type SuggestionStore interface {
	Add(ctx context.Context, suggestion *models.Suggestion) error
}

// SuggestionSubmission is a topic suggestion as sent through the listing form.
type SuggestionSubmission struct {
	Title       string `form:"title" validate:"required,min=2,max=128"`
	Description string `form:"description" validate:"required,max=256"`
	Link        string `form:"link" validate:"omitempty,max=256,url"`
}

type SuggestionIntake struct {
	store     SuggestionStore
	notifier  Notifier
	validator *formValidator
	logger    zerolog.Logger
}

func NewSuggestionIntake(store SuggestionStore, notifier Notifier) *SuggestionIntake {
	return &SuggestionIntake{
		store:     store,
		notifier:  notifier,
		validator: newFormValidator(nil),
		logger:    log.With().Str("service", "SuggestionIntake").Logger(),
	}
}

// Submit stores a valid suggestion and notifies the owner. A failed
// notification is logged and does not fail the submission.
func (s *SuggestionIntake) Submit(ctx context.Context, sub SuggestionSubmission) (*models.Suggestion, error) {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Description = strings.TrimSpace(sub.Description)
	sub.Link = strings.TrimSpace(sub.Link)
	if err := s.validator.Struct(sub); err != nil {
		return nil, err
	}

	suggestion := &models.Suggestion{
		Title:       sub.Title,
		Description: sub.Description,
	}
	if sub.Link != "" {
		suggestion.Link = &sub.Link
	}
	if err := s.store.Add(ctx, suggestion); err != nil {
		return nil, errs.NewDatabaseError("create", "suggestion", err)
	}

	link := "No URL provided"
	if suggestion.Link != nil {
		link = *suggestion.Link
	}
	body := fmt.Sprintf("Title: %s\nDescription: %s\nURL: %s", suggestion.Title, suggestion.Description, link)
	if err := s.notifier.Notify(ctx, "The user sent a suggestion", body); err != nil {
		s.logger.Error().Err(err).Msg("Failed to notify about suggestion")
	}
	return suggestion, nil
}
