package api

import (
	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, deps Dependencies, settings routerSettings, m *metrics) *routeHandlers {
	gate := services.NewCommentGate(
		database.BlogPostRepo(),
		database.CommentRepo(),
		deps.Classifier,
		deps.Notifier,
		services.WithCooldown(settings.commentCooldown),
		services.WithClock(settings.now),
	)

	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(
			database.BlogPostRepo(),
			database.CommentRepo(),
			gate,
			services.NewSuggestionIntake(database.SuggestionRepo(), deps.Notifier),
			services.NewViewCounter(database.BlogPostRepo()),
			deps,
			settings,
			m,
		),
		portfolioHandler: newPortfolioHandler(database.PortfolioRepo(), deps, settings),
		apiHandler:       newAPIHandler(database.BlogPostRepo(), database.PortfolioRepo(), deps, settings),
		healthHandler:    newHealthHandler(database, deps, settings.startupTime),
	}
}
