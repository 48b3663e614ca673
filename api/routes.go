package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// setupSiteRoutes sets up the server-rendered blog and portfolio pages
func setupSiteRoutes(r chi.Router, handlers *routeHandlers, throttle *submissionThrottle) {
	r.NotFound(handlers.blogPostHandler.notFound())

	r.Get("/portfolio", handlers.portfolioHandler.getPortfolio())

	r.Group(func(r chi.Router) {
		r.Use(throttle.middleware)

		// Blog listing, newest first or by view count
		r.Get("/", handlers.blogPostHandler.listBlogPosts(false))
		r.Get("/page/{page}", handlers.blogPostHandler.listBlogPosts(false))
		r.Get("/by_views", handlers.blogPostHandler.listBlogPosts(true))
		r.Get("/by_views/", handlers.blogPostHandler.listBlogPosts(true))
		r.Get("/by_views/page/{page}", handlers.blogPostHandler.listBlogPosts(true))
		r.Post("/", handlers.blogPostHandler.submitSuggestion())

		// Blog detail and comments
		r.Get("/{slug}", handlers.blogPostHandler.getBlogPost())
		r.Post("/{slug}", handlers.blogPostHandler.submitComment())
	})
}

// setupAPIRoutes sets up the read-only JSON API
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, acceptedOrigins []string) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: acceptedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
			MaxAge:         300,
		}))
		r.NotFound(handlers.apiHandler.notFound())
		r.MethodNotAllowed(handlers.apiHandler.methodNotAllowed())

		r.Get("/portfolios/", handlers.apiHandler.listPortfolios())
		r.Get("/posts/", handlers.apiHandler.listPosts())
		r.Get("/post/{slug}/", handlers.apiHandler.getPost())

		r.Get("/portfolios", appendSlash)
		r.Get("/posts", appendSlash)
		r.Get("/post/{slug}", appendSlash)
	})
}

// setupOpsRoutes sets up health and metrics endpoints
func setupOpsRoutes(r chi.Router, handlers *routeHandlers, m *metrics) {
	r.Get("/healthz", handlers.healthHandler.getHealth())
	r.Method(http.MethodGet, "/metrics", m.handler())
}
