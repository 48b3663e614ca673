package api

import (
	"time"

	"github.com/google/uuid"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler  blogPostHandler
	portfolioHandler portfolioHandler
	apiHandler       apiHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"slug"`
	Details string `json:"details,omitempty" example:"Failed to find blog post"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// PortfolioResponse is one portfolio entry as served by the JSON API
// @Description Portfolio item
type PortfolioResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title" example:"Personal site"`
	Tools    *string   `json:"tools" example:"Go, PostgreSQL"`
	Category string    `json:"category" example:"web"`
	Image    *string   `json:"image" example:"/media/portfolio/site.png"`
	Link     *string   `json:"link" example:"https://github.com/example/site"`
}

// PostSummaryResponse is a published post without its article body
// @Description Blog post summary
type PostSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" example:"Blog 1"`
	Slug        string    `json:"slug" example:"blog-1"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Picture     string    `json:"picture" example:"/media/blog/default.png"`
}

// PostDetailResponse is a published post with its full article body
// @Description Blog post detail
type PostDetailResponse struct {
	PostSummaryResponse
	Article string `json:"article"`
}

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime" example:"1h2m3s"`
	Database  string    `json:"database" example:"ok"`
}
