package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/errs"
	"github.com/rpupo63/portfolio-blog/models"
	"github.com/rpupo63/portfolio-blog/services"
)

type apiHandler struct {
	responder     Responder
	logger        zerolog.Logger
	blogPostRepo  *database.BlogPostRepo
	portfolioRepo *database.PortfolioRepo
	media         services.MediaResolver
	defaultLang   string
}

func newAPIHandler(blogPostRepo *database.BlogPostRepo, portfolioRepo *database.PortfolioRepo, deps Dependencies, settings routerSettings) apiHandler {
	logger := log.With().Str("handlerName", "apiHandler").Logger()

	return apiHandler{
		responder:     NewResponder(logger, deps.Notifier),
		logger:        logger,
		blogPostRepo:  blogPostRepo,
		portfolioRepo: portfolioRepo,
		media:         deps.Media,
		defaultLang:   settings.languages.defaultLanguage(),
	}
}

func (h apiHandler) summary(r *http.Request, post *models.BlogPost) PostSummaryResponse {
	translation, _ := post.Translation(ctxGetLanguage(r.Context(), h.defaultLang), h.defaultLang)
	return PostSummaryResponse{
		ID:          post.ID,
		Title:       translation.Title,
		Slug:        translation.Slug,
		Description: translation.Description,
		CreatedAt:   post.CreatedAt,
		Picture:     h.media.URL(r.Context(), post.Picture),
	}
}

// listPortfolios retrieves all portfolio items
// @Summary Get all portfolio items
// @Description Retrieves every portfolio item; a storage failure yields an empty list
// @Tags API
// @Produce json
// @Success 200 {array} PortfolioResponse "List of portfolio items"
// @Failure 405 {object} ErrorResponse "Method not allowed"
// @Router /api/v1/portfolios/ [get]
func (h apiHandler) listPortfolios() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.portfolioRepo.FindAll(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load portfolio items")
		}

		response := make([]PortfolioResponse, 0, len(items))
		for _, item := range items {
			entry := PortfolioResponse{
				ID:       item.ID,
				Title:    item.Title,
				Tools:    item.Tools,
				Category: item.Category,
				Link:     item.Link,
			}
			if item.Image != nil {
				image := h.media.URL(r.Context(), *item.Image)
				entry.Image = &image
			}
			response = append(response, entry)
		}

		h.responder.WriteJSON(w, response)
	}
}

// listPosts retrieves all published blog posts without their article bodies
// @Summary Get published blog posts
// @Description Published posts, newest first, localized by Accept-Language or ?lang=; a storage failure yields an empty list
// @Tags API
// @Produce json
// @Success 200 {array} PostSummaryResponse "List of blog post summaries"
// @Failure 405 {object} ErrorResponse "Method not allowed"
// @Router /api/v1/posts/ [get]
func (h apiHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.FindAllPublished(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load blog posts")
		}

		response := make([]PostSummaryResponse, 0, len(posts))
		for _, post := range posts {
			response = append(response, h.summary(r, post))
		}

		h.responder.WriteJSON(w, response)
	}
}

// getPost retrieves one published blog post with its article
// @Summary Get blog post
// @Description Published post resolved by slug within the request language
// @Tags API
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} PostDetailResponse "Blog post with article"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Failure 405 {object} ErrorResponse "Method not allowed"
// @Router /api/v1/post/{slug}/ [get]
func (h apiHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := ctxGetLanguage(r.Context(), h.defaultLang)

		post, err := h.blogPostRepo.FindPublishedBySlug(r.Context(), lang, chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", "blog post", err))
			return
		}

		translation, _ := post.Translation(lang, h.defaultLang)
		h.responder.WriteJSON(w, PostDetailResponse{
			PostSummaryResponse: h.summary(r, post),
			Article:             translation.Article,
		})
	}
}

func (h apiHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteError(w, r, errs.NewNotFound("resource"))
	}
}

func (h apiHandler) methodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteError(w, r, errs.NewMethodNotAllowedError(r.Method))
	}
}
