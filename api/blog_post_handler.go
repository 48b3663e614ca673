package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/errs"
	"github.com/rpupo63/portfolio-blog/models"
	"github.com/rpupo63/portfolio-blog/services"
)

const (
	suggestionThanks = "Thanks for the suggestion. I'll check and add it."
	commentThanks    = "Thanks for your comment!"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	commentRepo  *database.CommentRepo
	commentGate  *services.CommentGate
	suggestions  *services.SuggestionIntake
	viewCounter  *services.ViewCounter
	media        services.MediaResolver
	pageSize     int
	defaultLang  string
	metrics      *metrics
}

func newBlogPostHandler(
	blogPostRepo *database.BlogPostRepo,
	commentRepo *database.CommentRepo,
	commentGate *services.CommentGate,
	suggestions *services.SuggestionIntake,
	viewCounter *services.ViewCounter,
	deps Dependencies,
	settings routerSettings,
	m *metrics,
) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger, deps.Notifier),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		commentRepo:  commentRepo,
		commentGate:  commentGate,
		suggestions:  suggestions,
		viewCounter:  viewCounter,
		media:        deps.Media,
		pageSize:     settings.pageSize,
		defaultLang:  settings.languages.defaultLanguage(),
		metrics:      m,
	}
}

func (h blogPostHandler) card(ctx context.Context, post *models.BlogPost, lang string) postCard {
	translation, _ := post.Translation(lang, h.defaultLang)
	return postCard{
		Title:       translation.Title,
		Slug:        translation.Slug,
		Description: translation.Description,
		Picture:     h.media.URL(ctx, post.Picture),
		CreatedAt:   post.CreatedAt,
		Views:       post.Views,
	}
}

// listBlogPosts renders a page of published posts
// @Summary Blog listing
// @Description Published posts, newest first or by views (path /by_views/ or ?order=views), paginated
// @Tags Blog
// @Produce html
// @Param page path int false "Page number"
// @Param order query string false "views to order by view count"
// @Success 200 {string} string "HTML page"
// @Failure 404 {string} string "Page out of range"
// @Router / [get]
func (h blogPostHandler) listBlogPosts(byViews bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.buildListPage(r, byViews)
		if !ok {
			h.responder.RenderError(w, r, errs.NewNotFound("page"))
			return
		}
		page.Flash = popFlash(w, r)
		h.responder.RenderHTML(w, http.StatusOK, pageBlogList, page)
	}
}

// buildListPage loads the requested listing page. ok is false when the page
// number is malformed or out of range. Storage failures degrade to an empty
// listing on any page.
func (h blogPostHandler) buildListPage(r *http.Request, byViews bool) (blogListPage, bool) {
	lang := ctxGetLanguage(r.Context(), h.defaultLang)

	order := models.ParsePostOrder(r.URL.Query().Get("order"))
	if byViews {
		order = models.OrderViewsDesc
	}

	number := 1
	if raw := chi.URLParam(r, "page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return blogListPage{}, false
		}
		number = n
	}

	view := blogListPage{
		layout:   newLayout(r, ""),
		Page:     number,
		NumPages: 1,
		ByViews:  order == models.OrderViewsDesc,
	}

	result, err := h.blogPostRepo.FindPublishedPage(r.Context(), order, number, h.pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load blog listing")
		return view, true
	}
	if number > result.NumPages() {
		return view, false
	}

	view.NumPages = result.NumPages()
	for _, post := range result.Posts {
		view.Posts = append(view.Posts, h.card(r.Context(), post, lang))
	}
	if result.HasPrevious() {
		view.PrevURL = listURL(byViews, order, number-1)
	}
	if result.HasNext() {
		view.NextURL = listURL(byViews, order, number+1)
	}
	return view, true
}

func listURL(byViews bool, order models.PostOrder, number int) string {
	base := "/"
	if byViews {
		base = "/by_views/"
	}
	path := base
	if number > 1 {
		path = fmt.Sprintf("%spage/%d", base, number)
	}
	if !byViews && order == models.OrderViewsDesc {
		path += "?order=views"
	}
	return path
}

// submitSuggestion handles the suggestion form on the listing
// @Summary Suggest a topic
// @Description Stores a topic suggestion and notifies the owner; redirects to the listing
// @Tags Blog
// @Accept x-www-form-urlencoded
// @Produce html
// @Param title formData string true "Title (2-128 characters)"
// @Param description formData string true "Description (up to 256 characters)"
// @Param link formData string false "URL"
// @Success 302 {string} string "Redirect to /"
// @Failure 400 {string} string "Listing re-rendered with field errors"
// @Router / [post]
func (h blogPostHandler) submitSuggestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.RenderError(w, r, errs.NewMalformedPayloadError("form", err))
			return
		}

		submission := services.SuggestionSubmission{
			Title:       r.PostForm.Get("title"),
			Description: r.PostForm.Get("description"),
			Link:        r.PostForm.Get("link"),
		}

		_, err := h.suggestions.Submit(r.Context(), submission)
		if err == nil {
			h.metrics.suggestions.WithLabelValues(outcomeAccepted).Inc()
			setFlash(w, "success", suggestionThanks)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		form := formState{Values: map[string]string{
			"title":       submission.Title,
			"description": submission.Description,
			"link":        submission.Link,
		}}
		status := errs.StatusCode(err)
		if errs.IsValidationFailed(err) {
			h.metrics.suggestions.WithLabelValues(outcomeInvalid).Inc()
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) {
				form.Errors = apiErr.Fields
			}
		} else {
			h.metrics.suggestions.WithLabelValues(outcomeError).Inc()
			h.logger.Error().Err(err).Msg("Failed to store suggestion")
			form.Message = genericErrorMessage
		}

		page, _ := h.buildListPage(r, false)
		page.Suggestion = form
		h.responder.RenderHTML(w, status, pageBlogList, page)
	}
}

// getBlogPost renders one published post and counts the read
// @Summary Blog detail
// @Description Published post resolved by slug in the request language; every read increments views
// @Tags Blog
// @Produce html
// @Param slug path string true "Post slug"
// @Success 200 {string} string "HTML page"
// @Failure 404 {string} string "No published post with this slug in this language"
// @Router /{slug} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.findPost(r)
		if err != nil {
			h.responder.RenderError(w, r, err)
			return
		}

		h.viewCounter.RecordView(r.Context(), post.ID)
		post.Views++
		h.metrics.postReads.Inc()

		page := h.buildDetailPage(r, post, formState{})
		page.Flash = popFlash(w, r)
		h.responder.RenderHTML(w, http.StatusOK, pageBlogDetail, page)
	}
}

// submitComment handles the comment form on a post
// @Summary Comment on a post
// @Description Stores a comment unless the session commented on this post within the cooldown
// @Tags Blog
// @Accept x-www-form-urlencoded
// @Produce html
// @Param slug path string true "Post slug"
// @Param username formData string true "Name (2-128 characters)"
// @Param body formData string true "Comment (up to 1024 characters)"
// @Success 302 {string} string "Redirect to the post"
// @Failure 400 {string} string "Post re-rendered with field errors"
// @Failure 404 {string} string "Unknown post"
// @Failure 429 {string} string "Post re-rendered with the cooldown message"
// @Router /{slug} [post]
func (h blogPostHandler) submitComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.findPost(r)
		if err != nil {
			h.metrics.commentSubmissions.WithLabelValues(outcomeNotFound).Inc()
			h.responder.RenderError(w, r, err)
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.RenderError(w, r, errs.NewMalformedPayloadError("form", err))
			return
		}

		token := userToken(r)
		submission := services.CommentSubmission{
			PostID:    post.ID,
			UserToken: token,
			Username:  r.PostForm.Get("username"),
			Body:      r.PostForm.Get("body"),
		}

		result, err := h.commentGate.Submit(r.Context(), submission)
		if result.UserToken != "" && result.UserToken != token {
			setUserToken(w, result.UserToken)
		}

		if err == nil {
			h.metrics.commentSubmissions.WithLabelValues(outcomeAccepted).Inc()
			setFlash(w, "success", commentThanks)
			http.Redirect(w, r, "/"+url.PathEscape(chi.URLParam(r, "slug")), http.StatusFound)
			return
		}

		form := formState{Values: map[string]string{
			"username": submission.Username,
			"body":     submission.Body,
		}}
		var apiErr *errs.ApiErr
		switch {
		case errs.IsNotFound(err):
			h.metrics.commentSubmissions.WithLabelValues(outcomeNotFound).Inc()
			h.responder.RenderError(w, r, err)
			return
		case errs.IsValidationFailed(err):
			h.metrics.commentSubmissions.WithLabelValues(outcomeInvalid).Inc()
			if errors.As(err, &apiErr) {
				form.Errors = apiErr.Fields
			}
		case errs.IsRateLimited(err):
			h.metrics.commentSubmissions.WithLabelValues(outcomeRateLimited).Inc()
			if errors.As(err, &apiErr) {
				form.Message = apiErr.UserMessage()
			}
		default:
			h.metrics.commentSubmissions.WithLabelValues(outcomeError).Inc()
			h.logger.Error().Err(err).Str("postId", post.ID.String()).Msg("Failed to store comment")
			form.Message = genericErrorMessage
		}

		h.responder.RenderHTML(w, errs.StatusCode(err), pageBlogDetail, h.buildDetailPage(r, post, form))
	}
}

func (h blogPostHandler) findPost(r *http.Request) (*models.BlogPost, error) {
	lang := ctxGetLanguage(r.Context(), h.defaultLang)
	post, err := h.blogPostRepo.FindPublishedBySlug(r.Context(), lang, chi.URLParam(r, "slug"))
	if err != nil {
		return nil, wrapDatabaseError("find", "blog post", err)
	}
	return post, nil
}

func (h blogPostHandler) buildDetailPage(r *http.Request, post *models.BlogPost, form formState) blogDetailPage {
	lang := ctxGetLanguage(r.Context(), h.defaultLang)
	translation, _ := post.Translation(lang, h.defaultLang)

	page := blogDetailPage{
		layout:  newLayout(r, translation.Title),
		Post:    h.card(r.Context(), post, lang),
		Article: translation.Article,
		Form:    form,
	}

	comments, err := h.commentRepo.FindByPost(r.Context(), post.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("postId", post.ID.String()).Msg("Failed to load comments")
		return page
	}
	for _, c := range comments {
		page.Comments = append(page.Comments, commentView{
			Username:  c.Username,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return page
}

func (h blogPostHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.RenderError(w, r, errs.NewNotFound("page"))
	}
}
