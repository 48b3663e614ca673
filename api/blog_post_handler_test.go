package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-blog/models"
)

var t0 = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func TestListBlogPosts_OnlyPublished(t *testing.T) {
	site := newTestSite(t, nil)
	site.addPost(t, "Blog 1", true, t0)
	site.addPost(t, "Blog 2", false, t0.Add(time.Hour))

	rec := site.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Blog 1")
	assert.NotContains(t, rec.Body.String(), "Blog 2")
	assert.Contains(t, rec.Body.String(), `href="/blog-1"`)
	assert.Contains(t, rec.Body.String(), "/media/blog/default.png")
}

func TestListBlogPosts_OrderingAndPagination(t *testing.T) {
	site := newTestSite(t, map[string]string{"BLOG_PAGE_SIZE": "2"})
	ctx := context.Background()
	oldest := site.addPost(t, "Oldest", true, t0)
	site.addPost(t, "Middle", true, t0.Add(time.Hour))
	site.addPost(t, "Newest", true, t0.Add(2*time.Hour))
	for i := 0; i < 3; i++ {
		require.NoError(t, site.database.BlogPostRepo().IncrementViews(ctx, oldest.ID))
	}

	rec := site.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Newest")
	assert.Contains(t, body, "Middle")
	assert.NotContains(t, body, "Oldest")
	assert.Contains(t, body, `href="/page/2"`)

	rec = site.get("/page/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Oldest")

	for _, path := range []string{"/by_views/", "/?order=views"} {
		rec = site.get(path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		body = rec.Body.String()
		assert.Contains(t, body, "Oldest", path)
		assert.Less(t, strings.Index(body, "Oldest description"), strings.Index(body, "Newest description"), path)
	}

	rec = site.get("/by_views/page/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Middle")

	for _, path := range []string{"/page/3", "/page/0", "/page/abc", "/by_views/page/9"} {
		assert.Equal(t, http.StatusNotFound, site.get(path).Code, path)
	}
}

func TestGetBlogPost_CountsViews(t *testing.T) {
	site := newTestSite(t, nil)
	post := site.addPost(t, "Blog 1", true, t0)

	for i := 0; i < 3; i++ {
		rec := site.get("/blog-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<p>Blog 1 article</p>")
	}

	found, err := site.database.BlogPostRepo().FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.Views)
}

func TestGetBlogPost_NotFound(t *testing.T) {
	site := newTestSite(t, nil)
	site.addPost(t, "Hidden", false, t0)

	assert.Equal(t, http.StatusNotFound, site.get("/does-not-exist").Code)
	assert.Equal(t, http.StatusNotFound, site.get("/hidden").Code)
	assert.Equal(t, http.StatusNotFound, site.get("/a/b/c").Code)
}

func TestGetBlogPost_TitlesMatchingSiteRoutes(t *testing.T) {
	site := newTestSite(t, nil)
	ctx := context.Background()
	form := url.Values{"username": {"Alice"}, "body": {"Great read"}}

	for _, title := range []string{"Portfolio", "Metrics", "Healthz"} {
		post := site.addPost(t, title, true, t0)
		route := "/" + strings.ToLower(title)
		detail := route + "-post"

		rec := site.get(detail)
		require.Equal(t, http.StatusOK, rec.Code, detail)
		assert.Contains(t, rec.Body.String(), "<p>"+title+" article</p>", detail)
		assert.NotContains(t, site.get(route).Body.String(), "<p>"+title+" article</p>", route)

		assert.NotEqual(t, http.StatusFound, site.postForm(route, form).Code, route)
		assert.Equal(t, http.StatusFound, site.postForm(detail, form, &http.Cookie{Name: userTokenCookie, Value: title}).Code, detail)

		found, err := site.database.BlogPostRepo().FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), found.Views, detail)
		count, err := site.database.CommentRepo().CountByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, detail)
	}
}

func TestSubmitComment_FlowAndCooldown(t *testing.T) {
	site := newTestSite(t, nil)
	post := site.addPost(t, "Blog 1", true, t0)
	form := url.Values{"username": {"Alice"}, "body": {"Great read"}}

	rec := site.postForm("/blog-1", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/blog-1", rec.Header().Get("Location"))

	token := findCookie(rec, userTokenCookie)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.Value)
	flash := findCookie(rec, flashCookie)
	require.NotNil(t, flash)

	comments, err := site.database.CommentRepo().FindByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, token.Value, comments[0].UserToken)
	assert.Equal(t, []notification{{
		Subject: "NEW COMMENT",
		Body:    "Check it\nThe username is Alice\nThe body is Great read",
	}}, site.notifier.all())

	page := site.get("/blog-1", token, flash)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Great read")
	assert.Contains(t, page.Body.String(), commentThanks)

	site.clock.advance(59*time.Minute + 59*time.Second)
	rec = site.postForm("/blog-1", url.Values{"username": {"Alice"}, "body": {"Again"}}, token)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can only submit a comment once every 60 minutes.")
	assert.Contains(t, rec.Body.String(), "Again")
	count, err := site.database.CommentRepo().CountByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, site.notifier.all(), 1)

	site.clock.advance(2 * time.Second)
	rec = site.postForm("/blog-1", url.Values{"username": {"Alice"}, "body": {"Again"}}, token)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Nil(t, findCookie(rec, userTokenCookie), "existing token is kept")
	count, err = site.database.CommentRepo().CountByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSubmitComment_EmptyUsername(t *testing.T) {
	site := newTestSite(t, nil)
	post := site.addPost(t, "Blog 1", true, t0)

	rec := site.postForm("/blog-1", url.Values{"username": {""}, "body": {"Hello"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")

	count, err := site.database.CommentRepo().CountByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, site.notifier.all())
}

func TestSubmitComment_Profanity(t *testing.T) {
	site := newTestSite(t, nil)
	site.addPost(t, "Blog 1", true, t0)

	rec := site.postForm("/blog-1", url.Values{"username": {"Alice"}, "body": {"this is shit"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You cannot use swearing words in the body.")
}

func TestSubmitComment_UnknownPost(t *testing.T) {
	site := newTestSite(t, nil)
	rec := site.postForm("/nope", url.Values{"username": {"Alice"}, "body": {"Hello"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitSuggestion(t *testing.T) {
	site := newTestSite(t, nil)

	rec := site.postForm("/", url.Values{
		"title":       {"Test Title"},
		"description": {"Test Description"},
		"link":        {"https://example.com"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, []notification{{
		Subject: "The user sent a suggestion",
		Body:    "Title: Test Title\nDescription: Test Description\nURL: https://example.com",
	}}, site.notifier.all())

	suggestions, err := site.database.SuggestionRepo().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	flash := findCookie(rec, flashCookie)
	require.NotNil(t, flash)
	page := site.get("/", flash)
	assert.Contains(t, page.Body.String(), "Thanks for the suggestion.")
	cleared := findCookie(page, flashCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSubmitSuggestion_Invalid(t *testing.T) {
	site := newTestSite(t, nil)

	rec := site.postForm("/", url.Values{
		"title":       {"Go"},
		"description": {"Generics"},
		"link":        {"not a url"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid URL.")
	assert.Contains(t, rec.Body.String(), `value="Generics"`)
	assert.Empty(t, site.notifier.all())

	suggestions, err := site.database.SuggestionRepo().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestLocalizedDetail(t *testing.T) {
	site := newTestSite(t, nil)
	site.addPost(t, "Hello", true, t0, models.BlogPostTranslation{
		LanguageCode: "ru", Title: "Привет", Slug: "privet", Description: "Описание", Article: "Статья",
	})

	req := httptest.NewRequest(http.MethodGet, "/privet", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	rec := site.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Привет")

	assert.Equal(t, http.StatusNotFound, site.get("/privet").Code, "slug is looked up in the request language")

	rec = site.get("/privet?lang=ru")
	require.Equal(t, http.StatusOK, rec.Code)
	langCookie := findCookie(rec, languageCookie)
	require.NotNil(t, langCookie)
	assert.Equal(t, "ru", langCookie.Value)

	rec = site.get("/", langCookie)
	assert.Contains(t, rec.Body.String(), "Описание")
}

func TestListURL(t *testing.T) {
	assert.Equal(t, "/", listURL(false, models.OrderCreatedAtDesc, 1))
	assert.Equal(t, "/page/3", listURL(false, models.OrderCreatedAtDesc, 3))
	assert.Equal(t, "/page/2?order=views", listURL(false, models.OrderViewsDesc, 2))
	assert.Equal(t, "/by_views/page/2", listURL(true, models.OrderViewsDesc, 2))
}
