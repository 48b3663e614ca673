package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-blog/errs"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageBlogList   = "blog_list.html"
	pageBlogDetail = "blog_detail.html"
	pagePortfolio  = "portfolio.html"
	pageError      = "error.html"
)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"upper": strings.ToUpper,
	"safe": func(s string) template.HTML {
		return template.HTML(s)
	},
}

var pages = parsePages(pageBlogList, pageBlogDetail, pagePortfolio, pageError)

func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(
			template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name),
		)
	}
	return parsed
}

func renderPage(w io.Writer, page string, data any) error {
	tmpl, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// layout is shared by every page: language switcher, title and flash.
type layout struct {
	Title     string
	Lang      string
	Languages []string
	Flash     *flashMessage
}

func newLayout(r *http.Request, title string) layout {
	langs := ctxGetLanguages(r.Context())
	lang := ""
	if len(langs) > 0 {
		lang = langs[0]
	}
	return layout{
		Title:     title,
		Lang:      ctxGetLanguage(r.Context(), lang),
		Languages: langs,
	}
}

// formState carries submitted values and their errors back into a form.
type formState struct {
	Values  map[string]string
	Errors  errs.FieldErrors
	Message string
}

type postCard struct {
	Title       string
	Slug        string
	Description string
	Picture     string
	CreatedAt   time.Time
	Views       int64
}

type blogListPage struct {
	layout
	Posts      []postCard
	Page       int
	NumPages   int
	PrevURL    string
	NextURL    string
	ByViews    bool
	Suggestion formState
}

type commentView struct {
	Username  string
	Body      string
	CreatedAt time.Time
}

type blogDetailPage struct {
	layout
	Post     postCard
	Article  string
	Comments []commentView
	Form     formState
}

type portfolioCard struct {
	Title       string
	Description string
	Tools       string
	Category    string
	Image       string
	Link        string
}

type portfolioPage struct {
	layout
	Items []portfolioCard
}

type errorPage struct {
	layout
	Status  int
	Message string
}
