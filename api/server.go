package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/config"
	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/services"
)

const defaultPageSize = database.DefaultPageSize

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the collaborators the handlers need besides storage.
// Nil fields fall back to a log-only notifier, the embedded word list and
// the MEDIA_URL prefix.
type Dependencies struct {
	Notifier   services.Notifier
	Classifier services.Classifier
	Media      services.MediaResolver
}

func NewServer(database database.Database, c map[string]string, deps Dependencies) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(database, deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	now         func() time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// withClock overrides the clock used for comment cooldowns.
func withClock(now func() time.Time) func(*router) {
	return func(r *router) {
		r.now = now
	}
}

// routerSettings are the config values the handlers read, resolved once.
type routerSettings struct {
	languages       languageSelector
	pageSize        int
	commentCooldown time.Duration
	startupTime     time.Time
	now             func() time.Time
}

func newRouter(database database.Database, deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.now == nil {
		router.now = func() time.Time { return time.Now().UTC() }
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	if deps.Notifier == nil {
		deps.Notifier = services.NewLogNotifier()
	}
	if deps.Classifier == nil {
		deps.Classifier = services.NewWordListClassifier()
	}
	if deps.Media == nil {
		deps.Media = services.NewStaticMediaResolver(config.GetString(router.config, "MEDIA_URL", "/media/"))
	}

	settings := routerSettings{
		languages:       newLanguageSelector(config.GetList(router.config, "LANGUAGES", []string{"en", "ru"})),
		pageSize:        config.GetInt(router.config, "BLOG_PAGE_SIZE", defaultPageSize),
		commentCooldown: config.GetMinutes(router.config, "COMMENT_COOLDOWN_MINUTES", int(services.DefaultCommentCooldown.Minutes())),
		startupTime:     router.startupTime,
		now:             router.now,
	}

	m := newMetrics()
	handlers := initializeHandlers(database, deps, settings, m)

	throttle := newSubmissionThrottle(
		config.GetInt(router.config, "SUBMISSION_RATE_PER_MINUTE", 30),
		config.GetInt(router.config, "SUBMISSION_BURST", 10),
		NewResponder(log.With().Str("handlerName", "submissionThrottle").Logger(), deps.Notifier),
	)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	// X-Forwarded-For is client controlled unless a proxy rewrites it.
	if config.GetBool(router.config, "TRUST_PROXY_HEADERS", false) {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(m.middleware)
	chiRouter.Use(HTTPLoggingMiddleware(strings.ToLower(config.GetString(router.config, "LOG_FORMAT", "console")) == "console"))
	chiRouter.Use(settings.languages.middleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS", []string{"*"})

	setupSiteRoutes(chiRouter, handlers, throttle)
	setupAPIRoutes(chiRouter, handlers, acceptedOrigins)
	setupOpsRoutes(chiRouter, handlers, m)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
