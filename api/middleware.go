package api

import (
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/rpupo63/portfolio-blog/errs"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// HTTPLoggingMiddleware logs every request at a level picked from its status.
// colored switches to a console writer for local development.
func HTTPLoggingMiddleware(colored bool) func(http.Handler) http.Handler {
	logger := log.Logger
	if colored {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// submissionThrottle caps form posts per client address. It guards against
// floods only; the comment cooldown is enforced by the comment gate.
type submissionThrottle struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastPrune time.Time
	responder Responder
}

func newSubmissionThrottle(perMinute, burst int, responder Responder) *submissionThrottle {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 10
	}
	return &submissionThrottle{
		clients:   make(map[string]*clientLimiter),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		idleAfter: 10 * time.Minute,
		lastPrune: time.Now(),
		responder: responder,
	}
}

func (t *submissionThrottle) allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastPrune) > t.idleAfter {
		for k, c := range t.clients {
			if now.Sub(c.lastSeen) > t.idleAfter {
				delete(t.clients, k)
			}
		}
		t.lastPrune = now
	}

	c, ok := t.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (t *submissionThrottle) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		if !t.allow(clientAddress(r), time.Now()) {
			t.responder.RenderError(w, r, errs.NewTooManyRequestsError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// appendSlash permanently redirects to the same path with a trailing slash,
// keeping the query string.
func appendSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
