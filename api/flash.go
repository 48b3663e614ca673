package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	flashCookie     = "flash"
	userTokenCookie = "user_id"
	userTokenMaxAge = 365 * 24 * time.Hour
)

type flashMessage struct {
	Kind string
	Text string
}

// setFlash stores a one-shot message that survives the next redirect.
func setFlash(w http.ResponseWriter, kind, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + text),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *flashMessage {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, text, found := strings.Cut(raw, "|")
	if !found || text == "" {
		return nil
	}
	return &flashMessage{Kind: kind, Text: text}
}

func userToken(r *http.Request) string {
	cookie, err := r.Cookie(userTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setUserToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     userTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(userTokenMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
