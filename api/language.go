package api

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const languageCookie = "lang"

// languageSelector resolves the request language from ?lang=, then the lang
// cookie, then Accept-Language. The first supported language is the default.
type languageSelector struct {
	supported []string
	matcher   language.Matcher
}

func newLanguageSelector(supported []string) languageSelector {
	if len(supported) == 0 {
		supported = []string{"en"}
	}
	codes := make([]string, 0, len(supported))
	tags := make([]language.Tag, 0, len(supported))
	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		codes = append(codes, code)
		tags = append(tags, tag)
	}
	if len(codes) == 0 {
		codes = []string{"en"}
		tags = []language.Tag{language.English}
	}
	return languageSelector{supported: codes, matcher: language.NewMatcher(tags)}
}

func (s languageSelector) defaultLanguage() string {
	return s.supported[0]
}

func (s languageSelector) lookup(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, supported := range s.supported {
		if supported == code {
			return supported, true
		}
	}
	return "", false
}

func (s languageSelector) resolve(r *http.Request) (lang string, explicit bool) {
	if lang, ok := s.lookup(r.URL.Query().Get("lang")); ok {
		return lang, true
	}
	if cookie, err := r.Cookie(languageCookie); err == nil {
		if lang, ok := s.lookup(cookie.Value); ok {
			return lang, false
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			_, index, confidence := s.matcher.Match(tags...)
			if confidence != language.No {
				return s.supported[index], false
			}
		}
	}
	return s.defaultLanguage(), false
}

// middleware stores the language in the request context and remembers an
// explicit ?lang= choice in a cookie.
func (s languageSelector) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, explicit := s.resolve(r)
		if explicit {
			http.SetCookie(w, &http.Cookie{
				Name:     languageCookie,
				Value:    lang,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set("Content-Language", lang)
		ctx := ctxWithLanguages(ctxWithLanguage(r.Context(), lang), s.supported)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
