package api

import (
	"context"
)

type keyType string

const (
	languageKey  keyType = "language"
	languagesKey keyType = "languages"
)

// ctxWithLanguage adds the negotiated language code to the context
func ctxWithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// ctxGetLanguage retrieves the language code from the context, or fallback
// when none was negotiated.
func ctxGetLanguage(ctx context.Context, fallback string) string {
	if lang, ok := ctx.Value(languageKey).(string); ok && lang != "" {
		return lang
	}
	return fallback
}

// ctxWithLanguages adds the list of supported language codes to the context
func ctxWithLanguages(ctx context.Context, langs []string) context.Context {
	return context.WithValue(ctx, languagesKey, langs)
}

func ctxGetLanguages(ctx context.Context) []string {
	langs, _ := ctx.Value(languagesKey).([]string)
	return langs
}
