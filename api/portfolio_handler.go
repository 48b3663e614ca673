package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/services"
)

type portfolioHandler struct {
	responder     Responder
	logger        zerolog.Logger
	portfolioRepo *database.PortfolioRepo
	media         services.MediaResolver
	defaultLang   string
}

func newPortfolioHandler(portfolioRepo *database.PortfolioRepo, deps Dependencies, settings routerSettings) portfolioHandler {
	logger := log.With().Str("handlerName", "portfolioHandler").Logger()

	return portfolioHandler{
		responder:     NewResponder(logger, deps.Notifier),
		logger:        logger,
		portfolioRepo: portfolioRepo,
		media:         deps.Media,
		defaultLang:   settings.languages.defaultLanguage(),
	}
}

// getPortfolio renders every portfolio item
// @Summary Portfolio page
// @Description All portfolio items in insertion order; a storage failure renders an empty page
// @Tags Portfolio
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /portfolio [get]
func (h portfolioHandler) getPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := ctxGetLanguage(r.Context(), h.defaultLang)
		page := portfolioPage{layout: newLayout(r, "Portfolio")}

		items, err := h.portfolioRepo.FindAll(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load portfolio")
		}
		for _, item := range items {
			card := portfolioCard{
				Title:       item.Title,
				Description: item.Description.Data().Get(lang, h.defaultLang),
				Category:    item.Category,
			}
			if item.Tools != nil {
				card.Tools = *item.Tools
			}
			if item.Image != nil {
				card.Image = h.media.URL(r.Context(), *item.Image)
			}
			if item.Link != nil {
				card.Link = *item.Link
			}
			page.Items = append(page.Items, card)
		}

		page.Flash = popFlash(w, r)
		h.responder.RenderHTML(w, http.StatusOK, pagePortfolio, page)
	}
}
