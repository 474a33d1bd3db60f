package handlers

import (
	"bytes"
	"net/http"

	"github.com/bobmcallan/newsletter-portal/internal/common"
	"github.com/bobmcallan/newsletter-portal/internal/render"
	"github.com/bobmcallan/newsletter-portal/internal/theme"
)

// NewsletterHandler serves the newsletter page.
type NewsletterHandler struct {
	logger *common.Logger
	page   *render.Newsletter
}

// NewNewsletterHandler creates a handler for the composed page.
func NewNewsletterHandler(logger *common.Logger, page *render.Newsletter) *NewsletterHandler {
	return &NewsletterHandler{logger: logger, page: page}
}

// ServeHTTP handles GET /. It must run inside the theme provider middleware.
func (h *NewsletterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	p := theme.FromContext(r.Context())

	var buf bytes.Buffer
	err := h.page.Render(&buf, render.PageState{
		RootClass:  p.Marker.Class(),
		Mode:       p.Mode(),
		StorageKey: p.Store.StorageKey(),
		CSRFToken:  CSRFToken(r),
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Str("error", err.Error()).Msg("failed to render newsletter")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
