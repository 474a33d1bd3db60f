package handlers

import (
	"net/http"

	"github.com/bobmcallan/newsletter-portal/internal/common"
	"github.com/bobmcallan/newsletter-portal/internal/theme"
)

// ThemeResponse is the JSON body of the theme API.
type ThemeResponse struct {
	Theme      theme.Mode `json:"theme"`
	StorageKey string     `json:"storage_key"`
}

// ThemeHandler reads and toggles the visitor's theme. Every method needs the
// theme provider middleware.
type ThemeHandler struct {
	logger *common.Logger
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(logger *common.Logger) *ThemeHandler {
	return &ThemeHandler{logger: logger}
}

// Get handles GET /api/theme.
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := theme.FromContext(r.Context())
	WriteJSON(w, http.StatusOK, ThemeResponse{Theme: p.Mode(), StorageKey: p.Store.StorageKey()})
}

// Toggle handles POST /api/theme/toggle.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	p := theme.FromContext(r.Context())
	mode, err := p.Toggle(r.Context())
	if err != nil {
		h.logError(err)
		WriteError(w, http.StatusInternalServerError, "failed to save theme")
		return
	}
	WriteJSON(w, http.StatusOK, ThemeResponse{Theme: mode, StorageKey: p.Store.StorageKey()})
}

// ToggleForm handles POST /theme/toggle from the page form and redirects
// back to the newsletter.
func (h *ThemeHandler) ToggleForm(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	p := theme.FromContext(r.Context())
	if _, err := p.Toggle(r.Context()); err != nil {
		h.logError(err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ThemeHandler) logError(err error) {
	if h.logger != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to toggle theme")
	}
}
