package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/localed/api/internal/platform/httpx"
	"github.com/localed/api/internal/services"
)

// PublicSiteHandlers serves published site documents at the root path.
type PublicSiteHandlers struct {
	sites services.SiteService
}

// NewPublicSiteHandlers constructs the public page handler.
func NewPublicSiteHandlers(sites services.SiteService) *PublicSiteHandlers {
	return &PublicSiteHandlers{sites: sites}
}

// ServeSite responds with the published HTML document for GET /{slug}.
func (h *PublicSiteHandlers) ServeSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h == nil || h.sites == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "site service not available", http.StatusServiceUnavailable))
		return
	}

	html, err := h.sites.PublishedDocument(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(html)
}
