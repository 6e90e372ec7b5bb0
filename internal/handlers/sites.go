package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/platform/auth"
	"github.com/localed/api/internal/platform/httpx"
	"github.com/localed/api/internal/render"
	"github.com/localed/api/internal/services"
)

const maxSiteRequestBody = 256 * 1024

// SiteHandlers exposes the authenticated site management endpoints.
type SiteHandlers struct {
	authn    *auth.Authenticator
	sites    services.SiteService
	contacts services.ContactService
	flags    services.FeatureFlagService
}

// NewSiteHandlers constructs the site management handler set.
func NewSiteHandlers(authn *auth.Authenticator, sites services.SiteService, contacts services.ContactService, flags services.FeatureFlagService) *SiteHandlers {
	return &SiteHandlers{
		authn:    authn,
		sites:    sites,
		contacts: contacts,
		flags:    flags,
	}
}

// Routes registers the site management endpoints beneath /sites.
func (h *SiteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}

	route := r
	if h.authn != nil {
		route = route.With(h.authn.RequireAuth())
	}

	route.Post("/", h.create)
	route.Get("/", h.list)
	route.Get("/{slug}", h.get)
	route.Put("/{slug}/draft", h.updateDraft)
	route.Delete("/{slug}", h.delete)
	route.Post("/{slug}/publish", h.publish)
	route.Post("/{slug}/unpublish", h.unpublish)
	route.Post("/{slug}/preview", h.preview)
	route.Get("/{slug}/submissions", h.listSubmissions)
	route.Get("/{slug}/flags", h.listFlags)
	route.Put("/{slug}/flags/{flag}", h.setFlag)
}

func (h *SiteHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req createSiteRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	site, err := h.sites.Create(ctx, actor, services.CreateSiteInput{
		Slug:         req.Slug,
		BusinessType: req.BusinessType,
		Country:      req.Country,
		Draft:        domain.ContentRecord(req.Content),
	})
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newSiteResponse(site))
}

func (h *SiteHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	sites, err := h.sites.ListByOwner(ctx, actor)
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	items := make([]siteResponse, 0, len(sites))
	for _, site := range sites {
		items = append(items, newSiteResponse(site))
	}
	httpx.WriteJSON(w, http.StatusOK, siteListResponse{Sites: items})
}

func (h *SiteHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	site, err := h.sites.Get(ctx, actor, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSiteResponse(site))
}

func (h *SiteHandlers) updateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req updateDraftRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	site, err := h.sites.UpdateDraft(ctx, actor, chi.URLParam(r, "slug"), domain.ContentRecord(req.Content))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSiteResponse(site))
}

func (h *SiteHandlers) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.sites.Delete(ctx, actor, chi.URLParam(r, "slug")); err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SiteHandlers) publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	site, err := h.sites.Publish(ctx, actor, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSiteResponse(site))
}

func (h *SiteHandlers) unpublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	site, err := h.sites.Unpublish(ctx, actor, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSiteResponse(site))
}

// preview renders without persisting. A JSON body carrying a content record
// previews unsaved edits; an empty body previews the stored draft.
func (h *SiteHandlers) preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxSiteRequestBody)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		} else {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var content domain.ContentRecord
	if len(body) > 0 {
		var req previewRequest
		if err := json.Unmarshal(body, &req); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
			return
		}
		content = domain.ContentRecord(req.Content)
	}

	html, err := h.sites.Preview(ctx, actor, chi.URLParam(r, "slug"), content)
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(html))
}

func (h *SiteHandlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if h.contacts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "contact service not available", http.StatusServiceUnavailable))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	submissions, err := h.contacts.ListBySite(ctx, actor, chi.URLParam(r, "slug"), limit)
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	items := make([]submissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		items = append(items, newSubmissionResponse(submission))
	}
	httpx.WriteJSON(w, http.StatusOK, submissionListResponse{Submissions: items})
}

func (h *SiteHandlers) listFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if h.flags == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "feature flag service not available", http.StatusServiceUnavailable))
		return
	}

	flags, err := h.flags.ListBySite(ctx, actor, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	items := make([]flagResponse, 0, len(flags))
	for _, flag := range flags {
		items = append(items, newFlagResponse(flag))
	}
	httpx.WriteJSON(w, http.StatusOK, flagListResponse{Flags: items})
}

func (h *SiteHandlers) setFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if h.flags == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "feature flag service not available", http.StatusServiceUnavailable))
		return
	}

	var req setFlagRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	flag, err := h.flags.Set(ctx, actor, chi.URLParam(r, "slug"), chi.URLParam(r, "flag"), req.Enabled)
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newFlagResponse(flag))
}

func (h *SiteHandlers) actor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	ctx := r.Context()
	if h.sites == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "site service not available", http.StatusServiceUnavailable))
		return services.Actor{}, false
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return services.Actor{}, false
	}
	return services.Actor{UID: identity.UID, Admin: identity.Admin}, true
}

func (h *SiteHandlers) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	ctx := r.Context()
	body, err := readLimitedBody(r, maxSiteRequestBody)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		} else {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return false
	}
	if len(body) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		return false
	}
	if err := json.Unmarshal(body, target); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return false
	}
	return true
}

type createSiteRequest struct {
	Slug         string         `json:"slug"`
	BusinessType string         `json:"businessType"`
	Country      string         `json:"country"`
	Content      map[string]any `json:"content"`
}

type updateDraftRequest struct {
	Content map[string]any `json:"content"`
}

type previewRequest struct {
	Content map[string]any `json:"content"`
}

type setFlagRequest struct {
	Enabled bool `json:"enabled"`
}

type siteResponse struct {
	Slug              string         `json:"slug"`
	OwnerID           string         `json:"ownerId"`
	BusinessType      string         `json:"businessType,omitempty"`
	BusinessTypeLabel string         `json:"businessTypeLabel,omitempty"`
	Country           string         `json:"country,omitempty"`
	Content           map[string]any `json:"content,omitempty"`
	Published         bool           `json:"published"`
	Meta              *metaResponse  `json:"meta,omitempty"`
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
	PublishedAt       string         `json:"publishedAt,omitempty"`
}

type metaResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OGImage     string `json:"ogImage,omitempty"`
}

type siteListResponse struct {
	Sites []siteResponse `json:"sites"`
}

type submissionResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Company    string `json:"company,omitempty"`
	Message    string `json:"message"`
	ReceivedAt string `json:"receivedAt"`
}

type submissionListResponse struct {
	Submissions []submissionResponse `json:"submissions"`
}

type flagResponse struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	UpdatedAt string `json:"updatedAt"`
}

type flagListResponse struct {
	Flags []flagResponse `json:"flags"`
}

func newSiteResponse(site domain.Site) siteResponse {
	resp := siteResponse{
		Slug:              site.Slug,
		OwnerID:           site.OwnerID,
		BusinessType:      site.BusinessType,
		BusinessTypeLabel: render.BusinessTypeLabel(site.BusinessType),
		Country:           site.Country,
		Content:           map[string]any(site.DraftContent),
		Published:         site.Published,
		CreatedAt:         site.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         site.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if site.Published {
		resp.Meta = &metaResponse{
			Title:       site.PublishedMeta.Title,
			Description: site.PublishedMeta.Description,
			OGImage:     site.PublishedMeta.OGImage,
		}
	}
	if !site.PublishedAt.IsZero() {
		resp.PublishedAt = site.PublishedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func newSubmissionResponse(submission domain.ContactSubmission) submissionResponse {
	return submissionResponse{
		ID:         submission.ID,
		Name:       submission.Name,
		Email:      submission.Email,
		Phone:      submission.Phone,
		Company:    submission.Company,
		Message:    submission.Message,
		ReceivedAt: submission.ReceivedAt.UTC().Format(time.RFC3339),
	}
}

func newFlagResponse(flag domain.FeatureFlag) flagResponse {
	return flagResponse{
		Name:      flag.Name,
		Enabled:   flag.Enabled,
		UpdatedAt: flag.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
