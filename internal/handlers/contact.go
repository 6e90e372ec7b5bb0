package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/localed/api/internal/platform/httpx"
	"github.com/localed/api/internal/services"
)

const maxContactRequestBody = 32 * 1024

// ContactHandlers exposes the unauthenticated per-site endpoints: contact-form
// ingestion and published metadata lookup.
type ContactHandlers struct {
	contacts services.ContactService
	sites    services.SiteService
}

// NewContactHandlers constructs the public contact handler set.
func NewContactHandlers(contacts services.ContactService, sites services.SiteService) *ContactHandlers {
	return &ContactHandlers{contacts: contacts, sites: sites}
}

// Routes registers the public endpoints beneath /sites.
func (h *ContactHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/{slug}/contact", h.submit)
	r.Get("/{slug}/meta", h.meta)
}

func (h *ContactHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.contacts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "contact service not available", http.StatusServiceUnavailable))
		return
	}

	input, ok := h.decodeContactInput(w, r)
	if !ok {
		return
	}

	_, accepted, err := h.contacts.Submit(ctx, chi.URLParam(r, "slug"), input)
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	// Honeypot drops answer identically to accepted posts.
	_ = accepted
	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{"status": "received"})
}

func (h *ContactHandlers) meta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sites == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "site service not available", http.StatusServiceUnavailable))
		return
	}

	meta, err := h.sites.PublishedMeta(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeSiteError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, metaResponse{
		Title:       meta.Title,
		Description: meta.Description,
		OGImage:     meta.OGImage,
	})
}

// decodeContactInput accepts both JSON and HTML form posts, because published
// sites submit the contact form directly without JavaScript.
func (h *ContactHandlers) decodeContactInput(w http.ResponseWriter, r *http.Request) (services.ContactInput, bool) {
	ctx := r.Context()

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "malformed form payload", http.StatusBadRequest))
			return services.ContactInput{}, false
		}
		return services.ContactInput{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Phone:   r.PostFormValue("phone"),
			Company: r.PostFormValue("company"),
			Message: r.PostFormValue("message"),
			Website: r.PostFormValue("website"),
		}, true
	}

	body, err := readLimitedBody(r, maxContactRequestBody)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		} else {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return services.ContactInput{}, false
	}
	if len(body) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		return services.ContactInput{}, false
	}

	var req contactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return services.ContactInput{}, false
	}
	return services.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
		Website: req.Website,
	}, true
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Website string `json:"website"`
}
