package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/platform/auth"
	"github.com/localed/api/internal/services"
)

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestCreateSiteEndpoint(t *testing.T) {
	t.Parallel()

	var gotActor services.Actor
	var gotInput services.CreateSiteInput
	sites := &fakeSiteService{
		create: func(actor services.Actor, input services.CreateSiteInput) (domain.Site, error) {
			gotActor = actor
			gotInput = input
			return testSite(), nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	body := `{"slug":"bobs-bakery","businessType":"bakery","country":"GB","content":{"businessName":"Bob's Bakery"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", gotActor.UID)
	assert.Equal(t, "bobs-bakery", gotInput.Slug)
	assert.Equal(t, "Bob's Bakery", gotInput.Draft["businessName"])

	payload := decodeJSON(t, rec)
	assert.Equal(t, "bobs-bakery", payload["slug"])
	assert.Equal(t, "user-1", payload["ownerId"])
	assert.Equal(t, "bakery", payload["businessType"])
	assert.Equal(t, "Bakery", payload["businessTypeLabel"])
	assert.Equal(t, false, payload["published"])
	assert.Equal(t, "2026-08-24T12:00:00Z", payload["createdAt"])
	_, hasMeta := payload["meta"]
	assert.False(t, hasMeta, "meta omitted for unpublished sites")
}

func TestCreateSiteEndpointErrors(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		create: func(services.Actor, services.CreateSiteInput) (domain.Site, error) {
			return domain.Site{}, services.ErrSlugTaken
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/", strings.NewReader(`{"slug":"taken"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, "slug_taken", payload["error"])

	// Malformed JSON never reaches the service.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/sites/", strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeJSON(t, rec)["error"])

	// Empty body is rejected up front.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/sites/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSiteEndpoint(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		get: func(_ services.Actor, slug string) (domain.Site, error) {
			if slug != "bobs-bakery" {
				return domain.Site{}, services.ErrSiteNotFound
			}
			return testPublishedSite(), nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, true, payload["published"])
	meta, ok := payload["meta"].(map[string]any)
	require.True(t, ok, "published sites include meta")
	assert.Equal(t, "Bob's Bakery", meta["title"])
	assert.Equal(t, "2026-08-24T12:00:00Z", payload["publishedAt"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sites/missing", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "site_not_found", decodeJSON(t, rec)["error"])
}

func TestListSitesEndpoint(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		list: func(services.Actor) ([]domain.Site, error) {
			return []domain.Site{testSite()}, nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	items, ok := payload["sites"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestUpdateDraftEndpoint(t *testing.T) {
	t.Parallel()

	var gotDraft domain.ContentRecord
	sites := &fakeSiteService{
		update: func(_ services.Actor, _ string, draft domain.ContentRecord) (domain.Site, error) {
			gotDraft = draft
			return testSite(), nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sites/bobs-bakery/draft",
		strings.NewReader(`{"content":{"tagline":"New tagline"}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New tagline", gotDraft["tagline"])
}

func TestDeleteSiteEndpoint(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		remove: func(_ services.Actor, slug string) error {
			assert.Equal(t, "bobs-bakery", slug)
			return nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sites/bobs-bakery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPublishEndpoints(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		publish: func(_ services.Actor, slug string) (domain.Site, error) {
			return testPublishedSite(), nil
		},
		unpublish: func(_ services.Actor, slug string) (domain.Site, error) {
			return testSite(), nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/bobs-bakery/publish", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["published"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sites/bobs-bakery/unpublish", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["published"])
}

func TestPreviewEndpoint(t *testing.T) {
	t.Parallel()

	var gotContent domain.ContentRecord
	sites := &fakeSiteService{
		preview: func(_ services.Actor, slug string, content domain.ContentRecord) (string, error) {
			gotContent = content
			return "<!doctype html>\n<html></html>", nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	// An empty body previews the stored draft.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/bobs-bakery/preview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), "previews are never cached")
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
	assert.Nil(t, gotContent)
}

func TestPreviewEndpointWithBody(t *testing.T) {
	t.Parallel()

	var gotContent domain.ContentRecord
	sites := &fakeSiteService{
		preview: func(_ services.Actor, slug string, content domain.ContentRecord) (string, error) {
			gotContent = content
			return "<!doctype html>\n<html></html>", nil
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/bobs-bakery/preview",
		strings.NewReader(`{"content":{"businessName":"Unsaved Edit"}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotContent, "body content reaches the service")
	assert.Equal(t, "Unsaved Edit", gotContent["businessName"])

	// Malformed JSON never reaches the service.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/sites/bobs-bakery/preview",
		strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeJSON(t, rec)["error"])
}

func TestListSubmissionsEndpoint(t *testing.T) {
	t.Parallel()

	var gotLimit int
	contacts := &fakeContactService{
		list: func(_ services.Actor, slug string, limit int) ([]domain.ContactSubmission, error) {
			gotLimit = limit
			return []domain.ContactSubmission{{
				ID:         "01J00000000000000000000000",
				SiteSlug:   slug,
				Name:       "Alice",
				Message:    "hello",
				ReceivedAt: handlerTestTime,
			}}, nil
		},
	}
	router := testRouter(&fakeSiteService{}, contacts, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery/submissions?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)

	payload := decodeJSON(t, rec)
	items, ok := payload["submissions"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "Alice", first["name"])
	assert.Equal(t, "2026-08-24T12:00:00Z", first["receivedAt"])

	// Garbage limits fall back to the repository default.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery/submissions?limit=abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, gotLimit)
}

func TestFlagEndpoints(t *testing.T) {
	t.Parallel()

	flags := &fakeFlagService{
		set: func(_ services.Actor, slug, name string, enabled bool) (domain.FeatureFlag, error) {
			return domain.FeatureFlag{SiteSlug: slug, Name: name, Enabled: enabled, UpdatedAt: handlerTestTime}, nil
		},
		list: func(_ services.Actor, slug string) ([]domain.FeatureFlag, error) {
			return []domain.FeatureFlag{{SiteSlug: slug, Name: "newsletter", Enabled: true, UpdatedAt: handlerTestTime}}, nil
		},
	}
	router := testRouter(&fakeSiteService{}, &fakeContactService{}, flags)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sites/bobs-bakery/flags/newsletter",
		strings.NewReader(`{"enabled":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, "newsletter", payload["name"])
	assert.Equal(t, true, payload["enabled"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery/flags", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	items, ok := decodeJSON(t, rec)["flags"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestSiteEndpointsRequireAuthentication(t *testing.T) {
	t.Parallel()

	// No dev owner and no verifier: every request is rejected up front.
	authn := auth.NewAuthenticator(nil)
	siteHandlers := NewSiteHandlers(authn, &fakeSiteService{}, &fakeContactService{}, &fakeFlagService{})
	router := NewRouter(WithSiteRoutes(siteHandlers.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeJSON(t, rec)["error"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sites/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "non-bearer schemes rejected")
}

func TestPermissionDeniedMapsToForbidden(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		get: func(services.Actor, string) (domain.Site, error) {
			return domain.Site{}, services.ErrPermissionDenied
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeJSON(t, rec)["error"])
}

func TestUnhandledServiceErrorMapsTo500(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		get: func(services.Actor, string) (domain.Site, error) {
			return domain.Site{}, assert.AnError
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/bobs-bakery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, "internal_server_error", payload["error"])
	assert.NotContains(t, payload["message"], assert.AnError.Error(), "internal detail never leaks")
}
