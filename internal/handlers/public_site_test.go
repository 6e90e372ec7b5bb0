package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localed/api/internal/services"
)

func TestServeSite(t *testing.T) {
	t.Parallel()

	sites := &fakeSiteService{
		document: func(slug string) ([]byte, error) {
			switch slug {
			case "bobs-bakery":
				return []byte("<!doctype html>\n<html><body>Bob</body></html>"), nil
			case "draft-only":
				return nil, services.ErrSiteNotPublished
			default:
				return nil, services.ErrSiteNotFound
			}
		},
	}
	router := testRouter(sites, &fakeContactService{}, &fakeFlagService{})

	req := httptest.NewRequest(http.MethodGet, "/bobs-bakery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<!doctype html>")

	req = httptest.NewRequest(http.MethodGet, "/draft-only", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "site_not_published", decodeJSON(t, rec)["error"])

	req = httptest.NewRequest(http.MethodGet, "/no-such-site", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "site_not_found", decodeJSON(t, rec)["error"])
}
