package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	router := NewRouter()

	// Without a public site handler, unknown GETs hit the JSON 404.
	req := httptest.NewRequest(http.MethodGet, "/nope/nested", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeJSON(t, rec)
	assert.Equal(t, "route_not_found", payload["error"])
	assert.Equal(t, float64(http.StatusNotFound), payload["status"])
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decodeJSON(t, rec)["error"])
}

func TestRouterUnconfiguredGroupsReport501(t *testing.T) {
	t.Parallel()

	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/anything", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "not_implemented", decodeJSON(t, rec)["error"])
}

func TestRouterRequestIDPropagatesIntoErrors(t *testing.T) {
	t.Parallel()

	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope/nested", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decodeJSON(t, rec)["request_id"], "chi request id flows into the error envelope")
}

func TestRouterAppliesCustomMiddleware(t *testing.T) {
	t.Parallel()

	marker := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test-Middleware", "hit")
			next.ServeHTTP(w, r)
		})
	}
	router := NewRouter(WithMiddlewares(marker))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Test-Middleware"))
}
