package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/localed/api/internal/platform/httpx"
	"github.com/localed/api/internal/platform/requestctx"
	"github.com/localed/api/internal/repositories"
	"github.com/localed/api/internal/services"

	"go.uber.org/zap"
)

// writeSiteError maps service errors to the JSON error envelope.
func writeSiteError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSiteNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("site_not_found", "site not found", http.StatusNotFound))
	case errors.Is(err, services.ErrSiteNotPublished):
		httpx.WriteError(ctx, w, httpx.NewError("site_not_published", "site is not published", http.StatusNotFound))
	case errors.Is(err, services.ErrSlugTaken):
		httpx.WriteError(ctx, w, httpx.NewError("slug_taken", "slug is already taken", http.StatusConflict))
	case errors.Is(err, services.ErrPermissionDenied):
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "you do not have access to this site", http.StatusForbidden))
	case errors.Is(err, services.ErrInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case repositories.IsUnavailable(err):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "backend temporarily unavailable", http.StatusServiceUnavailable))
	default:
		requestctx.Logger(ctx).Error("unhandled site error", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}
