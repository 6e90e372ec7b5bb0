package repositories

import (
	"context"
	"errors"

	domain "github.com/localed/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether the error categorises as a missing record.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether the error categorises as a conflicting write.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether the error categorises as a transient outage.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// SiteRepository persists business site profiles keyed by slug.
type SiteRepository interface {
	Insert(ctx context.Context, site domain.Site) error
	Update(ctx context.Context, site domain.Site) error
	Delete(ctx context.Context, slug string) error
	FindBySlug(ctx context.Context, slug string) (domain.Site, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Site, error)
}

// ContactSubmissionRepository stores accepted contact-form messages.
type ContactSubmissionRepository interface {
	Insert(ctx context.Context, submission domain.ContactSubmission) error
	ListBySite(ctx context.Context, slug string, limit int) ([]domain.ContactSubmission, error)
}

// FeatureFlagRepository stores per-site boolean toggles.
type FeatureFlagRepository interface {
	Upsert(ctx context.Context, flag domain.FeatureFlag) error
	ListBySite(ctx context.Context, slug string) ([]domain.FeatureFlag, error)
}

// HealthRepository evaluates backend dependency health for readiness checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
