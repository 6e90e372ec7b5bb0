package services

import (
	"context"
	"errors"
	"time"

	domain "github.com/localed/api/internal/domain"
)

// Actor identifies the authenticated principal invoking a service operation.
type Actor struct {
	UID   string
	Admin bool
}

// CanManage reports whether the actor may modify a site owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	if a.Admin {
		return true
	}
	return a.UID != "" && a.UID == ownerID
}

// Service-level sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrSiteNotFound     = errors.New("site not found")
	ErrSlugTaken        = errors.New("slug already taken")
	ErrPermissionDenied = errors.New("permission denied")
	ErrSiteNotPublished = errors.New("site not published")
	ErrInvalidInput     = errors.New("invalid input")
)

// CreateSiteInput carries the fields required to register a new site.
type CreateSiteInput struct {
	Slug         string
	BusinessType string
	Country      string
	Draft        domain.ContentRecord
}

// SiteService manages the site lifecycle from draft through publication.
type SiteService interface {
	Create(ctx context.Context, actor Actor, input CreateSiteInput) (domain.Site, error)
	Get(ctx context.Context, actor Actor, slug string) (domain.Site, error)
	ListByOwner(ctx context.Context, actor Actor) ([]domain.Site, error)
	UpdateDraft(ctx context.Context, actor Actor, slug string, draft domain.ContentRecord) (domain.Site, error)
	Delete(ctx context.Context, actor Actor, slug string) error

	Publish(ctx context.Context, actor Actor, slug string) (domain.Site, error)
	Unpublish(ctx context.Context, actor Actor, slug string) (domain.Site, error)
	// Preview renders without persisting. A non-nil content record takes the
	// place of the stored draft so unsaved wizard edits can be previewed.
	Preview(ctx context.Context, actor Actor, slug string, content domain.ContentRecord) (string, error)

	PublishedDocument(ctx context.Context, slug string) ([]byte, error)
	PublishedMeta(ctx context.Context, slug string) (domain.PublishedMeta, error)
}

// ContactInput is one raw contact-form post before sanitisation.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Message string
	// Website is the hidden honeypot field. Humans never fill it.
	Website string
}

// ContactService ingests public contact-form submissions.
type ContactService interface {
	// Submit stores a sanitised submission. accepted is false when the
	// message was silently dropped by spam heuristics.
	Submit(ctx context.Context, slug string, input ContactInput) (submission domain.ContactSubmission, accepted bool, err error)
	ListBySite(ctx context.Context, actor Actor, slug string, limit int) ([]domain.ContactSubmission, error)
}

// ContactNotificationMessage is the payload fanned out after a submission is stored.
type ContactNotificationMessage struct {
	SubmissionID string    `json:"submissionId"`
	SiteSlug     string    `json:"siteSlug"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

// ContactNotifier publishes submission notifications for asynchronous delivery.
type ContactNotifier interface {
	PublishContactNotification(ctx context.Context, message ContactNotificationMessage) (string, error)
}

// FeatureFlagService manages per-site wizard toggles.
type FeatureFlagService interface {
	Set(ctx context.Context, actor Actor, slug, name string, enabled bool) (domain.FeatureFlag, error)
	ListBySite(ctx context.Context, actor Actor, slug string) ([]domain.FeatureFlag, error)
}
