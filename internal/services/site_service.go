package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/render"
	"github.com/localed/api/internal/repositories"
)

// slugs double as Firestore document IDs and URL path segments.
var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// reservedSlugs can never be claimed because they collide with API routes.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"healthz": {},
	"readyz":  {},
	"assets":  {},
}

// ArtifactStore persists rendered site documents.
type ArtifactStore interface {
	WriteSiteDocument(ctx context.Context, slug string, html []byte) (string, error)
	ReadSiteDocument(ctx context.Context, slug string) ([]byte, error)
	DeleteSiteDocument(ctx context.Context, slug string) error
}

// SiteServiceDeps groups constructor parameters for the site service.
type SiteServiceDeps struct {
	Sites     repositories.SiteRepository
	Artifacts ArtifactStore
	BaseURL   string
	Clock     func() time.Time
}

type siteService struct {
	sites     repositories.SiteRepository
	artifacts ArtifactStore
	baseURL   string
	clock     func() time.Time
}

var (
	// ErrSiteRepositoryMissing signals that the site repository dependency is absent.
	ErrSiteRepositoryMissing = errors.New("site service: site repository is not configured")
	// ErrArtifactStoreMissing signals that the artifact store dependency is absent.
	ErrArtifactStoreMissing = errors.New("site service: artifact store is not configured")
)

// NewSiteService constructs the site service with the supplied dependencies.
func NewSiteService(deps SiteServiceDeps) (SiteService, error) {
	if deps.Sites == nil {
		return nil, ErrSiteRepositoryMissing
	}
	if deps.Artifacts == nil {
		return nil, ErrArtifactStoreMissing
	}
	baseURL := strings.TrimRight(strings.TrimSpace(deps.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("site service: base url is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &siteService{
		sites:     deps.Sites,
		artifacts: deps.Artifacts,
		baseURL:   baseURL,
		clock:     func() time.Time { return clock().UTC() },
	}, nil
}

func (s *siteService) Create(ctx context.Context, actor Actor, input CreateSiteInput) (domain.Site, error) {
	if actor.UID == "" {
		return domain.Site{}, ErrPermissionDenied
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return domain.Site{}, fmt.Errorf("%w: slug must match %s", ErrInvalidInput, slugPattern.String())
	}
	if _, reserved := reservedSlugs[slug]; reserved {
		return domain.Site{}, fmt.Errorf("%w: slug %q is reserved", ErrInvalidInput, slug)
	}

	now := s.clock()
	site := domain.Site{
		Slug:         slug,
		OwnerID:      actor.UID,
		BusinessType: strings.TrimSpace(input.BusinessType),
		Country:      strings.TrimSpace(input.Country),
		DraftContent: input.Draft.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.sites.Insert(ctx, site); err != nil {
		if repositories.IsConflict(err) {
			return domain.Site{}, ErrSlugTaken
		}
		return domain.Site{}, err
	}
	return site, nil
}

func (s *siteService) Get(ctx context.Context, actor Actor, slug string) (domain.Site, error) {
	return s.loadOwned(ctx, actor, slug)
}

func (s *siteService) ListByOwner(ctx context.Context, actor Actor) ([]domain.Site, error) {
	if actor.UID == "" {
		return nil, ErrPermissionDenied
	}
	return s.sites.ListByOwner(ctx, actor.UID)
}

func (s *siteService) UpdateDraft(ctx context.Context, actor Actor, slug string, draft domain.ContentRecord) (domain.Site, error) {
	site, err := s.loadOwned(ctx, actor, slug)
	if err != nil {
		return domain.Site{}, err
	}

	site.DraftContent = draft.Clone()
	site.UpdatedAt = s.clock()
	if err := s.sites.Update(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, actor Actor, slug string) error {
	site, err := s.loadOwned(ctx, actor, slug)
	if err != nil {
		return err
	}

	if site.ArtifactPath != "" {
		if err := s.artifacts.DeleteSiteDocument(ctx, site.Slug); err != nil {
			return err
		}
	}
	return s.sites.Delete(ctx, site.Slug)
}

// Publish renders the draft, stores the artifact, and promotes the draft to
// the published content. The artifact write happens before the document
// update so a published site always has a servable document.
func (s *siteService) Publish(ctx context.Context, actor Actor, slug string) (domain.Site, error) {
	site, err := s.loadOwned(ctx, actor, slug)
	if err != nil {
		return domain.Site{}, err
	}

	now := s.clock()
	result := render.Assemble(site.DraftContent, s.identity(site), s.baseURL, now)

	path, err := s.artifacts.WriteSiteDocument(ctx, site.Slug, []byte(result.HTML))
	if err != nil {
		return domain.Site{}, fmt.Errorf("publish %s: %w", site.Slug, err)
	}

	site.PublishedContent = site.DraftContent.Clone()
	site.Published = true
	site.PublishedMeta = result.Meta
	site.ArtifactPath = path
	site.PublishedAt = now
	site.UpdatedAt = now

	if err := s.sites.Update(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

func (s *siteService) Unpublish(ctx context.Context, actor Actor, slug string) (domain.Site, error) {
	site, err := s.loadOwned(ctx, actor, slug)
	if err != nil {
		return domain.Site{}, err
	}

	if err := s.artifacts.DeleteSiteDocument(ctx, site.Slug); err != nil {
		return domain.Site{}, fmt.Errorf("unpublish %s: %w", site.Slug, err)
	}

	site.Published = false
	site.PublishedMeta = domain.PublishedMeta{}
	site.ArtifactPath = ""
	site.UpdatedAt = s.clock()

	if err := s.sites.Update(ctx, site); err != nil {
		return domain.Site{}, err
	}
	return site, nil
}

// Preview renders draft content without persisting anything. A non-nil
// content record stands in for the stored draft.
func (s *siteService) Preview(ctx context.Context, actor Actor, slug string, content domain.ContentRecord) (string, error) {
	site, err := s.loadOwned(ctx, actor, slug)
	if err != nil {
		return "", err
	}
	if content == nil {
		content = site.DraftContent
	}
	result := render.Assemble(content, s.identity(site), s.baseURL, s.clock())
	return result.HTML, nil
}

// PublishedDocument returns the stored artifact for a published site. When the
// artifact is missing it re-renders from the published content and repairs the
// artifact in place.
func (s *siteService) PublishedDocument(ctx context.Context, slug string) ([]byte, error) {
	site, err := s.loadPublic(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !site.Published {
		return nil, ErrSiteNotPublished
	}

	html, err := s.artifacts.ReadSiteDocument(ctx, site.Slug)
	if err == nil {
		return html, nil
	}

	result := render.Assemble(site.PublishedContent, s.identity(site), s.baseURL, s.clock())
	if _, writeErr := s.artifacts.WriteSiteDocument(ctx, site.Slug, []byte(result.HTML)); writeErr != nil {
		// Serve the live render even when the repair write fails.
		return []byte(result.HTML), nil
	}
	return []byte(result.HTML), nil
}

func (s *siteService) PublishedMeta(ctx context.Context, slug string) (domain.PublishedMeta, error) {
	site, err := s.loadPublic(ctx, slug)
	if err != nil {
		return domain.PublishedMeta{}, err
	}
	if !site.Published {
		return domain.PublishedMeta{}, ErrSiteNotPublished
	}
	return site.PublishedMeta, nil
}

func (s *siteService) loadOwned(ctx context.Context, actor Actor, slug string) (domain.Site, error) {
	site, err := s.loadPublic(ctx, slug)
	if err != nil {
		return domain.Site{}, err
	}
	if !actor.CanManage(site.OwnerID) {
		return domain.Site{}, ErrPermissionDenied
	}
	return site, nil
}

func (s *siteService) loadPublic(ctx context.Context, slug string) (domain.Site, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Site{}, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	site, err := s.sites.FindBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Site{}, ErrSiteNotFound
		}
		return domain.Site{}, err
	}
	return site, nil
}

func (s *siteService) identity(site domain.Site) domain.SiteIdentity {
	return domain.SiteIdentity{
		Slug:         site.Slug,
		BusinessType: site.BusinessType,
		Country:      site.Country,
	}
}
