package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/repositories"
)

var flagNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// FeatureFlagServiceDeps groups constructor parameters for the feature flag service.
type FeatureFlagServiceDeps struct {
	Sites repositories.SiteRepository
	Flags repositories.FeatureFlagRepository
	Clock func() time.Time
}

type featureFlagService struct {
	sites repositories.SiteRepository
	flags repositories.FeatureFlagRepository
	clock func() time.Time
}

// ErrFlagRepositoryMissing signals that the feature flag repository dependency is absent.
var ErrFlagRepositoryMissing = errors.New("feature flag service: flag repository is not configured")

// NewFeatureFlagService constructs the feature flag service with the supplied dependencies.
func NewFeatureFlagService(deps FeatureFlagServiceDeps) (FeatureFlagService, error) {
	if deps.Sites == nil {
		return nil, ErrSiteRepositoryMissing
	}
	if deps.Flags == nil {
		return nil, ErrFlagRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &featureFlagService{
		sites: deps.Sites,
		flags: deps.Flags,
		clock: func() time.Time { return clock().UTC() },
	}, nil
}

func (s *featureFlagService) Set(ctx context.Context, actor Actor, slug, name string, enabled bool) (domain.FeatureFlag, error) {
	site, err := s.authorize(ctx, actor, slug)
	if err != nil {
		return domain.FeatureFlag{}, err
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if !flagNamePattern.MatchString(name) {
		return domain.FeatureFlag{}, fmt.Errorf("%w: flag name must match %s", ErrInvalidInput, flagNamePattern.String())
	}

	flag := domain.FeatureFlag{
		SiteSlug:  site.Slug,
		Name:      name,
		Enabled:   enabled,
		UpdatedAt: s.clock(),
	}
	if err := s.flags.Upsert(ctx, flag); err != nil {
		return domain.FeatureFlag{}, err
	}
	return flag, nil
}

func (s *featureFlagService) ListBySite(ctx context.Context, actor Actor, slug string) ([]domain.FeatureFlag, error) {
	site, err := s.authorize(ctx, actor, slug)
	if err != nil {
		return nil, err
	}
	return s.flags.ListBySite(ctx, site.Slug)
}

func (s *featureFlagService) authorize(ctx context.Context, actor Actor, slug string) (domain.Site, error) {
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
	if !actor.CanManage(site.OwnerID) {
		return domain.Site{}, ErrPermissionDenied
	}
	return site, nil
}
