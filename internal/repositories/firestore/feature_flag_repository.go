package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/localed/api/internal/domain"
	pfirestore "github.com/localed/api/internal/platform/firestore"
	"github.com/localed/api/internal/repositories"
)

const featureFlagsCollection = "localed_feature_flags"

// FeatureFlagRepository stores per-site boolean toggles. Documents are keyed
// by "{slug}:{flag}" so a site/flag pair upserts in place.
type FeatureFlagRepository struct {
	base *pfirestore.BaseRepository[domain.FeatureFlag]
}

// NewFeatureFlagRepository constructs a Firestore-backed feature flag repository.
func NewFeatureFlagRepository(provider *pfirestore.Provider) (*FeatureFlagRepository, error) {
	if provider == nil {
		return nil, errors.New("feature flag repository: firestore provider is required")
	}

	encoder := func(ctx context.Context, value domain.FeatureFlag) (any, error) {
		return encodeFlagDocument(value), nil
	}
	decoder := func(ctx context.Context, snap *firestore.DocumentSnapshot) (domain.FeatureFlag, error) {
		var doc featureFlagDocument
		if err := snap.DataTo(&doc); err != nil {
			return domain.FeatureFlag{}, err
		}
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = snap.UpdateTime
		}
		return decodeFlagDocument(doc), nil
	}

	base := pfirestore.NewBaseRepository[domain.FeatureFlag](provider, featureFlagsCollection, encoder, decoder)
	return &FeatureFlagRepository{base: base}, nil
}

// Upsert writes the flag state for a site.
func (r *FeatureFlagRepository) Upsert(ctx context.Context, flag domain.FeatureFlag) error {
	if r == nil || r.base == nil {
		return errors.New("feature flag repository not initialised")
	}
	flag.SiteSlug = strings.TrimSpace(flag.SiteSlug)
	flag.Name = strings.TrimSpace(flag.Name)
	if flag.SiteSlug == "" || flag.Name == "" {
		return errors.New("feature flag repository: site slug and flag name are required")
	}
	_, err := r.base.Set(ctx, flagDocumentID(flag.SiteSlug, flag.Name), flag)
	return err
}

// ListBySite returns every flag recorded for a site.
func (r *FeatureFlagRepository) ListBySite(ctx context.Context, slug string) ([]domain.FeatureFlag, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("feature flag repository not initialised")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("feature flag repository: slug is required")
	}

	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("siteSlug", "==", slug).OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}

	flags := make([]domain.FeatureFlag, 0, len(docs))
	for _, doc := range docs {
		flags = append(flags, doc.Data)
	}
	return flags, nil
}

func flagDocumentID(slug, name string) string {
	return slug + ":" + name
}

func encodeFlagDocument(flag domain.FeatureFlag) featureFlagDocument {
	return featureFlagDocument{
		SiteSlug:  flag.SiteSlug,
		Name:      flag.Name,
		Enabled:   flag.Enabled,
		UpdatedAt: flag.UpdatedAt.UTC(),
	}
}

func decodeFlagDocument(doc featureFlagDocument) domain.FeatureFlag {
	return domain.FeatureFlag{
		SiteSlug:  doc.SiteSlug,
		Name:      doc.Name,
		Enabled:   doc.Enabled,
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

type featureFlagDocument struct {
	SiteSlug  string    `firestore:"siteSlug"`
	Name      string    `firestore:"name"`
	Enabled   bool      `firestore:"enabled"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

var _ repositories.FeatureFlagRepository = (*FeatureFlagRepository)(nil)
