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

const sitesCollection = "localed_sites"

// SiteRepository persists site profiles in Firestore keyed by slug.
type SiteRepository struct {
	base *pfirestore.BaseRepository[domain.Site]
}

// NewSiteRepository constructs a Firestore-backed site repository.
func NewSiteRepository(provider *pfirestore.Provider) (*SiteRepository, error) {
	if provider == nil {
		return nil, errors.New("site repository: firestore provider is required")
	}

	encoder := func(ctx context.Context, value domain.Site) (any, error) {
		return encodeSiteDocument(value), nil
	}
	decoder := func(ctx context.Context, snap *firestore.DocumentSnapshot) (domain.Site, error) {
		var doc siteDocument
		if err := snap.DataTo(&doc); err != nil {
			return domain.Site{}, err
		}
		doc.Slug = snap.Ref.ID
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = snap.CreateTime
		}
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = snap.UpdateTime
		}
		return decodeSiteDocument(doc), nil
	}

	base := pfirestore.NewBaseRepository[domain.Site](provider, sitesCollection, encoder, decoder)
	return &SiteRepository{base: base}, nil
}

// Insert stores a new site document, failing when the slug is already taken.
func (r *SiteRepository) Insert(ctx context.Context, site domain.Site) error {
	if r == nil || r.base == nil {
		return errors.New("site repository not initialised")
	}
	site.Slug = strings.TrimSpace(site.Slug)
	if site.Slug == "" {
		return errors.New("site repository: slug is required")
	}
	_, err := r.base.Create(ctx, site.Slug, site)
	return err
}

// Update replaces the site document state.
func (r *SiteRepository) Update(ctx context.Context, site domain.Site) error {
	if r == nil || r.base == nil {
		return errors.New("site repository not initialised")
	}
	site.Slug = strings.TrimSpace(site.Slug)
	if site.Slug == "" {
		return errors.New("site repository: slug is required")
	}
	_, err := r.base.Set(ctx, site.Slug, site)
	return err
}

// Delete removes the site document.
func (r *SiteRepository) Delete(ctx context.Context, slug string) error {
	if r == nil || r.base == nil {
		return errors.New("site repository not initialised")
	}
	return r.base.Delete(ctx, strings.TrimSpace(slug))
}

// FindBySlug loads a site by its slug.
func (r *SiteRepository) FindBySlug(ctx context.Context, slug string) (domain.Site, error) {
	if r == nil || r.base == nil {
		return domain.Site{}, errors.New("site repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(slug))
	if err != nil {
		return domain.Site{}, err
	}
	return doc.Data, nil
}

// ListByOwner returns the owner's sites ordered by creation time.
func (r *SiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Site, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("site repository not initialised")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, errors.New("site repository: owner id is required")
	}

	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("ownerUid", "==", ownerID).OrderBy("createdAt", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}

	sites := make([]domain.Site, 0, len(docs))
	for _, doc := range docs {
		sites = append(sites, doc.Data)
	}
	return sites, nil
}

func encodeSiteDocument(site domain.Site) siteDocument {
	doc := siteDocument{
		OwnerID:          strings.TrimSpace(site.OwnerID),
		BusinessType:     strings.TrimSpace(site.BusinessType),
		Country:          strings.TrimSpace(site.Country),
		DraftContent:     map[string]any(site.DraftContent.Clone()),
		PublishedContent: map[string]any(site.PublishedContent.Clone()),
		Published:        site.Published,
		ArtifactPath:     strings.TrimSpace(site.ArtifactPath),
		CreatedAt:        site.CreatedAt.UTC(),
		UpdatedAt:        site.UpdatedAt.UTC(),
	}
	if site.Published {
		doc.MetaTitle = site.PublishedMeta.Title
		doc.MetaDescription = site.PublishedMeta.Description
		doc.MetaOGImage = site.PublishedMeta.OGImage
	}
	if !site.PublishedAt.IsZero() {
		publishedAt := site.PublishedAt.UTC()
		doc.PublishedAt = &publishedAt
	}
	return doc
}

func decodeSiteDocument(doc siteDocument) domain.Site {
	site := domain.Site{
		Slug:             doc.Slug,
		OwnerID:          doc.OwnerID,
		BusinessType:     doc.BusinessType,
		Country:          doc.Country,
		DraftContent:     domain.ContentRecord(doc.DraftContent),
		PublishedContent: domain.ContentRecord(doc.PublishedContent),
		Published:        doc.Published,
		ArtifactPath:     doc.ArtifactPath,
		CreatedAt:        doc.CreatedAt.UTC(),
		UpdatedAt:        doc.UpdatedAt.UTC(),
	}
	if doc.Published {
		site.PublishedMeta = domain.PublishedMeta{
			Title:       doc.MetaTitle,
			Description: doc.MetaDescription,
			OGImage:     doc.MetaOGImage,
		}
	}
	if doc.PublishedAt != nil {
		site.PublishedAt = doc.PublishedAt.UTC()
	}
	return site
}

type siteDocument struct {
	Slug             string         `firestore:"-"`
	OwnerID          string         `firestore:"ownerUid"`
	BusinessType     string         `firestore:"businessType"`
	Country          string         `firestore:"country"`
	DraftContent     map[string]any `firestore:"draftContent,omitempty"`
	PublishedContent map[string]any `firestore:"publishedContent,omitempty"`
	Published        bool           `firestore:"published"`
	MetaTitle        string         `firestore:"metaTitle,omitempty"`
	MetaDescription  string         `firestore:"metaDescription,omitempty"`
	MetaOGImage      string         `firestore:"metaOgImage,omitempty"`
	ArtifactPath     string         `firestore:"artifactPath,omitempty"`
	CreatedAt        time.Time      `firestore:"createdAt"`
	UpdatedAt        time.Time      `firestore:"updatedAt"`
	PublishedAt      *time.Time     `firestore:"publishedAt,omitempty"`
}

var _ repositories.SiteRepository = (*SiteRepository)(nil)
