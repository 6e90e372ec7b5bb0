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

const contactSubmissionsCollection = "localed_contact_submissions"

const defaultSubmissionListLimit = 50

// ContactSubmissionRepository stores accepted contact-form messages.
type ContactSubmissionRepository struct {
	base *pfirestore.BaseRepository[domain.ContactSubmission]
}

// NewContactSubmissionRepository constructs a Firestore-backed submission repository.
func NewContactSubmissionRepository(provider *pfirestore.Provider) (*ContactSubmissionRepository, error) {
	if provider == nil {
		return nil, errors.New("contact submission repository: firestore provider is required")
	}

	encoder := func(ctx context.Context, value domain.ContactSubmission) (any, error) {
		return encodeSubmissionDocument(value), nil
	}
	decoder := func(ctx context.Context, snap *firestore.DocumentSnapshot) (domain.ContactSubmission, error) {
		var doc contactSubmissionDocument
		if err := snap.DataTo(&doc); err != nil {
			return domain.ContactSubmission{}, err
		}
		doc.ID = snap.Ref.ID
		if doc.ReceivedAt.IsZero() {
			doc.ReceivedAt = snap.CreateTime
		}
		return decodeSubmissionDocument(doc), nil
	}

	base := pfirestore.NewBaseRepository[domain.ContactSubmission](provider, contactSubmissionsCollection, encoder, decoder)
	return &ContactSubmissionRepository{base: base}, nil
}

// Insert stores a new submission document.
func (r *ContactSubmissionRepository) Insert(ctx context.Context, submission domain.ContactSubmission) error {
	if r == nil || r.base == nil {
		return errors.New("contact submission repository not initialised")
	}
	submission.ID = strings.TrimSpace(submission.ID)
	if submission.ID == "" {
		return errors.New("contact submission repository: id is required")
	}
	_, err := r.base.Create(ctx, submission.ID, submission)
	return err
}

// ListBySite returns the newest submissions for a site.
func (r *ContactSubmissionRepository) ListBySite(ctx context.Context, slug string, limit int) ([]domain.ContactSubmission, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("contact submission repository not initialised")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("contact submission repository: slug is required")
	}
	if limit <= 0 {
		limit = defaultSubmissionListLimit
	}

	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("siteSlug", "==", slug).OrderBy("receivedAt", firestore.Desc).Limit(limit)
	})
	if err != nil {
		return nil, err
	}

	submissions := make([]domain.ContactSubmission, 0, len(docs))
	for _, doc := range docs {
		submissions = append(submissions, doc.Data)
	}
	return submissions, nil
}

func encodeSubmissionDocument(submission domain.ContactSubmission) contactSubmissionDocument {
	return contactSubmissionDocument{
		SiteSlug:   strings.TrimSpace(submission.SiteSlug),
		Name:       submission.Name,
		Email:      submission.Email,
		Phone:      submission.Phone,
		Company:    submission.Company,
		Message:    submission.Message,
		ReceivedAt: submission.ReceivedAt.UTC(),
	}
}

func decodeSubmissionDocument(doc contactSubmissionDocument) domain.ContactSubmission {
	return domain.ContactSubmission{
		ID:         doc.ID,
		SiteSlug:   doc.SiteSlug,
		Name:       doc.Name,
		Email:      doc.Email,
		Phone:      doc.Phone,
		Company:    doc.Company,
		Message:    doc.Message,
		ReceivedAt: doc.ReceivedAt.UTC(),
	}
}

type contactSubmissionDocument struct {
	ID         string    `firestore:"-"`
	SiteSlug   string    `firestore:"siteSlug"`
	Name       string    `firestore:"name"`
	Email      string    `firestore:"email,omitempty"`
	Phone      string    `firestore:"phone,omitempty"`
	Company    string    `firestore:"company,omitempty"`
	Message    string    `firestore:"message"`
	ReceivedAt time.Time `firestore:"receivedAt"`
}

var _ repositories.ContactSubmissionRepository = (*ContactSubmissionRepository)(nil)
