package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/repositories"
)

const (
	maxContactFieldLength   = 256
	maxContactMessageLength = 4000
)

// ContactServiceDeps groups constructor parameters for the contact service.
type ContactServiceDeps struct {
	Sites       repositories.SiteRepository
	Submissions repositories.ContactSubmissionRepository
	Notifier    ContactNotifier
	Clock       func() time.Time
}

type contactService struct {
	sites       repositories.SiteRepository
	submissions repositories.ContactSubmissionRepository
	notifier    ContactNotifier
	clock       func() time.Time

	policy *bluemonday.Policy

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

var (
	// ErrSubmissionRepositoryMissing signals that the submission repository dependency is absent.
	ErrSubmissionRepositoryMissing = errors.New("contact service: submission repository is not configured")
)

// NewContactService constructs the contact service with the supplied dependencies.
func NewContactService(deps ContactServiceDeps) (ContactService, error) {
	if deps.Sites == nil {
		return nil, ErrSiteRepositoryMissing
	}
	if deps.Submissions == nil {
		return nil, ErrSubmissionRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	seed := clock().UnixNano()
	return &contactService{
		sites:       deps.Sites,
		submissions: deps.Submissions,
		notifier:    deps.Notifier,
		clock:       func() time.Time { return clock().UTC() },
		policy:      bluemonday.StrictPolicy(),
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}, nil
}

// Submit validates, sanitises, and stores one contact-form post. Honeypot hits
// report accepted=false without an error so the endpoint stays indistinguishable
// to bots.
func (s *contactService) Submit(ctx context.Context, slug string, input ContactInput) (domain.ContactSubmission, bool, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.ContactSubmission{}, false, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	site, err := s.sites.FindBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.ContactSubmission{}, false, ErrSiteNotFound
		}
		return domain.ContactSubmission{}, false, err
	}
	if !site.Published {
		return domain.ContactSubmission{}, false, ErrSiteNotPublished
	}

	if strings.TrimSpace(input.Website) != "" {
		return domain.ContactSubmission{}, false, nil
	}

	name := s.sanitizeField(input.Name, maxContactFieldLength)
	message := s.sanitizeField(input.Message, maxContactMessageLength)
	if name == "" || message == "" {
		return domain.ContactSubmission{}, false, fmt.Errorf("%w: name and message are required", ErrInvalidInput)
	}

	now := s.clock()
	submission := domain.ContactSubmission{
		ID:         s.newID(now),
		SiteSlug:   site.Slug,
		Name:       name,
		Email:      s.sanitizeField(input.Email, maxContactFieldLength),
		Phone:      s.sanitizeField(input.Phone, maxContactFieldLength),
		Company:    s.sanitizeField(input.Company, maxContactFieldLength),
		Message:    message,
		ReceivedAt: now,
	}

	if err := s.submissions.Insert(ctx, submission); err != nil {
		return domain.ContactSubmission{}, false, err
	}

	if s.notifier != nil {
		// Notification failures never fail the submission.
		_, _ = s.notifier.PublishContactNotification(ctx, ContactNotificationMessage{
			SubmissionID: submission.ID,
			SiteSlug:     submission.SiteSlug,
			Name:         submission.Name,
			Email:        submission.Email,
			ReceivedAt:   submission.ReceivedAt,
		})
	}

	return submission, true, nil
}

func (s *contactService) ListBySite(ctx context.Context, actor Actor, slug string, limit int) ([]domain.ContactSubmission, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	site, err := s.sites.FindBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	if !actor.CanManage(site.OwnerID) {
		return nil, ErrPermissionDenied
	}

	return s.submissions.ListBySite(ctx, site.Slug, limit)
}

func (s *contactService) sanitizeField(value string, limit int) string {
	cleaned := strings.TrimSpace(s.policy.Sanitize(value))
	if len(cleaned) <= limit {
		return cleaned
	}
	// Back off to a rune boundary so truncation never stores invalid UTF-8.
	for limit > 0 && !utf8.RuneStart(cleaned[limit]) {
		limit--
	}
	return cleaned[:limit]
}

func (s *contactService) newID(now time.Time) string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}
