package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/localed/api/internal/domain"
)

var testClockTime = time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testClockTime }

// stubRepoError satisfies repositories.RepositoryError for in-memory fakes.
type stubRepoError struct {
	msg         string
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *stubRepoError) Error() string       { return e.msg }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return e.conflict }
func (e *stubRepoError) IsUnavailable() bool { return e.unavailable }

func notFoundErr() error { return &stubRepoError{msg: "not found", notFound: true} }
func conflictErr() error { return &stubRepoError{msg: "already exists", conflict: true} }

type memSiteRepo struct {
	mu    sync.Mutex
	sites map[string]domain.Site

	insertErr error
	updateErr error
}

func newMemSiteRepo(seed ...domain.Site) *memSiteRepo {
	repo := &memSiteRepo{sites: make(map[string]domain.Site)}
	for _, site := range seed {
		repo.sites[site.Slug] = site
	}
	return repo
}

func (r *memSiteRepo) Insert(_ context.Context, site domain.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.sites[site.Slug]; exists {
		return conflictErr()
	}
	r.sites[site.Slug] = site
	return nil
}

func (r *memSiteRepo) Update(_ context.Context, site domain.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, exists := r.sites[site.Slug]; !exists {
		return notFoundErr()
	}
	r.sites[site.Slug] = site
	return nil
}

func (r *memSiteRepo) Delete(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sites, slug)
	return nil
}

func (r *memSiteRepo) FindBySlug(_ context.Context, slug string) (domain.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	site, exists := r.sites[slug]
	if !exists {
		return domain.Site{}, notFoundErr()
	}
	return site, nil
}

func (r *memSiteRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Site
	for _, site := range r.sites {
		if site.OwnerID == ownerID {
			out = append(out, site)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memSiteRepo) get(slug string) (domain.Site, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	site, ok := r.sites[slug]
	return site, ok
}

type memArtifactStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	writeErr  error
	deleteErr error
	writes    int
}

func newMemArtifactStore() *memArtifactStore {
	return &memArtifactStore{docs: make(map[string][]byte)}
}

func (s *memArtifactStore) WriteSiteDocument(_ context.Context, slug string, html []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.writes++
	s.docs[slug] = append([]byte(nil), html...)
	return "sites/" + slug + "/index.html", nil
}

func (s *memArtifactStore) ReadSiteDocument(_ context.Context, slug string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, exists := s.docs[slug]
	if !exists {
		return nil, errors.New("object not found")
	}
	return html, nil
}

func (s *memArtifactStore) DeleteSiteDocument(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.docs, slug)
	return nil
}

func (s *memArtifactStore) has(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[slug]
	return ok
}

func (s *memArtifactStore) drop(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, slug)
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions []domain.ContactSubmission

	insertErr error
}

func (r *memSubmissionRepo) Insert(_ context.Context, submission domain.ContactSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.submissions = append(r.submissions, submission)
	return nil
}

func (r *memSubmissionRepo) ListBySite(_ context.Context, slug string, limit int) ([]domain.ContactSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ContactSubmission
	for _, submission := range r.submissions {
		if submission.SiteSlug == slug {
			out = append(out, submission)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memFlagRepo struct {
	mu    sync.Mutex
	flags map[string]domain.FeatureFlag
}

func newMemFlagRepo() *memFlagRepo {
	return &memFlagRepo{flags: make(map[string]domain.FeatureFlag)}
}

func (r *memFlagRepo) Upsert(_ context.Context, flag domain.FeatureFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags[flag.SiteSlug+":"+flag.Name] = flag
	return nil
}

func (r *memFlagRepo) ListBySite(_ context.Context, slug string) ([]domain.FeatureFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.FeatureFlag
	for _, flag := range r.flags {
		if flag.SiteSlug == slug {
			out = append(out, flag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []ContactNotificationMessage
	err      error
}

func (n *recordingNotifier) PublishContactNotification(_ context.Context, message ContactNotificationMessage) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.messages = append(n.messages, message)
	return "msg-1", nil
}

func (n *recordingNotifier) published() []ContactNotificationMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ContactNotificationMessage(nil), n.messages...)
}
