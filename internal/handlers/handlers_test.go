package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/localed/api/internal/domain"
	"github.com/localed/api/internal/platform/auth"
	"github.com/localed/api/internal/services"
)

var errUnexpectedCall = errors.New("unexpected service call")

var handlerTestTime = time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)

func testSite() domain.Site {
	return domain.Site{
		Slug:         "bobs-bakery",
		OwnerID:      "user-1",
		BusinessType: "bakery",
		Country:      "GB",
		DraftContent: domain.ContentRecord{"businessName": "Bob's Bakery"},
		CreatedAt:    handlerTestTime,
		UpdatedAt:    handlerTestTime,
	}
}

func testPublishedSite() domain.Site {
	site := testSite()
	site.Published = true
	site.PublishedContent = site.DraftContent.Clone()
	site.PublishedMeta = domain.PublishedMeta{Title: "Bob's Bakery", Description: "Fresh bread daily"}
	site.ArtifactPath = "sites/bobs-bakery/index.html"
	site.PublishedAt = handlerTestTime
	return site
}

// fakeSiteService dispatches to per-test hooks; unset hooks fail loudly.
type fakeSiteService struct {
	create    func(actor services.Actor, input services.CreateSiteInput) (domain.Site, error)
	get       func(actor services.Actor, slug string) (domain.Site, error)
	list      func(actor services.Actor) ([]domain.Site, error)
	update    func(actor services.Actor, slug string, draft domain.ContentRecord) (domain.Site, error)
	remove    func(actor services.Actor, slug string) error
	publish   func(actor services.Actor, slug string) (domain.Site, error)
	unpublish func(actor services.Actor, slug string) (domain.Site, error)
	preview   func(actor services.Actor, slug string, content domain.ContentRecord) (string, error)
	document  func(slug string) ([]byte, error)
	meta      func(slug string) (domain.PublishedMeta, error)
}

func (f *fakeSiteService) Create(_ context.Context, actor services.Actor, input services.CreateSiteInput) (domain.Site, error) {
	if f.create == nil {
		return domain.Site{}, errUnexpectedCall
	}
	return f.create(actor, input)
}

func (f *fakeSiteService) Get(_ context.Context, actor services.Actor, slug string) (domain.Site, error) {
	if f.get == nil {
		return domain.Site{}, errUnexpectedCall
	}
	return f.get(actor, slug)
}

func (f *fakeSiteService) ListByOwner(_ context.Context, actor services.Actor) ([]domain.Site, error) {
	if f.list == nil {
		return nil, errUnexpectedCall
	}
	return f.list(actor)
}

func (f *fakeSiteService) UpdateDraft(_ context.Context, actor services.Actor, slug string, draft domain.ContentRecord) (domain.Site, error) {
	if f.update == nil {
		return domain.Site{}, errUnexpectedCall
	}
	return f.update(actor, slug, draft)
}

func (f *fakeSiteService) Delete(_ context.Context, actor services.Actor, slug string) error {
	if f.remove == nil {
		return errUnexpectedCall
	}
	return f.remove(actor, slug)
}

func (f *fakeSiteService) Publish(_ context.Context, actor services.Actor, slug string) (domain.Site, error) {
	if f.publish == nil {
		return domain.Site{}, errUnexpectedCall
	}
	return f.publish(actor, slug)
}

func (f *fakeSiteService) Unpublish(_ context.Context, actor services.Actor, slug string) (domain.Site, error) {
	if f.unpublish == nil {
		return domain.Site{}, errUnexpectedCall
	}
	return f.unpublish(actor, slug)
}

func (f *fakeSiteService) Preview(_ context.Context, actor services.Actor, slug string, content domain.ContentRecord) (string, error) {
	if f.preview == nil {
		return "", errUnexpectedCall
	}
	return f.preview(actor, slug, content)
}

func (f *fakeSiteService) PublishedDocument(_ context.Context, slug string) ([]byte, error) {
	if f.document == nil {
		return nil, errUnexpectedCall
	}
	return f.document(slug)
}

func (f *fakeSiteService) PublishedMeta(_ context.Context, slug string) (domain.PublishedMeta, error) {
	if f.meta == nil {
		return domain.PublishedMeta{}, errUnexpectedCall
	}
	return f.meta(slug)
}

type fakeContactService struct {
	submit func(slug string, input services.ContactInput) (domain.ContactSubmission, bool, error)
	list   func(actor services.Actor, slug string, limit int) ([]domain.ContactSubmission, error)
}

func (f *fakeContactService) Submit(_ context.Context, slug string, input services.ContactInput) (domain.ContactSubmission, bool, error) {
	if f.submit == nil {
		return domain.ContactSubmission{}, false, errUnexpectedCall
	}
	return f.submit(slug, input)
}

func (f *fakeContactService) ListBySite(_ context.Context, actor services.Actor, slug string, limit int) ([]domain.ContactSubmission, error) {
	if f.list == nil {
		return nil, errUnexpectedCall
	}
	return f.list(actor, slug, limit)
}

type fakeFlagService struct {
	set  func(actor services.Actor, slug, name string, enabled bool) (domain.FeatureFlag, error)
	list func(actor services.Actor, slug string) ([]domain.FeatureFlag, error)
}

func (f *fakeFlagService) Set(_ context.Context, actor services.Actor, slug, name string, enabled bool) (domain.FeatureFlag, error) {
	if f.set == nil {
		return domain.FeatureFlag{}, errUnexpectedCall
	}
	return f.set(actor, slug, name, enabled)
}

func (f *fakeFlagService) ListBySite(_ context.Context, actor services.Actor, slug string) ([]domain.FeatureFlag, error) {
	if f.list == nil {
		return nil, errUnexpectedCall
	}
	return f.list(actor, slug)
}

type stubHealthRepo struct {
	report domain.SystemHealthReport
	err    error
}

func (r *stubHealthRepo) Collect(context.Context) (domain.SystemHealthReport, error) {
	return r.report, r.err
}

// devAuthenticator authenticates every request as user-1 without a verifier.
func devAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(nil, auth.WithDevOwnerUID("user-1"))
}

func testRouter(sites *fakeSiteService, contacts *fakeContactService, flags *fakeFlagService) chi.Router {
	siteHandlers := NewSiteHandlers(devAuthenticator(), sites, contacts, flags)
	contactHandlers := NewContactHandlers(contacts, sites)
	publicHandlers := NewPublicSiteHandlers(sites)
	return NewRouter(
		WithSiteRoutes(siteHandlers.Routes),
		WithContactRoutes(contactHandlers.Routes),
		WithPublicSiteHandler(publicHandlers.ServeSite),
	)
}

var (
	_ services.SiteService        = (*fakeSiteService)(nil)
	_ services.ContactService     = (*fakeContactService)(nil)
	_ services.FeatureFlagService = (*fakeFlagService)(nil)
)
