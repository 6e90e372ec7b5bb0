package domain

import "time"

// ContentRecord is one locale's worth of user-editable business content. It is
// stored exactly as the wizard submits it: a sparse bag of optional fields.
// Normalisation and defaulting happen at render time, never at write time.
type ContentRecord map[string]any

// Clone returns a shallow copy of the record so callers can mutate safely.
func (c ContentRecord) Clone() ContentRecord {
	if c == nil {
		return nil
	}
	out := make(ContentRecord, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Site is one business profile owned by a user. The slug doubles as the
// document ID and the public URL path segment.
type Site struct {
	Slug         string
	OwnerID      string
	BusinessType string
	Country      string

	DraftContent     ContentRecord
	PublishedContent ContentRecord

	Published     bool
	PublishedMeta PublishedMeta
	ArtifactPath  string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt time.Time
}

// SiteIdentity carries the per-site facts the renderer needs besides content.
type SiteIdentity struct {
	Slug         string
	BusinessType string
	Country      string
}

// PublishedMeta is the small derived record stored alongside a published site
// so metadata lookups never re-parse the full document.
type PublishedMeta struct {
	Title       string
	Description string
	OGImage     string
}

// ContactSubmission is one accepted contact-form message for a site.
type ContactSubmission struct {
	ID       string
	SiteSlug string
	Name     string
	Email    string
	Phone    string
	Company  string
	Message  string

	ReceivedAt time.Time
}

// FeatureFlag is a per-site boolean toggle consulted by the wizard UI.
type FeatureFlag struct {
	SiteSlug  string
	Name      string
	Enabled   bool
	UpdatedAt time.Time
}

// SystemHealthCheck records the outcome of probing one backend dependency.
type SystemHealthCheck struct {
	Status    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates dependency probes for readiness endpoints.
type SystemHealthReport struct {
	Healthy     bool
	Checks      map[string]SystemHealthCheck
	GeneratedAt time.Time
}
