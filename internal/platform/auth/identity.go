package auth

import (
	"context"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// Identity captures the authenticated principal details extracted from a
// Firebase ID token.
type Identity struct {
	UID   string
	Email string
	// Admin is true when the UID appears on the configured admin allowlist.
	// Admins may act on any site regardless of ownership.
	Admin bool

	token *firebaseauth.Token
}

// Token exposes the decoded Firebase ID token associated with this identity.
func (i *Identity) Token() *firebaseauth.Token {
	if i == nil {
		return nil
	}
	return i.token
}

// CanManage reports whether this identity may modify a site owned by ownerID.
func (i *Identity) CanManage(ownerID string) bool {
	if i == nil {
		return false
	}
	if i.Admin {
		return true
	}
	return ownerID != "" && i.UID == ownerID
}

type contextKey string

const identityContextKey contextKey = "github.com/localed/api/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
