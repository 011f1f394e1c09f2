// Package store implements the persistent credential store: the durable
// client-side state that survives a restart. It holds exactly two values,
// written and cleared together — the session token and the cached user
// profile.
package store

import (
	"context"

	"github.com/nexus-hq/nexus-attendance/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_store_mock.go -package=mock

// CredentialStore is the durable token + profile storage. Writes happen only
// from explicit user-initiated auth actions, so last-writer-wins without
// locking is acceptable.
type CredentialStore interface {
	// Save persists the token together with the serialized user profile,
	// replacing any previous session.
	Save(ctx context.Context, token string, user models.User) error

	// Load returns the persisted token and profile. Returns [ErrNoSession]
	// when nothing is stored.
	Load(ctx context.Context) (string, models.User, error)

	// Clear removes the persisted session. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error

	// Close releases the underlying storage handle.
	Close() error
}
