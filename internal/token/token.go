package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/storage"
)

// Kind is the identity category a token belongs to. Exactly one kind is
// active per Manager; customer and seller tokens live in separate slots.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSeller   Kind = "seller"
)

func (k Kind) StorageKey() string {
	if k == KindSeller {
		return storage.KeySellerJWT
	}

	return storage.KeyJWT
}

// Manager owns one kind's token slot.
//
// The old web client mirrored the seller token into the generic "jwt" slot
// so its shared HTTP layer could find it, which let concurrent customer and
// seller sessions clobber each other. Here every HTTP client reads its own
// Manager, so the mirror is only kept as an opt-in for storage files shared
// with the web client.
type Manager struct {
	store        storage.Store
	kind         Kind
	mirrorLegacy bool
}

func NewManager(store storage.Store, kind Kind) *Manager {
	return &Manager{store: store, kind: kind}
}

// WithLegacyMirror enables writing the seller token into the generic slot
// as the web client did.
//
// Deprecated: only for interop with storage written by the old web client.
func (m *Manager) WithLegacyMirror() *Manager {
	m.mirrorLegacy = true

	return m
}

func (m *Manager) Kind() Kind {
	return m.kind
}

// Load reads the persisted token. Absence is not an error; the empty
// string means no token.
func (m *Manager) Load(ctx context.Context) (string, error) {

	var tok string

	found, err := m.store.Get(ctx, m.kind.StorageKey(), &tok)
	if err != nil {
		return "", errors.StorageError("Failed to read token").WithError(err)
	}

	if !found {
		return "", nil
	}

	return tok, nil
}

func (m *Manager) Save(ctx context.Context, tok string) error {

	if err := m.store.Set(ctx, m.kind.StorageKey(), tok); err != nil {
		return errors.StorageError("Failed to persist token").WithError(err)
	}

	if m.kind == KindSeller && m.mirrorLegacy {
		if err := m.store.Set(ctx, storage.KeyJWT, tok); err != nil {
			return errors.StorageError("Failed to mirror token").WithError(err)
		}
	}

	return nil
}

// Clear removes the token slot. For sellers with the legacy mirror it also
// removes the generic slot, matching the web client's logout.
func (m *Manager) Clear(ctx context.Context) error {

	if err := m.store.Delete(ctx, m.kind.StorageKey()); err != nil {
		return errors.StorageError("Failed to clear token").WithError(err)
	}

	if m.kind == KindSeller && m.mirrorLegacy {
		if err := m.store.Delete(ctx, storage.KeyJWT); err != nil {
			return errors.StorageError("Failed to clear mirrored token").WithError(err)
		}
	}

	return nil
}

// Info is what an unverified decode of a bearer token exposes. Only the
// backend can verify the signature; the client reads claims for display
// and for skipping doomed profile fetches.
type Info struct {
	Email       string
	Authorities string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Expired     bool
}

func Inspect(tok string) (*Info, error) {

	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(tok, claims)
	if err != nil {
		return nil, errors.BadRequestError("Malformed token").WithError(err)
	}

	info := &Info{}

	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}

	if auth, ok := claims["authorities"].(string); ok {
		info.Authorities = auth
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = exp.Time.Before(time.Now())
	}

	return info, nil
}
