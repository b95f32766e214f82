package storage

import (
	"context"
)

// Store is the persistent key-value surface the rest of the client sees:
// the browser-storage equivalent. Values are JSON-encoded by the backend
// implementations.
type Store interface {
	Get(ctx context.Context, key string, value interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Well-known keys, spelled exactly as the web client spelled them so a
// migrated storage file stays readable.
const (
	KeyJWT       = "jwt"
	KeySellerJWT = "seller_jwt"
	KeyUser      = "user"
	KeyTheme     = "theme"
)
