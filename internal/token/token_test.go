package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
)

func mintJWT(t *testing.T, email string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"email":       email,
		"authorities": "ROLE_CUSTOMER",
		"iat":         jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		"exp":         jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	return signed
}

func TestManagerSlots(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()

	customer := token.NewManager(store, token.KindCustomer)
	seller := token.NewManager(store, token.KindSeller)

	require.NoError(t, customer.Save(ctx, "customer-token"))
	require.NoError(t, seller.Save(ctx, "seller-token"))

	t.Run("Kinds Do Not Clobber Each Other", func(t *testing.T) {
		got, err := customer.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "customer-token", got)

		got, err = seller.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "seller-token", got)
	})

	t.Run("Clear Only Touches Own Slot", func(t *testing.T) {
		require.NoError(t, seller.Clear(ctx))

		got, err := seller.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = customer.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "customer-token", got)
	})

	t.Run("Load Without Token", func(t *testing.T) {
		fresh := token.NewManager(storage.NewMemoryStore(), token.KindCustomer)

		got, err := fresh.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestManagerLegacyMirror(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()

	seller := token.NewManager(store, token.KindSeller).WithLegacyMirror()

	require.NoError(t, seller.Save(ctx, "seller-token"))

	var mirrored string

	found, err := store.Get(ctx, storage.KeyJWT, &mirrored)
	require.NoError(t, err)
	assert.True(t, found, "legacy mirror should write the generic slot")
	assert.Equal(t, "seller-token", mirrored)

	require.NoError(t, seller.Clear(ctx))

	found, err = store.Get(ctx, storage.KeyJWT, &mirrored)
	require.NoError(t, err)
	assert.False(t, found, "clear should remove the mirrored slot too")
}

func TestInspect(t *testing.T) {

	t.Run("Valid Token", func(t *testing.T) {
		tok := mintJWT(t, "asha@example.com", time.Now().Add(time.Hour))

		info, err := token.Inspect(tok)

		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", info.Email)
		assert.Equal(t, "ROLE_CUSTOMER", info.Authorities)
		assert.False(t, info.Expired)
		assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, time.Minute)
	})

	t.Run("Expired Token", func(t *testing.T) {
		tok := mintJWT(t, "asha@example.com", time.Now().Add(-time.Hour))

		info, err := token.Inspect(tok)

		require.NoError(t, err)
		assert.True(t, info.Expired)
	})

	t.Run("Malformed Token", func(t *testing.T) {
		_, err := token.Inspect("not.a.jwt")

		assert.Error(t, err)
	})
}
