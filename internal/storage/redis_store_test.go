package storage_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworld/storefront-client/internal/storage"
)

func setupRedis(t *testing.T) (storage.Store, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	return storage.NewRedisStore(client, "storefront"), mock
}

func TestRedisStoreGet(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		store, mock := setupRedis(t)

		raw, err := json.Marshal("token-abc")
		require.NoError(t, err)

		mock.ExpectGet("storefront:jwt").SetVal(string(raw))

		var out string

		// Act
		found, err := store.Get(ctx, storage.KeyJWT, &out)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "token-abc", out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Key", func(t *testing.T) {
		// Arrange
		store, mock := setupRedis(t)
		mock.ExpectGet("storefront:jwt").RedisNil()

		var out string

		// Act
		found, err := store.Get(ctx, storage.KeyJWT, &out)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setupRedis(t)
		mock.ExpectGet("storefront:jwt").SetErr(errors.New("connection refused"))

		var out string

		// Act
		found, err := store.Get(ctx, storage.KeyJWT, &out)

		// Assert
		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestRedisStoreSetDelete(t *testing.T) {
	ctx := t.Context()

	t.Run("Set", func(t *testing.T) {
		// Arrange
		store, mock := setupRedis(t)

		raw, err := json.Marshal("token-abc")
		require.NoError(t, err)

		mock.ExpectSet("storefront:seller_jwt", raw, 0).SetVal("OK")

		// Act
		err = store.Set(ctx, storage.KeySellerJWT, "token-abc")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		// Arrange
		store, mock := setupRedis(t)
		mock.ExpectDel("storefront:jwt").SetVal(1)

		// Act
		err := store.Delete(ctx, storage.KeyJWT)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
