package client_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
)

func newClient(t *testing.T, serverURL string, store storage.Store, opts ...client.Option) (*client.Client, *token.Manager) {
	t.Helper()

	tokens := token.NewManager(store, token.KindCustomer)
	opts = append(opts, client.WithHTTPClient(&http.Client{}))

	return client.New(serverURL, tokens, opts...), tokens
}

func TestBearerTokenReadAtSendTime(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()

	var seen []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	api, tokens := newClient(t, server.URL, store)

	// No token yet: no Authorization header.
	require.NoError(t, api.Get(ctx, "/products", nil, nil))

	// Token rotation applies on the very next call, no client rebuild.
	require.NoError(t, tokens.Save(ctx, "first"))
	require.NoError(t, api.Get(ctx, "/products", nil, nil))

	require.NoError(t, tokens.Save(ctx, "second"))
	require.NoError(t, api.Get(ctx, "/products", nil, nil))

	require.Len(t, seen, 3)
	assert.Empty(t, seen[0])
	assert.Equal(t, "Bearer first", seen[1])
	assert.Equal(t, "Bearer second", seen[2])
}

func TestRequestIDHeader(t *testing.T) {
	ctx := t.Context()

	var requestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	api, _ := newClient(t, server.URL, storage.NewMemoryStore())

	require.NoError(t, api.Get(ctx, "/products", nil, nil))
	assert.NotEmpty(t, requestID)
}

func TestUnauthorizedClearsTokenAndNotifies(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var invalidatedKind token.Kind

	api, tokens := newClient(t, server.URL, store,
		client.WithSessionInvalidatedHandler(func(kind token.Kind) {
			invalidatedKind = kind
		}))

	require.NoError(t, tokens.Save(ctx, "rejected-token"))

	err := api.Get(ctx, "/cart", nil, nil)

	appErr, ok := errors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
	assert.Equal(t, token.KindCustomer, invalidatedKind)

	remaining, loadErr := tokens.Load(ctx)
	require.NoError(t, loadErr)
	assert.Empty(t, remaining, "rejected token must be cleared from storage")
}

func TestErrorMapping(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantMsg    string
		wantDetail string
	}{
		{"Not Found", http.StatusNotFound, `{"message":"Product not found"}`, errors.ErrCodeNotFound, "Product not found", ""},
		{"Bad Request", http.StatusBadRequest, `{"error":"quantity must be positive"}`, errors.ErrCodeBadRequest, "quantity must be positive", ""},
		{"Server Error Without Body", http.StatusInternalServerError, ``, errors.ErrCodeAPI, "Request failed with status 500", ""},
		{"Forbidden", http.StatusForbidden, `{"message":"Sellers only"}`, errors.ErrCodeForbidden, "Sellers only", ""},
		{"Message Plus Error Detail", http.StatusBadRequest, `{"message":"Coupon not applicable","error":"MIN_CART_VALUE"}`, errors.ErrCodeBadRequest, "Coupon not applicable", "MIN_CART_VALUE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			api, _ := newClient(t, server.URL, storage.NewMemoryStore())

			err := api.Get(ctx, "/whatever", nil, nil)

			appErr, ok := errors.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.Equal(t, tc.wantMsg, appErr.Message)
			assert.Equal(t, tc.wantDetail, appErr.Detail)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	ctx := t.Context()

	// Closed immediately: every request fails before a status exists.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	api, _ := newClient(t, server.URL, storage.NewMemoryStore())

	err := api.Get(ctx, "/products", nil, nil)

	appErr, ok := errors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTransport, appErr.Code)
}

func TestResponseDecoding(t *testing.T) {
	ctx := t.Context()

	t.Run("Empty Body With Out Param", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		api, _ := newClient(t, server.URL, storage.NewMemoryStore())

		var out struct{ ID int64 }

		assert.NoError(t, api.Get(ctx, "/orders/1", nil, &out))
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":`))
		}))
		defer server.Close()

		api, _ := newClient(t, server.URL, storage.NewMemoryStore())

		var out struct{ ID int64 }

		err := api.Get(ctx, "/orders/1", nil, &out)

		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeDecode, appErr.Code)
	})
}
