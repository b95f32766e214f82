package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworld/storefront-client/internal/cart"
	"github.com/digitalworld/storefront-client/internal/checkout"
	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
	"github.com/digitalworld/storefront-client/internal/orders"
	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
	"github.com/digitalworld/storefront-client/internal/validation"
)

type authTrue struct{}

func (authTrue) Authenticated() bool { return true }

type checkoutBackend struct {
	mu        sync.Mutex
	server    *httptest.Server
	cart      models.Cart
	orderCode int
	requests  []string
}

func newCheckoutBackend(t *testing.T) *checkoutBackend {
	t.Helper()

	b := &checkoutBackend{
		orderCode: http.StatusOK,
		cart: models.Cart{
			ID:                1,
			CartItems:         []models.CartItem{{ID: 10, Quantity: 1}},
			TotalSellingPrice: 1500,
		},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		current := b.cart
		b.mu.Unlock()
		json.NewEncoder(w).Encode(current)
	})

	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		code := b.orderCode
		b.mu.Unlock()

		if code != http.StatusOK {
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{"message": "Payment gateway unavailable"})

			return
		}

		// The server empties the cart once the order is placed.
		b.mu.Lock()
		b.cart = models.Cart{ID: 1, CartItems: []models.CartItem{}}
		b.mu.Unlock()

		json.NewEncoder(w).Encode(models.PaymentLinkResponse{
			PaymentLinkURL: "https://pay.example.com/plink_789",
			PaymentLinkID:  "plink_789",
		})
	})

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)

	return b
}

type fixture struct {
	backend *checkoutBackend
	cart    *cart.Store
	wizard  *checkout.Wizard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := newCheckoutBackend(t)

	tokens := token.NewManager(storage.NewMemoryStore(), token.KindCustomer)
	api := client.New(backend.server.URL, tokens, client.WithHTTPClient(&http.Client{}))

	validate := validation.New()
	cartStore := cart.NewStore(api, authTrue{}, nil)
	orderSvc := orders.NewService(api, validate)

	return &fixture{
		backend: backend,
		cart:    cartStore,
		wizard:  checkout.NewWizard(cartStore, orderSvc, validate, "Sri Lanka", "RAZORPAY"),
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       1,
		FullName: "Nimal Perera",
		Email:    "nimal@example.com",
		Mobile:   "0771234567",
	}
}

func validAddress() models.Address {
	return models.Address{
		Name:    "Nimal Perera",
		Street:  "12 Galle Road",
		Address: "Apartment 4B",
		City:    "Colombo",
		State:   "Western",
		PinCode: "00300",
		Mobile:  "0771234567",
	}
}

func TestStart(t *testing.T) {

	t.Run("Requires Signed In User", func(t *testing.T) {
		f := newFixture(t)

		err := f.wizard.Start(nil)

		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
	})

	t.Run("Requires Non-Empty Cart", func(t *testing.T) {
		f := newFixture(t)
		f.backend.mu.Lock()
		f.backend.cart = models.Cart{ID: 1, CartItems: []models.CartItem{}}
		f.backend.mu.Unlock()
		require.NoError(t, f.cart.Refresh(t.Context()))

		err := f.wizard.Start(testUser())

		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Cart is empty", appErr.Message)
	})

	t.Run("Prefills Name And Mobile", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.cart.Refresh(t.Context()))

		require.NoError(t, f.wizard.Start(testUser()))

		addr := f.wizard.Address()
		assert.Equal(t, "Nimal Perera", addr.Name)
		assert.Equal(t, "0771234567", addr.Mobile)
		assert.Equal(t, "Sri Lanka", addr.Country)
		assert.Equal(t, checkout.StepAddress, f.wizard.Step())
	})
}

func TestSetAddress(t *testing.T) {

	t.Run("Valid Address Advances To Payment", func(t *testing.T) {
		f := newFixture(t)

		err := f.wizard.SetAddress(validAddress())

		require.NoError(t, err)
		assert.Equal(t, checkout.StepPayment, f.wizard.Step())
		assert.Equal(t, "Sri Lanka", f.wizard.Address().Country, "default country fills the blank field")
	})

	tests := []struct {
		name    string
		mutate  func(a *models.Address)
		message string
	}{
		{
			name:    "Bad Pin Code",
			mutate:  func(a *models.Address) { a.PinCode = "12" },
			message: "Please enter a valid pin code",
		},
		{
			name:    "Bad Mobile",
			mutate:  func(a *models.Address) { a.Mobile = "07712" },
			message: "Please enter a valid 10-digit mobile number",
		},
		{
			name:    "Missing City",
			mutate:  func(a *models.Address) { a.City = "" },
			message: "Please fill in the city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			addr := validAddress()
			tt.mutate(&addr)

			err := f.wizard.SetAddress(addr)

			appErr, ok := errors.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, checkout.StepAddress, f.wizard.Step(), "wizard stays on the address step")
		})
	}
}

func TestPlaceOrder(t *testing.T) {

	t.Run("Rejected Before Payment Step", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.wizard.PlaceOrder(t.Context())

		appErr, ok := errors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("Success Advances And Refreshes Cart", func(t *testing.T) {
		ctx := t.Context()

		f := newFixture(t)
		require.NoError(t, f.cart.Refresh(ctx))
		require.NoError(t, f.wizard.Start(testUser()))
		require.NoError(t, f.wizard.SetAddress(validAddress()))
		f.wizard.SetPaymentMethod("")
		assert.Equal(t, "RAZORPAY", f.wizard.PaymentMethod(), "blank keeps the default")

		url, err := f.wizard.PlaceOrder(ctx)

		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/plink_789", url)
		assert.Equal(t, url, f.wizard.PaymentURL())
		assert.Equal(t, checkout.StepConfirmation, f.wizard.Step())
		assert.Zero(t, f.cart.ItemCount(), "cart mirrors the emptied server cart")
	})

	t.Run("Order Failure Stays On Payment Step", func(t *testing.T) {
		ctx := t.Context()

		f := newFixture(t)
		require.NoError(t, f.cart.Refresh(ctx))
		require.NoError(t, f.wizard.Start(testUser()))
		require.NoError(t, f.wizard.SetAddress(validAddress()))

		f.backend.mu.Lock()
		f.backend.orderCode = http.StatusBadGateway
		f.backend.mu.Unlock()

		_, err := f.wizard.PlaceOrder(ctx)

		require.Error(t, err)
		assert.Equal(t, checkout.StepPayment, f.wizard.Step())
		assert.Empty(t, f.wizard.PaymentURL())
		assert.Equal(t, 1, f.cart.ItemCount(), "cart untouched on failure")
	})
}
