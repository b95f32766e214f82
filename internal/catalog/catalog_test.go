package catalog_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworld/storefront-client/internal/catalog"
	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
)

func newService(t *testing.T, handler http.Handler) *catalog.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := token.NewManager(storage.NewMemoryStore(), token.KindCustomer)
	api := client.New(server.URL, tokens, client.WithHTTPClient(&http.Client{}))

	return catalog.NewService(api, nil)
}

func TestFiltersValues(t *testing.T) {

	t.Run("Empty Filters Produce Empty Query", func(t *testing.T) {
		assert.Empty(t, catalog.Filters{}.Values())
	})

	t.Run("Set Fields Only", func(t *testing.T) {
		// Arrange
		f := catalog.Filters{
			Category: "men_kurta",
			Color:    "blue",
			MaxPrice: 4000,
			Sort:     "price_low",
		}

		// Act
		v := f.Values()

		// Assert
		assert.Equal(t, "men_kurta", v.Get("category"))
		assert.Equal(t, "blue", v.Get("color"))
		assert.Equal(t, "4000", v.Get("maxPrice"))
		assert.Equal(t, "price_low", v.Get("sort"))
		assert.NotContains(t, v, "brand")
		assert.NotContains(t, v, "minPrice")
		assert.NotContains(t, v, "minDiscount")
		assert.NotContains(t, v, "pageNumber")
	})

	t.Run("Round Trip", func(t *testing.T) {
		// Arrange
		f := catalog.Filters{
			Category:   "women_dress",
			Brand:      "zara",
			Color:      "red",
			MinPrice:   500,
			MaxPrice:   9000,
			Discount:   20,
			Sort:       "price_high",
			PageNumber: 3,
		}

		// Act & Assert
		assert.Equal(t, f, catalog.FromValues(f.Values()))
	})

	t.Run("Unparseable Numbers Degrade To Unset", func(t *testing.T) {
		v := url.Values{}
		v.Set("minPrice", "cheap")
		v.Set("pageNumber", "last")

		f := catalog.FromValues(v)

		assert.Zero(t, f.MinPrice)
		assert.Zero(t, f.PageNumber)
	})
}

func TestList(t *testing.T) {

	t.Run("Page Envelope", func(t *testing.T) {
		// Arrange
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			assert.Equal(t, "shoes", r.URL.Query().Get("category"))
			w.Write([]byte(`{
				"content": [{"id": 1, "title": "Runner"}, {"id": 2, "title": "Loafer"}],
				"totalPages": 5,
				"number": 0
			}`))
		}))

		// Act
		page, err := svc.List(t.Context(), catalog.Filters{Category: "shoes"})

		// Assert
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Runner", page.Content[0].Title)
		assert.Equal(t, 5, page.TotalPages)
	})

	t.Run("Bare Array", func(t *testing.T) {
		// Arrange
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id": 7, "title": "Scarf"}]`))
		}))

		// Act
		page, err := svc.List(t.Context(), catalog.Filters{})

		// Assert
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, int64(7), page.Content[0].ID)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("Descriptions Are Sanitized", func(t *testing.T) {
		// Arrange
		svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id": 1, "description": "<script>alert(1)</script>Soft <b>cotton</b> kurta"}]`))
		}))

		// Act
		page, err := svc.List(t.Context(), catalog.Filters{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Soft cotton kurta", page.Content[0].Description)
	})
}

func TestSearch(t *testing.T) {
	// Arrange
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "kurta set", r.URL.Query().Get("query"))
		w.Write([]byte(`[{"id": 3, "title": "Kurta Set"}]`))
	}))

	// Act
	products, err := svc.Search(t.Context(), "kurta set")

	// Assert
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kurta Set", products[0].Title)
}

func TestGet(t *testing.T) {
	// Arrange
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		w.Write([]byte(`{"id": 42, "title": "Denim Jacket", "sellingPrice": 2499}`))
	}))

	// Act
	product, err := svc.Get(t.Context(), 42)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), product.ID)
	assert.Equal(t, 2499, product.SellingPrice)
}
