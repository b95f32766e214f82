// Package catalog is the product-browsing controller: filter state, its
// query-string form, and the listing/search/detail calls behind it.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
)

// Filters mirrors the listing sidebar. Zero values mean "not filtering".
type Filters struct {
	Category   string
	Brand      string
	Color      string
	MinPrice   int
	MaxPrice   int
	Discount   int
	Sort       string
	PageNumber int
}

// Values marshals the filters the way the web client did: empty entries
// are skipped entirely rather than sent blank.
func (f Filters) Values() url.Values {

	v := url.Values{}

	setIf := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	setIf("category", f.Category)
	setIf("brand", f.Brand)
	setIf("color", f.Color)
	setIf("sort", f.Sort)

	if f.MinPrice > 0 {
		v.Set("minPrice", strconv.Itoa(f.MinPrice))
	}

	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.Itoa(f.MaxPrice))
	}

	if f.Discount > 0 {
		v.Set("minDiscount", strconv.Itoa(f.Discount))
	}

	if f.PageNumber > 0 {
		v.Set("pageNumber", strconv.Itoa(f.PageNumber))
	}

	return v
}

// FromValues restores filter state from a query string, the inverse of
// Values. Unparseable numbers degrade to unset.
func FromValues(v url.Values) Filters {

	atoi := func(key string) int {
		n, _ := strconv.Atoi(v.Get(key))

		return n
	}

	return Filters{
		Category:   v.Get("category"),
		Brand:      v.Get("brand"),
		Color:      v.Get("color"),
		MinPrice:   atoi("minPrice"),
		MaxPrice:   atoi("maxPrice"),
		Discount:   atoi("minDiscount"),
		Sort:       v.Get("sort"),
		PageNumber: atoi("pageNumber"),
	}
}

type Service struct {
	api       *client.Client
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

func NewService(api *client.Client, logger *slog.Logger) *Service {

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		api: api,
		// Descriptions come from seller input and may carry markup; strip
		// everything before terminal rendering.
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

// List fetches a product page. The backend answers with either a Spring
// page envelope or a bare array depending on the route version, so both
// shapes are accepted.
func (s *Service) List(ctx context.Context, filters Filters) (*models.ProductPage, error) {

	var raw json.RawMessage

	if err := s.api.Get(ctx, "/products", filters.Values(), &raw); err != nil {
		return nil, err
	}

	page, err := decodePage(raw)
	if err != nil {
		return nil, err
	}

	for i := range page.Content {
		page.Content[i].Description = s.sanitizer.Sanitize(page.Content[i].Description)
	}

	return page, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {

	v := url.Values{}
	v.Set("query", query)

	var products []models.Product

	if err := s.api.Get(ctx, "/products/search", v, &products); err != nil {
		return nil, err
	}

	for i := range products {
		products[i].Description = s.sanitizer.Sanitize(products[i].Description)
	}

	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {

	var product models.Product

	if err := s.api.Get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return nil, err
	}

	product.Description = s.sanitizer.Sanitize(product.Description)

	return &product, nil
}

func decodePage(raw json.RawMessage) (*models.ProductPage, error) {

	trimmed := raw
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t' || trimmed[0] == '\r') {
		trimmed = trimmed[1:]
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {

		var products []models.Product

		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, errors.DecodeError("Failed to decode product list").WithError(err)
		}

		return &models.ProductPage{Content: products, TotalPages: 1}, nil
	}

	var page models.ProductPage

	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, errors.DecodeError("Failed to decode product page").WithError(err)
	}

	if page.TotalPages == 0 {
		page.TotalPages = 1
	}

	return &page, nil
}
