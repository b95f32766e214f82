// Package seller is the seller-portal client surface: product CRUD and
// order management against the /sellers routes.
package seller

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
)

type Service struct {
	api      *client.Client
	validate *validator.Validate
}

func NewService(api *client.Client, validate *validator.Validate) *Service {
	return &Service{
		api:      api,
		validate: validate,
	}
}

// validationError names the first failing field so the portal user knows
// what to fix.
func validationError(message string, err error) error {

	var fieldErrs validator.ValidationErrors

	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]

		return errors.AddValidationError(fe.Field(), "fails the '"+fe.Tag()+"' rule").WithError(err)
	}

	return errors.ValidationError(message).WithError(err)
}

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {

	var products []models.Product

	if err := s.api.Get(ctx, "/sellers/products", nil, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Service) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError("Invalid product", err)
	}

	var product models.Product

	if err := s.api.Post(ctx, "/sellers/products", nil, req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// UpdateProduct sends a partial update; only the fields present in req are
// touched server-side, hence no required-field validation here.
func (s *Service) UpdateProduct(ctx context.Context, productID int64, req *models.CreateProductRequest) (*models.Product, error) {

	var product models.Product

	if err := s.api.Patch(ctx, "/sellers/products/"+strconv.FormatInt(productID, 10), req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	return s.api.Delete(ctx, "/sellers/products/"+strconv.FormatInt(productID, 10))
}

func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {

	var orders []models.Order

	if err := s.api.Get(ctx, "/sellers/orders", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {

	req := models.UpdateOrderStatusRequest{OrderStatus: status}

	if err := s.validate.Struct(&req); err != nil {
		return nil, validationError("Invalid order status", err)
	}

	var order models.Order

	if err := s.api.Patch(ctx, "/sellers/orders/"+strconv.FormatInt(orderID, 10), req, &order); err != nil {
		return nil, err
	}

	return &order, nil
}
