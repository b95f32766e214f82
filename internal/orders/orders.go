package orders

import (
	"context"
	"net/url"
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

// Create places the order and returns the payment link the user must
// follow. The backend reserves the order even when the link is missing,
// but a link-less response is still a failed checkout for the caller.
func (s *Service) Create(ctx context.Context, address *models.Address, paymentMethod string) (*models.PaymentLinkResponse, error) {

	if err := s.validate.Struct(address); err != nil {
		return nil, errors.ValidationError("Invalid shipping address").WithError(err)
	}

	query := url.Values{}
	query.Set("paymentMethod", paymentMethod)

	var resp models.PaymentLinkResponse

	if err := s.api.Post(ctx, "/orders", query, address, &resp); err != nil {
		return nil, err
	}

	if resp.PaymentLinkURL == "" {
		return nil, errors.APIError("Failed to create payment link", 0)
	}

	return &resp, nil
}

func (s *Service) History(ctx context.Context) ([]models.Order, error) {

	var orders []models.Order

	if err := s.api.Get(ctx, "/orders/user", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (*models.Order, error) {

	var order models.Order

	if err := s.api.Get(ctx, "/orders/"+strconv.FormatInt(orderID, 10), nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *Service) GetItem(ctx context.Context, orderItemID int64) (*models.OrderItem, error) {

	var item models.OrderItem

	if err := s.api.Get(ctx, "/orders/item/"+strconv.FormatInt(orderItemID, 10), nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Service) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {

	var order models.Order

	if err := s.api.Put(ctx, "/orders/"+strconv.FormatInt(orderID, 10)+"/cancel", nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}
