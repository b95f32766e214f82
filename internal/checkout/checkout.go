// Package checkout drives the three-step checkout wizard the web client
// rendered as pages: shipping address, payment method, confirmation.
package checkout

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/digitalworld/storefront-client/internal/cart"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
	"github.com/digitalworld/storefront-client/internal/orders"
)

type Step int

const (
	StepAddress Step = iota + 1
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// Wizard holds the per-checkout view state. One instance per checkout
// attempt; it is not reusable after confirmation.
type Wizard struct {
	cart          *cart.Store
	orders        *orders.Service
	validate      *validator.Validate
	step          Step
	address       models.Address
	paymentMethod string
	paymentURL    string
}

func NewWizard(cartStore *cart.Store, orderSvc *orders.Service, validate *validator.Validate, defaultCountry, defaultPaymentMethod string) *Wizard {
	return &Wizard{
		cart:          cartStore,
		orders:        orderSvc,
		validate:      validate,
		step:          StepAddress,
		address:       models.Address{Country: defaultCountry},
		paymentMethod: defaultPaymentMethod,
	}
}

// Start gates entry the way the checkout page did: no user or an empty
// cart never reaches the address step. The user's name and mobile prefill
// the form.
func (w *Wizard) Start(user *models.User) error {

	if user == nil {
		return errors.UnauthorizedError("Sign in to check out")
	}

	c := w.cart.Cart()
	if c == nil || len(c.CartItems) == 0 {
		return errors.BadRequestError("Cart is empty")
	}

	w.address.Name = user.FullName
	w.address.Mobile = user.Mobile

	return nil
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Address() models.Address {
	return w.address
}

// SetAddress validates the shipping form and advances to the payment step.
// On failure the wizard stays on the address step.
func (w *Wizard) SetAddress(addr models.Address) error {

	if addr.Country == "" {
		addr.Country = w.address.Country
	}

	if err := w.validate.Struct(&addr); err != nil {
		return translateAddressError(err)
	}

	w.address = addr
	w.step = StepPayment

	return nil
}

func (w *Wizard) SetPaymentMethod(method string) {
	if method != "" {
		w.paymentMethod = method
	}
}

func (w *Wizard) PaymentMethod() string {
	return w.paymentMethod
}

// PlaceOrder submits the order, advances to confirmation, and refreshes
// the cart, which the server has emptied by now. A refresh failure after a
// placed order is logged by the cart store but does not fail the checkout.
func (w *Wizard) PlaceOrder(ctx context.Context) (string, error) {

	if w.step != StepPayment {
		return "", errors.BadRequestError("Complete the address step first")
	}

	resp, err := w.orders.Create(ctx, &w.address, w.paymentMethod)
	if err != nil {
		return "", err
	}

	w.paymentURL = resp.PaymentLinkURL
	w.step = StepConfirmation

	_ = w.cart.Refresh(ctx)

	return w.paymentURL, nil
}

func (w *Wizard) PaymentURL() string {
	return w.paymentURL
}

// translateAddressError turns validator output into the messages the web
// form showed.
func translateAddressError(err error) error {

	var fieldErrs validator.ValidationErrors

	if !stderrors.As(err, &fieldErrs) {
		return errors.ValidationError("Invalid shipping address").WithError(err)
	}

	for _, fe := range fieldErrs {

		switch fe.Tag() {
		case "pincode":
			return errors.ValidationError("Please enter a valid pin code")
		case "mobile":
			return errors.ValidationError("Please enter a valid 10-digit mobile number")
		default:
			return errors.ValidationError(fmt.Sprintf("Please fill in the %s", strings.ToLower(fe.Field())))
		}
	}

	return errors.ValidationError("Invalid shipping address").WithError(err)
}
