package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
	"github.com/digitalworld/storefront-client/internal/token"
)

// SellerState is a snapshot of the seller-portal session.
type SellerState struct {
	Seller        *models.Seller
	Authenticated bool
	Loading       bool
}

// SellerStore is the seller-portal counterpart of Store. The flows differ
// enough from the customer ones (registration payload, email verification,
// profile updates) that sharing a generic core would obscure them.
type SellerStore struct {
	mu        sync.Mutex
	api       *client.Client
	tokens    *token.Manager
	logger    *slog.Logger
	state     SellerState
	observers []Observer
}

func NewSellerStore(api *client.Client, tokens *token.Manager, logger *slog.Logger) *SellerStore {

	if logger == nil {
		logger = slog.Default()
	}

	return &SellerStore{
		api:    api,
		tokens: tokens,
		logger: logger,
		state:  SellerState{Loading: true},
	}
}

func (s *SellerStore) Subscribe(obs Observer) {
	s.observers = append(s.observers, obs)
}

func (s *SellerStore) State() SellerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *SellerStore) Authenticated() bool {
	return s.State().Authenticated
}

func (s *SellerStore) Initialize(ctx context.Context) error {

	defer s.setLoading(false)

	tok, err := s.tokens.Load(ctx)
	if err != nil {
		return err
	}

	if tok == "" {
		return nil
	}

	if info, err := token.Inspect(tok); err != nil || info.Expired {
		s.logger.Info("Clearing unusable persisted seller token")
		s.clearLocal(ctx)

		return nil
	}

	if err := s.fetchProfile(ctx); err != nil {
		s.logger.Warn("Seller profile fetch failed during initialization, clearing token",
			slog.String("error", err.Error()))
		s.clearLocal(ctx)

		return nil
	}

	return nil
}

func (s *SellerStore) RequestOTP(ctx context.Context, email string) (*models.AuthResponse, error) {

	req := models.OTPRequest{Email: email, Role: models.RoleSeller}

	var resp models.AuthResponse

	if err := s.api.Post(ctx, "/auth/sent/login-signup-otp", nil, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Register creates the seller account. It does not log in; the backend
// requires email verification first.
func (s *SellerStore) Register(ctx context.Context, req *models.RegisterSellerRequest) (*models.Seller, error) {

	var seller models.Seller

	if err := s.api.Post(ctx, "/sellers", nil, req, &seller); err != nil {
		return nil, err
	}

	return &seller, nil
}

func (s *SellerStore) Login(ctx context.Context, email, otp string) (*models.AuthResponse, error) {

	var resp models.AuthResponse

	if err := s.api.Post(ctx, "/sellers/login", nil, models.LoginRequest{Email: email, OTP: otp}, &resp); err != nil {
		return nil, err
	}

	if resp.JWT == "" {
		return nil, errors.MissingTokenError("No JWT token received from server")
	}

	if err := s.tokens.Save(ctx, resp.JWT); err != nil {
		return nil, err
	}

	if err := s.fetchProfile(ctx); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *SellerStore) VerifyEmail(ctx context.Context, otp string) (*models.Seller, error) {

	var seller models.Seller

	if err := s.api.Patch(ctx, "/sellers/verify/"+otp, nil, &seller); err != nil {
		return nil, err
	}

	return &seller, nil
}

func (s *SellerStore) UpdateProfile(ctx context.Context, req *models.Seller) (*models.Seller, error) {

	var seller models.Seller

	if err := s.api.Patch(ctx, "/sellers", req, &seller); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.Authenticated {
		s.state.Seller = &seller
	}
	s.mu.Unlock()

	return &seller, nil
}

func (s *SellerStore) Report(ctx context.Context) (*models.SellerReport, error) {

	var report models.SellerReport

	if err := s.api.Get(ctx, "/sellers/report", nil, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *SellerStore) Logout(ctx context.Context) {

	s.logger.Info("Seller logging out")
	s.clearLocal(ctx)
}

func (s *SellerStore) Invalidate(_ context.Context) {

	s.logger.Warn("Seller session invalidated by backend")
	s.setIdentity(nil)
}

func (s *SellerStore) fetchProfile(ctx context.Context) error {

	var seller models.Seller

	if err := s.api.Get(ctx, "/sellers/profile", nil, &seller); err != nil {
		return err
	}

	s.setIdentity(&seller)

	return nil
}

func (s *SellerStore) clearLocal(ctx context.Context) {

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear seller token", slog.String("error", err.Error()))
	}

	s.setIdentity(nil)
}

func (s *SellerStore) setIdentity(seller *models.Seller) {

	s.mu.Lock()
	was := s.state.Authenticated
	s.state.Seller = seller
	s.state.Authenticated = seller != nil
	now := s.state.Authenticated
	observers := s.observers
	s.mu.Unlock()

	if was != now {
		for _, obs := range observers {
			obs(now)
		}
	}
}

func (s *SellerStore) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}
