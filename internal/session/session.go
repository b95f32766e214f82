// Package session owns the "who is logged in" state for one identity kind
// and the asynchronous lifecycle around it. It is the only place where
// state resolves from unknown to a definite authenticated or
// unauthenticated value; consumers must treat the loading window as
// neither.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/models"
	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
)

// Observer is notified after the authenticated flag transitions. Used by
// the cart store to load on login and clear on logout.
type Observer func(authenticated bool)

// State is a snapshot of the customer session.
type State struct {
	User          *models.User
	Authenticated bool
	Loading       bool
}

// Store is the customer session store.
type Store struct {
	mu        sync.Mutex
	api       *client.Client
	tokens    *token.Manager
	store     storage.Store
	logger    *slog.Logger
	state     State
	observers []Observer
}

func NewStore(api *client.Client, tokens *token.Manager, store storage.Store, logger *slog.Logger) *Store {

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		api:    api,
		tokens: tokens,
		store:  store,
		logger: logger,
		state:  State{Loading: true},
	}
}

// Subscribe registers an observer for authenticated-flag transitions.
// Must be called before operations start; not safe concurrently with them.
func (s *Store) Subscribe(obs Observer) {
	s.observers = append(s.observers, obs)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Store) Authenticated() bool {
	return s.State().Authenticated
}

// Initialize resolves the persisted token into a definite session state.
// A rejected or malformed token is cleared locally and reported as a clean
// unauthenticated start, not an error; anything else propagates.
func (s *Store) Initialize(ctx context.Context) error {

	defer s.setLoading(false)

	tok, err := s.tokens.Load(ctx)
	if err != nil {
		return err
	}

	if tok == "" {
		s.logger.Debug("No persisted token, starting unauthenticated")

		return nil
	}

	if info, err := token.Inspect(tok); err != nil || info.Expired {
		s.logger.Info("Clearing unusable persisted token")
		s.clearLocal(ctx)

		return nil
	}

	if err := s.fetchProfile(ctx); err != nil {
		s.logger.Warn("Profile fetch failed during initialization, clearing token",
			slog.String("error", err.Error()))
		s.clearLocal(ctx)

		return nil
	}

	return nil
}

// RequestOTP asks the backend to mail a passcode. Session state is not
// touched; the caller drives the UI to the OTP-entry step.
func (s *Store) RequestOTP(ctx context.Context, email string) (*models.AuthResponse, error) {

	req := models.OTPRequest{Email: email, Role: models.RoleCustomer}

	var resp models.AuthResponse

	if err := s.api.Post(ctx, "/auth/sent/login-signup-otp", nil, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *Store) Signup(ctx context.Context, email, fullName, otp string) (*models.AuthResponse, error) {
	return s.verify(ctx, "/auth/signup", models.SignupRequest{
		Email:    email,
		FullName: fullName,
		OTP:      otp,
	})
}

func (s *Store) Login(ctx context.Context, email, otp string) (*models.AuthResponse, error) {
	return s.verify(ctx, "/auth/signing", models.LoginRequest{
		Email: email,
		OTP:   otp,
	})
}

// verify runs the shared tail of login and signup: exchange the OTP for a
// token, persist it, then fetch the profile. A response without a token
// fails loudly, and a failed profile fetch leaves the session
// unauthenticated even though a token was issued; the caller surfaces both
// as errors rather than assuming success.
func (s *Store) verify(ctx context.Context, path string, req any) (*models.AuthResponse, error) {

	var resp models.AuthResponse

	if err := s.api.Post(ctx, path, nil, req, &resp); err != nil {
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

// Logout clears local state synchronously; it needs no network call to
// succeed.
func (s *Store) Logout(ctx context.Context) {

	s.logger.Info("Logging out")
	s.clearLocal(ctx)
}

// Invalidate is wired to the transport's session-invalidated event. The
// token slot is already cleared by then; only state needs resetting.
func (s *Store) Invalidate(ctx context.Context) {

	s.logger.Warn("Session invalidated by backend")

	if err := s.store.Delete(ctx, storage.KeyUser); err != nil {
		s.logger.Error("Failed to drop cached profile", slog.String("error", err.Error()))
	}

	s.setIdentity(nil)
}

func (s *Store) fetchProfile(ctx context.Context) error {

	var user models.User

	if err := s.api.Get(ctx, "/users/profile", nil, &user); err != nil {
		return err
	}

	if err := s.store.Set(ctx, storage.KeyUser, &user); err != nil {
		s.logger.Warn("Failed to cache profile", slog.String("error", err.Error()))
	}

	s.setIdentity(&user)

	return nil
}

func (s *Store) clearLocal(ctx context.Context) {

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear token", slog.String("error", err.Error()))
	}

	if err := s.store.Delete(ctx, storage.KeyUser); err != nil {
		s.logger.Error("Failed to drop cached profile", slog.String("error", err.Error()))
	}

	s.setIdentity(nil)
}

func (s *Store) setIdentity(user *models.User) {

	s.mu.Lock()
	was := s.state.Authenticated
	s.state.User = user
	s.state.Authenticated = user != nil
	now := s.state.Authenticated
	observers := s.observers
	s.mu.Unlock()

	if was != now {
		for _, obs := range observers {
			obs(now)
		}
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	s.mu.Unlock()
}
