// Package cart mirrors the authenticated user's server-side cart. Every
// mutation goes through a single refetch-after-write path, so the store
// never reports a view that is inconsistent with the last acknowledged
// mutation.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/models"
)

// Authenticator reports whether a session is active. The cart store never
// talks to the network while it answers false.
type Authenticator interface {
	Authenticated() bool
}

type Store struct {
	mu      sync.Mutex
	api     *client.Client
	auth    Authenticator
	logger  *slog.Logger
	cart    *models.Cart
	loadErr error
	loading bool

	// Monotonic refresh sequencing: a slower refresh that lands after a
	// newer one finished must not overwrite the newer snapshot.
	nextSeq    uint64
	appliedSeq uint64
}

func NewStore(api *client.Client, auth Authenticator, logger *slog.Logger) *Store {

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		api:    api,
		auth:   auth,
		logger: logger,
	}
}

// Cart returns the current snapshot; nil while unauthenticated or before
// the first refresh.
func (s *Store) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart
}

// Err reports the last refresh failure, cleared by the next successful
// refresh.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErr
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// ItemCount is a pure projection of the current snapshot.
func (s *Store) ItemCount() int {

	cart := s.Cart()
	if cart == nil {
		return 0
	}

	return len(cart.CartItems)
}

// Total reports the server-computed selling-price total. The client never
// recomputes it from item prices.
func (s *Store) Total() int {

	cart := s.Cart()
	if cart == nil {
		return 0
	}

	return cart.TotalSellingPrice
}

// Refresh replaces the snapshot wholesale. Unauthenticated callers get an
// immediate empty cart with no network call. A transport failure keeps the
// prior snapshot (stale but present) so the display does not flash empty.
func (s *Store) Refresh(ctx context.Context) error {

	if !s.auth.Authenticated() {
		s.mu.Lock()
		s.cart = nil
		s.loadErr = nil
		// Refreshes still in flight predate the logout; their results must
		// not repopulate the cleared cart.
		s.appliedSeq = s.nextSeq
		s.mu.Unlock()

		return nil
	}

	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.loading = true
	s.mu.Unlock()

	var fetched models.Cart

	err := s.api.Get(ctx, "/cart", nil, &fetched)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false

	if seq <= s.appliedSeq {
		// A newer refresh already landed; drop this result either way.
		s.logger.Debug("Discarding stale cart refresh", slog.Uint64("seq", seq))

		return err
	}

	if err != nil {
		s.logger.Warn("Failed to refresh cart", slog.String("error", err.Error()))
		s.loadErr = fmt.Errorf("failed to load cart: %w", err)

		return err
	}

	s.appliedSeq = seq
	s.cart = &fetched
	s.loadErr = nil

	return nil
}

// AddItem sends the add intent, then refreshes before resolving.
func (s *Store) AddItem(ctx context.Context, productID int64, size string, quantity int) error {

	req := models.AddCartItemRequest{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
	}

	if err := s.api.Put(ctx, "/cart/add", req, nil); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int) error {

	req := models.UpdateCartItemRequest{Quantity: quantity}

	if err := s.api.Put(ctx, "/cart/item/"+strconv.FormatInt(itemID, 10), req, nil); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {

	if err := s.api.Delete(ctx, "/cart/item/"+strconv.FormatInt(itemID, 10)); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// HandleAuthChange is subscribed to the session store: login loads the
// cart, logout clears it.
func (s *Store) HandleAuthChange(authenticated bool) {

	if err := s.Refresh(context.Background()); err != nil {
		s.logger.Warn("Cart refresh after auth change failed",
			slog.Bool("authenticated", authenticated),
			slog.String("error", err.Error()))
	}
}
