package prefs

import (
	"context"
	"sync"

	"github.com/digitalworld/storefront-client/internal/storage"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Store holds the display preferences persisted alongside the session.
type Store struct {
	mu    sync.Mutex
	store storage.Store
	theme Theme
}

func NewStore(store storage.Store) *Store {
	return &Store{
		store: store,
		theme: ThemeLight,
	}
}

// Load reads the persisted theme. A missing or unrecognized value falls
// back to light rather than erroring.
func (s *Store) Load(ctx context.Context) {

	var theme Theme

	found, err := s.store.Get(ctx, storage.KeyTheme, &theme)
	if err != nil || !found {
		return
	}

	if theme != ThemeLight && theme != ThemeDark {
		return
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
}

func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.theme
}

func (s *Store) SetTheme(ctx context.Context, theme Theme) error {

	if theme != ThemeLight && theme != ThemeDark {
		theme = ThemeLight
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	return s.store.Set(ctx, storage.KeyTheme, theme)
}

func (s *Store) Toggle(ctx context.Context) (Theme, error) {

	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}

	return next, s.SetTheme(ctx, next)
}
