package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/digitalworld/storefront-client/internal/cart"
	"github.com/digitalworld/storefront-client/internal/catalog"
	"github.com/digitalworld/storefront-client/internal/client"
	"github.com/digitalworld/storefront-client/internal/config"
	"github.com/digitalworld/storefront-client/internal/health"
	"github.com/digitalworld/storefront-client/internal/metrics"
	"github.com/digitalworld/storefront-client/internal/orders"
	"github.com/digitalworld/storefront-client/internal/prefs"
	"github.com/digitalworld/storefront-client/internal/seller"
	"github.com/digitalworld/storefront-client/internal/session"
	"github.com/digitalworld/storefront-client/internal/storage"
	"github.com/digitalworld/storefront-client/internal/token"
	"github.com/digitalworld/storefront-client/internal/tracing"
	"github.com/digitalworld/storefront-client/internal/validation"
)

// app is the composition root: every store is built here and handed its
// collaborators explicitly, no ambient singletons.
type app struct {
	cfg             *config.Config
	store           storage.Store
	validate        *validator.Validate
	customerSession *session.Store
	sellerSession   *session.SellerStore
	cart            *cart.Store
	catalog         *catalog.Service
	orders          *orders.Service
	seller          *seller.Service
	prefs           *prefs.Store
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	ctx := context.Background()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := tracing.Setup(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("Trace flush failed", slog.String("error", err.Error()))
			}
		}()
	}

	store, err := openStorage(cfg)
	if err != nil {
		slog.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Error closing storage", slog.String("error", err.Error()))
		}
	}()

	a := newApp(cfg, store, logger)

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg, store)
	}

	a.prefs.Load(ctx)

	// Resolve both sessions from persisted tokens before any verb runs.
	if err := a.customerSession.Initialize(ctx); err != nil {
		slog.Error("Failed to initialize session", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.sellerSession.Initialize(ctx); err != nil {
		slog.Error("Failed to initialize seller session", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorMessage(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, store storage.Store, logger *slog.Logger) *app {

	a := &app{
		cfg:      cfg,
		store:    store,
		validate: validation.New(),
		prefs:    prefs.NewStore(store),
	}

	customerTokens := token.NewManager(store, token.KindCustomer)
	sellerTokens := token.NewManager(store, token.KindSeller)

	// Each identity kind gets its own client bound to its own token slot;
	// the invalidated event replaces the web client's hard redirect.
	customerAPI := client.New(cfg.API.BaseURL, customerTokens,
		client.WithLogger(logger),
		client.WithTimeout(cfg.API.Timeout),
		client.WithSessionInvalidatedHandler(func(token.Kind) {
			a.customerSession.Invalidate(context.Background())
			fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again.")
		}))

	sellerAPI := client.New(cfg.API.BaseURL, sellerTokens,
		client.WithLogger(logger),
		client.WithTimeout(cfg.API.Timeout),
		client.WithSessionInvalidatedHandler(func(token.Kind) {
			a.sellerSession.Invalidate(context.Background())
			fmt.Fprintln(os.Stderr, "Your seller session has expired. Please log in again.")
		}))

	a.customerSession = session.NewStore(customerAPI, customerTokens, store, logger)
	a.sellerSession = session.NewSellerStore(sellerAPI, sellerTokens, logger)
	a.cart = cart.NewStore(customerAPI, a.customerSession, logger)
	a.catalog = catalog.NewService(customerAPI, logger)
	a.orders = orders.NewService(customerAPI, a.validate)
	a.seller = seller.NewService(sellerAPI, a.validate)

	// Cart follows the authenticated flag: login loads, logout clears.
	a.customerSession.Subscribe(a.cart.HandleAuthChange)

	return a
}

func openStorage(cfg *config.Config) (storage.Store, error) {

	if cfg.RedisConnect.UseRedis() {

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConnect.Host,
			Username: cfg.RedisConnect.Username,
			Password: cfg.RedisConnect.Password,
			DB:       cfg.RedisConnect.DB,
		})

		return storage.NewRedisStore(rdb, "storefront"), nil
	}

	path := cfg.Storage.Path

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("No home directory, storage will not persist")

			return storage.NewMemoryStore(), nil
		}

		path = filepath.Join(home, ".storefront", "storage.json")
	}

	return storage.NewFileStore(path)
}

func serveMetrics(cfg *config.Config, store storage.Store) {

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	if h, err := health.New(cfg, store); err == nil {
		mux.Handle("/status", h.Handler())
	}

	slog.Info("Metrics listener starting", slog.String("address", cfg.Metrics.Addr))

	if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
		slog.Error("Metrics listener failed", slog.String("error", err.Error()))
	}
}
