package health

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"

	"github.com/digitalworld/storefront-client/internal/config"
	"github.com/digitalworld/storefront-client/internal/storage"
)

// New builds the checks behind the CLI status command: backend
// reachability, the redis session store when configured, and local
// storage writability.
func New(cfg *config.Config, store storage.Store) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   5 * time.Second,
			SkipOnErr: false,
			Check: healthHTTP.New(healthHTTP.Config{
				URL: cfg.API.BaseURL + "/products",
			}),
		},
		{
			Name:      "storage",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: func(ctx context.Context) error {

				probe := time.Now().UTC().Format(time.RFC3339Nano)

				if err := store.Set(ctx, "health_probe", probe); err != nil {
					return fmt.Errorf("storage write failed: %w", err)
				}

				return store.Delete(ctx, "health_probe")
			},
		},
	}

	if cfg.RedisConnect.UseRedis() {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(
				healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				},
			),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{

			Name:    "storefront-client",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
