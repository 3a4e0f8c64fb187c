// Package client builds the shared HTTP client used for Ethos API calls.
package client

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/circuitbreaker"
	axonetRedis "github.com/jaxron/axonet/middleware/redis"
	"github.com/jaxron/axonet/middleware/retry"
	"github.com/jaxron/axonet/middleware/singleflight"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/jaxron/axonet/pkg/client/middleware"
	"github.com/revlyx/revector/internal/ethos"
	"github.com/revlyx/revector/internal/redis"
	"github.com/revlyx/revector/internal/setup/config"
	"go.uber.org/zap"
)

// GetEthosClient constructs the Ethos API client with a middleware chain for
// reliability and response caching.
func GetEthosClient(
	cfg *config.CommonConfig, redisManager *redis.Manager, zapLogger *zap.Logger,
	requestTimeout time.Duration,
) (*ethos.Client, error) {
	// Redis-backed response cache keeps repeat lookups off the API.
	cacheClient, err := redisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, err
	}

	cacheTTL := time.Duration(cfg.Ethos.CacheTTL) * time.Minute
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}

	// Build middleware chain - order matters!
	middlewares := []middleware.Middleware{
		circuitbreaker.New(
			cfg.CircuitBreaker.MaxRequests,
			time.Duration(cfg.CircuitBreaker.Interval)*time.Millisecond,
			time.Duration(cfg.CircuitBreaker.Timeout)*time.Millisecond,
		),
		retry.New(
			cfg.Retry.MaxRetries,
			time.Duration(cfg.Retry.Delay)*time.Millisecond,
			time.Duration(cfg.Retry.MaxDelay)*time.Millisecond,
		),
		singleflight.New(),
		axonetRedis.New(cacheClient, cacheTTL),
	}

	httpClient := client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithLogger(NewLogger(zapLogger)),
		client.WithTimeout(requestTimeout),
		client.WithMiddleware(middlewares...),
	)

	return ethos.NewClient(httpClient, cfg.Ethos.BaseURL), nil
}
