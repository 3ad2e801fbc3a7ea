package infrastructure

import (
	"context"

	"go.uber.org/zap"

	"desktop-core-service/internal/config"
	redisclient "desktop-core-service/pkg/redis"
)

// NewRedisClient connects to Redis when it is enabled. It returns nil, nil
// otherwise.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("Redis disabled, running without cache and rate limiting")
		return nil, nil
	}

	return redisclient.NewClient(ctx, redisclient.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}, l)
}
