package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"desktop-core-service/cmd/api/infrastructure"
	"desktop-core-service/internal/adapter/cache"
	"desktop-core-service/internal/adapter/db/gormrepo"
	ginhandler "desktop-core-service/internal/adapter/gin/handler"
	ginrouter "desktop-core-service/internal/adapter/gin/router"
	"desktop-core-service/internal/adapter/ratelimit"
	"desktop-core-service/internal/adapter/repository/cached"
	"desktop-core-service/internal/config"
	"desktop-core-service/internal/usecase/compute"
	"desktop-core-service/internal/usecase/user"
	redisclient "desktop-core-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserService *user.Usecase
	Compute     *compute.Service
	RateLimiter *ratelimit.Limiter
	Router      *gin.Engine
}

// NewComputeService builds the compute service from cfg. It needs no
// external resources, so the CLI uses it directly.
func NewComputeService(cfg *config.Config, l *zap.Logger) *compute.Service {
	return compute.New(compute.Limits{
		MaxBigFactorial: cfg.Compute.MaxBigFactorial,
		MaxJSONBytes:    cfg.Compute.MaxJSONBytes,
	}, l)
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{Config: cfg, Logger: l, DB: db}

	c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	var repo user.Repository = gormrepo.NewUserRepo(db, l)
	if c.RedisClient != nil {
		userCache := cache.NewRedisUserCache(c.RedisClient.Client, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second, l)
		repo = cached.NewUserRepository(repo, userCache, l)

		if cfg.RateLimit.Enabled {
			c.RateLimiter = ratelimit.New(c.RedisClient.Client, ratelimit.Config{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				Burst:             cfg.RateLimit.BurstCapacity,
			})
		}
	}

	c.UserService = user.New(repo, l)
	c.Compute = NewComputeService(cfg, l)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	c.Router = ginrouter.SetupRouter(ginrouter.Handlers{
		User:    ginhandler.NewUserHandler(c.UserService, l),
		Compute: ginhandler.NewComputeHandler(c.Compute, l),
	}, c.RateLimiter, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := infrastructure.CloseDatabase(c.DB); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	return errors.Join(errs...)
}
