package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"desktop-core-service/cmd/api/di"
	"desktop-core-service/cmd/api/server"
	"desktop-core-service/internal/config"
	"desktop-core-service/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New wires the container and servers for cfg.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container.Router, container.RateLimiter),
		Container: container,
	}, nil
}

// Run serves until ctx is canceled, then releases the container's resources.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.Env),
	)

	runErr := a.Server.Run(ctx)

	var closeErr error
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("failed to close container", zap.Error(err))
		closeErr = fmt.Errorf("container close: %w", err)
	}

	a.Logger.Info("application shutdown complete")
	return errors.Join(runErr, closeErr)
}

// NewLogger builds the application logger from cfg.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.Env,
	})
}
