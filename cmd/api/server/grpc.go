package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"desktop-core-service/internal/adapter/grpc/middleware"
	"desktop-core-service/internal/adapter/ratelimit"
	"desktop-core-service/pkg/logger"
)

// SetupGRPC creates the gRPC server with the health and reflection services.
// A nil limiter leaves rate limiting out of the interceptor chain.
func SetupGRPC(limiter *ratelimit.Limiter, l *zap.Logger) (*grpc.Server, *health.Server) {
	interceptors := []grpc.UnaryServerInterceptor{logger.RequestIDInterceptor()}
	if limiter != nil {
		interceptors = append(interceptors, middleware.RateLimit(limiter, l))
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv, hs
}
