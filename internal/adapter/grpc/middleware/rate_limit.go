package middleware

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"desktop-core-service/internal/adapter/ratelimit"
	"desktop-core-service/pkg/logger"
)

// RateLimit returns a unary interceptor that draws one token per call from
// the bucket of (method, client). Limiter failures let the call through.
func RateLimit(l *ratelimit.Limiter, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		client := clientIP(ctx)

		ok, err := l.Allow(ctx, "grpc:"+info.FullMethod+":"+client)
		if err != nil {
			logger.WithContext(ctx, log).Warn("rate limiter unavailable, allowing request",
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return handler(ctx, req)
		}
		if !ok {
			logger.WithContext(ctx, log).Warn("rate limit exceeded",
				zap.String("client_ip", client),
				zap.String("method", info.FullMethod),
			)
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded: %.2f requests/second, burst %d",
				l.Config().RequestsPerSecond, l.Config().Burst)
		}
		return handler(ctx, req)
	}
}

// clientIP prefers proxy headers over the transport peer.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, h := range []string{"x-forwarded-for", "x-real-ip"} {
			if v := md.Get(h); len(v) > 0 {
				return v[0]
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}
