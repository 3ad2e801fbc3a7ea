// Package compute exposes the numeric, text and structured-data helpers to
// the transport layer, adding input limits and request logging.
package compute

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"desktop-core-service/internal/domain/numeric"
	"desktop-core-service/internal/domain/text"
	apperrors "desktop-core-service/pkg/errors"
	"desktop-core-service/pkg/logger"
	"desktop-core-service/pkg/structured"
)

// Limits bounds the inputs the service accepts.
type Limits struct {
	MaxBigFactorial uint64
	MaxJSONBytes    int
}

// Service is safe for concurrent use.
type Service struct {
	limits Limits
	log    *zap.Logger
}

func New(limits Limits, log *zap.Logger) *Service {
	return &Service{limits: limits, log: log}
}

func (s *Service) Limits() Limits {
	return s.limits
}

// Factorial returns n! for n <= numeric.MaxFactorialInput.
func (s *Service) Factorial(ctx context.Context, n uint64) (uint64, error) {
	r, err := numeric.Factorial(n)
	if errors.Is(err, numeric.ErrOverflow) {
		logger.WithContext(ctx, s.log).Debug("factorial overflow", zap.Uint64("n", n))
		return 0, apperrors.NewValidationError("n",
			fmt.Sprintf("n must be at most %d, use the big variant for larger inputs", numeric.MaxFactorialInput))
	}
	return r, err
}

// FactorialBig returns n! with arbitrary precision.
func (s *Service) FactorialBig(ctx context.Context, n uint64) (*big.Int, error) {
	if n > s.limits.MaxBigFactorial {
		logger.WithContext(ctx, s.log).Debug("big factorial input too large", zap.Uint64("n", n))
		return nil, apperrors.NewValidationError("n", fmt.Sprintf("n must be at most %d", s.limits.MaxBigFactorial))
	}
	r, err := numeric.FactorialBig(n)
	if errors.Is(err, numeric.ErrInputRange) {
		return nil, apperrors.NewValidationError("n", err.Error())
	}
	return r, err
}

func (s *Service) IsPrime(_ context.Context, n uint64) bool {
	return numeric.IsPrime(n)
}

func (s *Service) Uppercase(_ context.Context, in string) string {
	return text.Uppercase(in)
}

func (s *Service) Greet(_ context.Context, name string) string {
	return text.Greet(name)
}

// Add wraps on int32 overflow.
func (s *Service) Add(_ context.Context, a, b int32) int32 {
	return numeric.Add(a, b)
}

// ParseJSON parses data as a structured value. Inputs over the configured
// size are rejected before parsing.
func (s *Service) ParseJSON(ctx context.Context, data []byte) (*structured.Value, error) {
	log := logger.WithContext(ctx, s.log)

	if len(data) > s.limits.MaxJSONBytes {
		log.Warn("json input too large", zap.Int("size", len(data)), zap.Int("max", s.limits.MaxJSONBytes))
		return nil, apperrors.NewValidationError("body", fmt.Sprintf("input exceeds %d bytes", s.limits.MaxJSONBytes))
	}

	v, err := structured.Parse(string(data))
	if err != nil {
		log.Debug("json parse failed", zap.Error(err))
		return nil, err
	}
	return v, nil
}
