package services

import (
	"context"
	"time"

	"github.com/yigit/studentapi/internal/app/repositories"
)

// HealthCheckTimeout bounds the database round trip of a health check
const HealthCheckTimeout = 3 * time.Second

// DatabaseChecker reports whether storage answers a trivial query.
type DatabaseChecker interface {
	CheckDatabase(ctx context.Context) error
}

var _ DatabaseChecker = (*repositories.HealthRepository)(nil)

// HealthService defines the interface for liveness checks
type HealthService interface {
	CheckDatabase(ctx context.Context) error
}

type healthServiceImpl struct {
	checker DatabaseChecker
}

// NewHealthService creates a new health service instance
func NewHealthService(checker DatabaseChecker) HealthService {
	return &healthServiceImpl{checker: checker}
}

func (s *healthServiceImpl) CheckDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()
	return s.checker.CheckDatabase(ctx)
}
