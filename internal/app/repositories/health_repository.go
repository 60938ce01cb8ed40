package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/studentapi/internal/db"
)

// HealthRepository checks database reachability
type HealthRepository struct {
	db db.Querier
}

// NewHealthRepository creates a new HealthRepository
func NewHealthRepository(q db.Querier) *HealthRepository {
	return &HealthRepository{db: q}
}

// CheckDatabase runs a trivial query through the pool.
func (r *HealthRepository) CheckDatabase(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
