package catalogcache

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/cache"
)

// service holds what every entity service shares.
type service struct {
	store  Store
	rt     *cache.ReadThrough
	inv    Invalidator
	logger *zap.Logger
}

// invalidate applies the fan-out of m minus the keys the caller just wrote.
// Cache failures are logged; the store write already succeeded.
func (s *service) invalidate(ctx context.Context, m cache.Mutation, refreshed ...string) {
	plan := cache.PlanFor(m).Without(refreshed...)
	if plan.Empty() {
		return
	}
	if err := s.inv.Invalidate(ctx, plan); err != nil {
		s.logger.Warn("cache invalidation failed",
			zap.String("level", m.Level.String()),
			zap.String("op", m.Op.String()),
			zap.Stringer("plan", plan),
			zap.Error(err))
	}
}
