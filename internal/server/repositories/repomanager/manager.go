package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hypesale/internal/server/repositories/access"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/events"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/referrals"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/schedules"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/stats"
)

// Repositories is one consistent view of the engine store. Values obtained
// inside Atomic must not be used after fn returns.
type Repositories interface {
	Access() access.Repository
	Purchases() purchases.Repository
	Schedules() schedules.Repository
	Referrals() referrals.Repository
	Stats() stats.Repository
	Events() events.Repository
}

// Manager runs units of work against the store. Every write fn performs
// inside Atomic becomes visible together, or not at all if fn errors.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Atomic(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
