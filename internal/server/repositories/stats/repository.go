package stats

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for accounts that never had stats.
	Get(ctx context.Context, account addrx.Address) (*models.ReferralStats, error)
	Save(ctx context.Context, s *models.ReferralStats) error
}
