package schedules

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound if the buyer has no schedule.
	Get(ctx context.Context, buyer addrx.Address) (*models.VestingSchedule, error)
	Create(ctx context.Context, s *models.VestingSchedule) error
	UpdateClaimed(ctx context.Context, buyer addrx.Address, claimed int64) error
}
