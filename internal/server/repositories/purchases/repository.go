package purchases

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Purchase) error
	// TotalUSD sums every purchase the buyer ever made.
	TotalUSD(ctx context.Context, buyer addrx.Address) (int64, error)
}
