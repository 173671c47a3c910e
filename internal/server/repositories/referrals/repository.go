package referrals

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound if the referee never registered.
	Get(ctx context.Context, referee addrx.Address) (*models.Referral, error)
	Create(ctx context.Context, r *models.Referral) error
	// MarkPurchased sets Purchased on the referee's edge.
	MarkPurchased(ctx context.Context, referee addrx.Address) error
	ListByReferrer(ctx context.Context, referrer addrx.Address) ([]models.Referral, error)
}
