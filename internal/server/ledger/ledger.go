// Package ledger adapts the fungible-asset ledger the engine pays out of.
// The engine holds its reserves at the treasury address.
package ledger

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type Ledger interface {
	BalanceOf(ctx context.Context, asset models.Asset, who addrx.Address) (int64, error)
	// Transfer moves amount of asset between holders. Failures wrap
	// common.ErrTransferFailed.
	Transfer(ctx context.Context, asset models.Asset, from, to addrx.Address, amount int64) error
}
