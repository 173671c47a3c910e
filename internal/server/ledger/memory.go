package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type balanceKey struct {
	asset models.Asset
	who   addrx.Address
}

// TransferHook runs before a transfer is applied. Returning an error
// rejects the transfer.
type TransferHook func(ctx context.Context, asset models.Asset, from, to addrx.Address, amount int64) error

// Memory is an in-process ledger.
type Memory struct {
	mu       sync.Mutex
	balances map[balanceKey]int64

	// BeforeTransfer, if set, is invoked outside the ledger lock so it may
	// call back into the engine the same way a token contract hook would.
	BeforeTransfer TransferHook
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[balanceKey]int64)}
}

// Credit mints amount of asset to who.
func (m *Memory) Credit(ctx context.Context, asset models.Asset, who addrx.Address, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: credit %d", common.ErrInvalidAmount, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balanceKey{asset, who}] += amount
	return nil
}

func (m *Memory) BalanceOf(ctx context.Context, asset models.Asset, who addrx.Address) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[balanceKey{asset, who}], nil
}

func (m *Memory) Transfer(ctx context.Context, asset models.Asset, from, to addrx.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount %d", common.ErrTransferFailed, amount)
	}
	if m.BeforeTransfer != nil {
		if err := m.BeforeTransfer(ctx, asset, from, to, amount); err != nil {
			return fmt.Errorf("%w: %w", common.ErrTransferFailed, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src := balanceKey{asset, from}
	if m.balances[src] < amount {
		return fmt.Errorf("%w: %s balance %d < %d", common.ErrTransferFailed, asset, m.balances[src], amount)
	}
	m.balances[src] -= amount
	m.balances[balanceKey{asset, to}] += amount
	return nil
}
