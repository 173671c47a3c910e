package services

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

// Owner-only operations. Every one fails common.ErrUnauthorized for any
// other caller.

func (e *Engine) SetBlacklisted(ctx context.Context, caller, addr addrx.Address, blacklisted bool) error {
	err := e.run(ctx, "set_blacklisted", func(ctx context.Context, c *call) error {
		if err := e.guard.SetBlacklisted(ctx, c.r, c.settings, caller, addr, blacklisted); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventBlacklistUpdated, addr, map[string]any{"blacklisted": blacklisted})
	})
	if err == nil {
		e.log.Info(ctx, "blacklist updated", "account", addr, "blacklisted", blacklisted)
	}
	return err
}

func (e *Engine) DeactivateAccount(ctx context.Context, caller, addr addrx.Address) error {
	err := e.run(ctx, "deactivate_account", func(ctx context.Context, c *call) error {
		if err := e.guard.DeactivateAccount(ctx, c.r, c.settings, caller, addr); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventAccountDeactivated, addr, struct{}{})
	})
	if err == nil {
		e.log.Info(ctx, "account deactivated", "account", addr)
	}
	return err
}

func (e *Engine) SetSaleContract(ctx context.Context, caller, sale addrx.Address) error {
	err := e.run(ctx, "set_sale_contract", func(ctx context.Context, c *call) error {
		if err := e.guard.SetSaleContract(ctx, c.r, c.settings, caller, sale); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventSaleContractUpdated, sale, struct{}{})
	})
	if err == nil {
		e.log.Info(ctx, "sale contract updated", "sale_contract", sale)
	}
	return err
}

func (e *Engine) Pause(ctx context.Context, caller addrx.Address) error {
	return e.setPaused(ctx, caller, true)
}

func (e *Engine) Unpause(ctx context.Context, caller addrx.Address) error {
	return e.setPaused(ctx, caller, false)
}

func (e *Engine) setPaused(ctx context.Context, caller addrx.Address, paused bool) error {
	op, kind := "pause", models.EventPaused
	if !paused {
		op, kind = "unpause", models.EventUnpaused
	}
	err := e.run(ctx, op, func(ctx context.Context, c *call) error {
		if err := e.guard.SetPaused(ctx, c.r, c.settings, caller, paused); err != nil {
			return err
		}
		return e.emit(ctx, c, kind, caller, struct{}{})
	})
	if err == nil {
		e.log.Info(ctx, "pause state changed", "paused", paused)
	}
	return err
}

func (e *Engine) TransferOwnership(ctx context.Context, caller, newOwner addrx.Address) error {
	err := e.run(ctx, "transfer_ownership", func(ctx context.Context, c *call) error {
		if err := e.guard.TransferOwnership(ctx, c.r, c.settings, caller, newOwner); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventOwnershipTransferred, newOwner, map[string]any{"previous_owner": caller})
	})
	if err == nil {
		e.log.Info(ctx, "ownership transferred", "from", caller, "to", newOwner)
	}
	return err
}
