package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
)

// AccessGuard enforces ownership, pause and blacklist rules. Settings are
// passed in by the caller, which loads them once per call.
type AccessGuard struct{}

func NewAccessGuard() *AccessGuard {
	return &AccessGuard{}
}

func (g *AccessGuard) RequireOwner(s *models.Settings, caller addrx.Address) error {
	if caller.IsZero() || caller != s.Owner {
		return fmt.Errorf("%w: %s is not the owner", common.ErrUnauthorized, caller)
	}
	return nil
}

func (g *AccessGuard) RequireSaleContract(s *models.Settings, caller addrx.Address) error {
	if s.SaleContract.IsZero() {
		return common.ErrSaleContractNotDefined
	}
	if caller != s.SaleContract {
		return fmt.Errorf("%w: %s is not the sale contract", common.ErrUnauthorized, caller)
	}
	return nil
}

func (g *AccessGuard) RequireNotPaused(s *models.Settings) error {
	if s.Paused {
		return common.ErrPaused
	}
	return nil
}

func (g *AccessGuard) RequireNotBlacklisted(ctx context.Context, r repomanager.Repositories, addr addrx.Address) error {
	bl, err := r.Access().IsBlacklisted(ctx, addr)
	if err != nil {
		return err
	}
	if bl {
		return fmt.Errorf("%w: %s", common.ErrBlacklisted, addr)
	}
	return nil
}

// SetBlacklisted flags or clears addr. Stats are kept either way.
func (g *AccessGuard) SetBlacklisted(ctx context.Context, r repomanager.Repositories, s *models.Settings, caller, addr addrx.Address, blacklisted bool) error {
	if err := g.RequireOwner(s, caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return fmt.Errorf("%w: zero address", common.ErrInvalidAddress)
	}
	return r.Access().SetBlacklisted(ctx, addr, blacklisted)
}

// DeactivateAccount permanently stops addr from earning and claiming.
func (g *AccessGuard) DeactivateAccount(ctx context.Context, r repomanager.Repositories, s *models.Settings, caller, addr addrx.Address) error {
	if err := g.RequireOwner(s, caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return fmt.Errorf("%w: zero address", common.ErrInvalidAddress)
	}
	st, err := LoadStats(ctx, r, addr)
	if err != nil {
		return err
	}
	st.IsActive = false
	return r.Stats().Save(ctx, st)
}

func (g *AccessGuard) SetSaleContract(ctx context.Context, r repomanager.Repositories, s *models.Settings, caller, sale addrx.Address) error {
	if err := g.RequireOwner(s, caller); err != nil {
		return err
	}
	if sale.IsZero() {
		return fmt.Errorf("%w: zero address", common.ErrInvalidAddress)
	}
	s.SaleContract = sale
	return r.Access().SaveSettings(ctx, s)
}

func (g *AccessGuard) SetPaused(ctx context.Context, r repomanager.Repositories, s *models.Settings, caller addrx.Address, paused bool) error {
	if err := g.RequireOwner(s, caller); err != nil {
		return err
	}
	switch {
	case paused && s.Paused:
		return common.ErrPaused
	case !paused && !s.Paused:
		return common.ErrNotPaused
	}
	s.Paused = paused
	return r.Access().SaveSettings(ctx, s)
}

func (g *AccessGuard) TransferOwnership(ctx context.Context, r repomanager.Repositories, s *models.Settings, caller, newOwner addrx.Address) error {
	if err := g.RequireOwner(s, caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return fmt.Errorf("%w: zero address", common.ErrInvalidAddress)
	}
	s.Owner = newOwner
	return r.Access().SaveSettings(ctx, s)
}
