package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

// Read-only views. They go through the same serialised path as writes so
// every view reflects whole calls only.

func (e *Engine) UnlockedAmount(ctx context.Context, buyer addrx.Address) (int64, error) {
	info, err := e.VestingInfo(ctx, buyer)
	if err != nil {
		return 0, err
	}
	return info.UnlockedTokens, nil
}

func (e *Engine) VestingInfo(ctx context.Context, buyer addrx.Address) (*models.VestingInfo, error) {
	var info *models.VestingInfo
	err := e.run(ctx, "vesting_info", func(ctx context.Context, c *call) error {
		sch, err := c.r.Schedules().Get(ctx, buyer)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		info = Info(buyer, sch, c.now)
		return nil
	})
	return info, err
}

// ReferralStats returns account's stats. IsActive reports the stored flag
// combined with the blacklist.
func (e *Engine) ReferralStats(ctx context.Context, account addrx.Address) (*models.ReferralStatsView, error) {
	var view *models.ReferralStatsView
	err := e.run(ctx, "referral_stats", func(ctx context.Context, c *call) error {
		st, err := LoadStats(ctx, c.r, account)
		if err != nil {
			return err
		}
		bl, err := c.r.Access().IsBlacklisted(ctx, account)
		if err != nil {
			return err
		}
		ref, err := e.graph.Referral(ctx, c.r, account)
		if err != nil {
			return err
		}

		view = &models.ReferralStatsView{ReferralStats: *st, Blacklisted: bl}
		view.IsActive = st.IsActive && !bl
		if ref != nil {
			view.DirectReferrer, view.SecondTierReferrer = ref.Referrer, ref.SecondTier
		}
		return nil
	})
	return view, err
}

func (e *Engine) PendingRewards(ctx context.Context, account addrx.Address) (*models.PendingRewards, error) {
	var pending *models.PendingRewards
	err := e.run(ctx, "pending_rewards", func(ctx context.Context, c *call) error {
		st, err := LoadStats(ctx, c.r, account)
		if err != nil {
			return err
		}
		pending, err = e.claims.Quote(account, st.PendingRewardsUSD)
		return err
	})
	return pending, err
}

// Referees lists the accounts directly referred by referrer, oldest first.
func (e *Engine) Referees(ctx context.Context, referrer addrx.Address) ([]models.Referral, error) {
	var refs []models.Referral
	err := e.run(ctx, "referees", func(ctx context.Context, c *call) error {
		var err error
		refs, err = c.r.Referrals().ListByReferrer(ctx, referrer)
		return err
	})
	return refs, err
}

func (e *Engine) Status(ctx context.Context) (*models.Status, error) {
	var st *models.Status
	err := e.run(ctx, "status", func(ctx context.Context, c *call) error {
		st = &models.Status{
			Owner:        c.settings.Owner,
			SaleContract: c.settings.SaleContract,
			Paused:       c.settings.Paused,
			Params:       c.settings.Params,
		}
		return nil
	})
	return st, err
}

// Events returns up to limit events after afterSeq. A non-positive limit
// selects the default page size.
func (e *Engine) Events(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	switch {
	case limit <= 0:
		limit = defaultEventsLimit
	case limit > maxEventsLimit:
		limit = maxEventsLimit
	}
	var events []models.Event
	err := e.run(ctx, "events", func(ctx context.Context, c *call) error {
		var err error
		events, err = c.r.Events().ListAfter(ctx, afterSeq, limit)
		return err
	})
	return events, err
}
