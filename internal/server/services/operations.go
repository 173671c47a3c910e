package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

// RegisterReferral links referee to referrer.
func (e *Engine) RegisterReferral(ctx context.Context, referee, referrer addrx.Address) (*models.Referral, error) {
	var ref *models.Referral
	err := e.run(ctx, "register_referral", func(ctx context.Context, c *call) error {
		if err := e.guard.RequireNotPaused(c.settings); err != nil {
			return err
		}
		var err error
		if ref, err = e.graph.Register(ctx, c.r, c.settings.Owner, referee, referrer, c.now); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventReferralRegistered, referee, map[string]any{
			"referrer":    ref.Referrer,
			"second_tier": ref.SecondTier,
		})
	})
	if err != nil {
		return nil, err
	}

	e.log.Info(ctx, "referral registered", "referee", referee, "referrer", referrer, "second_tier", ref.SecondTier)
	return ref, nil
}

// Purchase is the sale entrypoint. It creates buyer's vesting schedule and
// credits referrers in one unit of work. Only the sale contract may call it.
func (e *Engine) Purchase(ctx context.Context, caller, buyer addrx.Address, usd int64, bonus bool) (*models.PurchaseReceipt, error) {
	receipt := &models.PurchaseReceipt{}
	err := e.run(ctx, "purchase", func(ctx context.Context, c *call) error {
		if err := e.checkSaleCall(ctx, c, caller, buyer); err != nil {
			return err
		}

		p, sch, err := e.vesting.CreateSchedule(ctx, c.r, buyer, usd, bonus, c.now)
		if err != nil {
			return err
		}
		rec, err := e.rewards.Record(ctx, c.r, buyer, usd, sch.TotalTokens)
		if err != nil {
			return err
		}
		receipt.Purchase, receipt.Schedule, receipt.Rewards = *p, *sch, *rec

		if err := e.emit(ctx, c, models.EventScheduleCreated, buyer, sch); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventPurchaseRecorded, buyer, rec)
	})
	if err != nil {
		return nil, err
	}

	e.recordAccrual(&receipt.Rewards)
	e.log.Info(ctx, "purchase recorded",
		"buyer", buyer, "usd", usd, "tokens", receipt.Schedule.TotalTokens, "bonus", bonus,
		"direct_reward", receipt.Rewards.DirectReward, "second_tier_reward", receipt.Rewards.SecondTierReward)
	return receipt, nil
}

// RecordPurchase accrues referral rewards for a purchase made elsewhere.
// Only the sale contract may call it.
func (e *Engine) RecordPurchase(ctx context.Context, caller, buyer addrx.Address, usd, tokens int64) (*models.PurchaseRecorded, error) {
	var rec *models.PurchaseRecorded
	err := e.run(ctx, "record_purchase", func(ctx context.Context, c *call) error {
		if err := e.checkSaleCall(ctx, c, caller, buyer); err != nil {
			return err
		}
		var err error
		if rec, err = e.rewards.Record(ctx, c.r, buyer, usd, tokens); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventPurchaseRecorded, buyer, rec)
	})
	if err != nil {
		return nil, err
	}

	e.recordAccrual(rec)
	e.log.Info(ctx, "purchase recorded", "buyer", buyer, "usd", usd,
		"direct_reward", rec.DirectReward, "second_tier_reward", rec.SecondTierReward)
	return rec, nil
}

func (e *Engine) checkSaleCall(ctx context.Context, c *call, caller, buyer addrx.Address) error {
	if err := e.guard.RequireSaleContract(c.settings, caller); err != nil {
		return err
	}
	if err := e.guard.RequireNotPaused(c.settings); err != nil {
		return err
	}
	if buyer.IsZero() {
		return fmt.Errorf("%w: zero buyer", common.ErrInvalidAddress)
	}
	return e.guard.RequireNotBlacklisted(ctx, c.r, buyer)
}

func (e *Engine) recordAccrual(rec *models.PurchaseRecorded) {
	e.metrics.PurchaseRecorded(rec.USDAmount)
	if !rec.DirectReferrer.IsZero() {
		e.metrics.RewardCredited(TierDirect, rec.DirectReward, rec.DirectCapped)
	}
	if !rec.SecondTierReferrer.IsZero() {
		e.metrics.RewardCredited(TierSecondTier, rec.SecondTierReward, rec.SecondTierCapped)
	}
}

// ClaimTokens pays buyer everything unlocked so far.
func (e *Engine) ClaimTokens(ctx context.Context, buyer addrx.Address) (*models.TokenClaim, error) {
	var claim *models.TokenClaim
	err := e.run(ctx, "claim_tokens", func(ctx context.Context, c *call) error {
		if err := e.guard.RequireNotPaused(c.settings); err != nil {
			return err
		}
		if err := e.guard.RequireNotBlacklisted(ctx, c.r, buyer); err != nil {
			return err
		}
		var err error
		if claim, err = e.vesting.Claim(ctx, c.r, e.ledger, e.treasury, buyer, c.now); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventTokensClaimed, buyer, claim)
	})
	if err != nil {
		return nil, err
	}

	e.metrics.TokensClaimed(claim.Amount)
	e.log.Info(ctx, "tokens claimed", "buyer", buyer, "amount", claim.Amount)
	return claim, nil
}

// ClaimRewards pays account's pending referral rewards in HYPE when
// preferHype is set, otherwise in the stable asset.
func (e *Engine) ClaimRewards(ctx context.Context, account addrx.Address, preferHype bool) (*models.RewardClaim, error) {
	var claim *models.RewardClaim
	err := e.run(ctx, "claim_rewards", func(ctx context.Context, c *call) error {
		if err := e.guard.RequireNotPaused(c.settings); err != nil {
			return err
		}
		var err error
		if claim, err = e.claims.ClaimRewards(ctx, c.r, e.ledger, e.treasury, account, preferHype); err != nil {
			return err
		}
		return e.emit(ctx, c, models.EventRewardsClaimed, account, claim)
	})
	if err != nil {
		return nil, err
	}

	e.metrics.RewardsClaimed(claim.Asset, claim.Payout)
	e.log.Info(ctx, "rewards claimed", "account", account, "usd", claim.USDValue, "asset", claim.Asset, "payout", claim.Payout)
	return claim, nil
}
