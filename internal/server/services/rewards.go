package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/mathx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
)

// RewardAccrual turns recorded purchases into capped, two-tier referral
// rewards.
type RewardAccrual struct {
	params models.Params
	graph  *ReferralGraph
}

func NewRewardAccrual(p models.Params, g *ReferralGraph) *RewardAccrual {
	return &RewardAccrual{params: p, graph: g}
}

// Record credits the buyer's referrers for a purchase of usd. The direct
// referrer's volume always grows, and its referral count grows on the
// referee's first recorded purchase. Rewards go only to
// active, non-blacklisted recipients and are cut to what remains under the
// lifetime cap.
func (a *RewardAccrual) Record(ctx context.Context, r repomanager.Repositories, buyer addrx.Address, usd, tokens int64) (*models.PurchaseRecorded, error) {
	if usd < a.params.MinReferralPurchase {
		return nil, fmt.Errorf("%w: usd=%d below min_referral_purchase=%d", common.ErrPurchaseTooSmall, usd, a.params.MinReferralPurchase)
	}
	if tokens < 0 {
		return nil, fmt.Errorf("%w: tokens=%d", common.ErrInvalidAmount, tokens)
	}

	rec := &models.PurchaseRecorded{Buyer: buyer, USDAmount: usd, TokenAmount: tokens}

	ref, err := a.graph.Referral(ctx, r, buyer)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return rec, nil
	}

	direct, err := LoadStats(ctx, r, ref.Referrer)
	if err != nil {
		return nil, err
	}
	if !ref.Purchased {
		direct.TotalReferred++
		if err := r.Referrals().MarkPurchased(ctx, buyer); err != nil {
			return nil, err
		}
	}
	if direct.TotalVolumeUSD, err = mathx.Add(direct.TotalVolumeUSD, usd); err != nil {
		return nil, fmt.Errorf("%w: volume: %w", common.ErrInvalidAmount, err)
	}
	rec.DirectReferrer = ref.Referrer
	if rec.DirectReward, rec.DirectCapped, err = a.credit(ctx, r, direct, usd, a.params.DirectBps); err != nil {
		return nil, err
	}
	if err := r.Stats().Save(ctx, direct); err != nil {
		return nil, err
	}

	if ref.SecondTier.IsZero() {
		return rec, nil
	}
	second, err := LoadStats(ctx, r, ref.SecondTier)
	if err != nil {
		return nil, err
	}
	rec.SecondTierReferrer = ref.SecondTier
	if rec.SecondTierReward, rec.SecondTierCapped, err = a.credit(ctx, r, second, usd, a.params.SecondTierBps); err != nil {
		return nil, err
	}
	if rec.SecondTierReward > 0 {
		if err := r.Stats().Save(ctx, second); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// credit adds usd*bps/10000 to st, bounded by the cap. It returns the
// delta actually credited and whether the cap reduced it.
func (a *RewardAccrual) credit(ctx context.Context, r repomanager.Repositories, st *models.ReferralStats, usd, bps int64) (int64, bool, error) {
	eligible, err := Eligible(ctx, r, st)
	if err != nil || !eligible {
		return 0, false, err
	}

	reward, err := mathx.Bps(usd, bps)
	if err != nil {
		return 0, false, fmt.Errorf("%w: reward: %w", common.ErrInvalidAmount, err)
	}
	delta := min(reward, max(a.params.MaxRewardCapUSD-st.TotalEarnedUSD, 0))

	st.PendingRewardsUSD += delta
	st.TotalEarnedUSD += delta
	return delta, delta < reward, nil
}

// LoadStats returns account's stats, or fresh active stats if it has none.
func LoadStats(ctx context.Context, r repomanager.Repositories, account addrx.Address) (*models.ReferralStats, error) {
	st, err := r.Stats().Get(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.NewReferralStats(account), nil
		}
		return nil, err
	}
	return st, nil
}

// Eligible reports whether st's account may earn or claim rewards.
func Eligible(ctx context.Context, r repomanager.Repositories, st *models.ReferralStats) (bool, error) {
	if !st.IsActive {
		return false, nil
	}
	bl, err := r.Access().IsBlacklisted(ctx, st.Account)
	if err != nil {
		return false, err
	}
	return !bl, nil
}
