package models

import (
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/common"
)

const day = 24 * 60 * 60

// Params is the sale's configuration surface. It is fixed when the engine
// is first deployed and persisted alongside the engine settings.
type Params struct {
	MinPurchaseUSD        int64 `json:"min_purchase_usd"`
	MaxPurchaseUSD        int64 `json:"max_purchase_usd"`
	MinReferralPurchase   int64 `json:"min_referral_purchase"`
	DirectBps             int64 `json:"direct_bps"`
	SecondTierBps         int64 `json:"second_tier_bps"`
	MaxRewardCapUSD       int64 `json:"max_reward_cap_usd"`
	ImmediateBps          int64 `json:"immediate_bps"`
	CliffSeconds          int64 `json:"cliff_seconds"`
	VestingSeconds        int64 `json:"vesting_seconds"`
	BonusBps              int64 `json:"bonus_bps"`
	PriceMultiplier       int64 `json:"price_multiplier"`
	RewardTokenMultiplier int64 `json:"reward_token_multiplier"`
}

// DefaultParams returns the production sale parameters.
func DefaultParams() Params {
	return Params{
		MinPurchaseUSD:        100,
		MaxPurchaseUSD:        500_000,
		MinReferralPurchase:   100,
		DirectBps:             500,
		SecondTierBps:         200,
		MaxRewardCapUSD:       10_000,
		ImmediateBps:          2_000,
		CliffSeconds:          90 * day,
		VestingSeconds:        540 * day,
		BonusBps:              1_000,
		PriceMultiplier:       12_500,
		RewardTokenMultiplier: 12_500,
	}
}

// TotalSeconds is the cliff plus the linear vesting period.
func (p Params) TotalSeconds() int64 {
	return p.CliffSeconds + p.VestingSeconds
}

// Validate rejects parameter sets the engine cannot operate on.
func (p Params) Validate() error {
	bps := map[string]int64{
		"direct_bps":      p.DirectBps,
		"second_tier_bps": p.SecondTierBps,
		"immediate_bps":   p.ImmediateBps,
		"bonus_bps":       p.BonusBps,
	}
	for name, v := range bps {
		if v < 0 || v > common.BpsBase {
			return fmt.Errorf("%w: %s=%d", common.ErrInvalidParams, name, v)
		}
	}

	switch {
	case p.MinPurchaseUSD <= 0:
		return fmt.Errorf("%w: min_purchase_usd=%d", common.ErrInvalidParams, p.MinPurchaseUSD)
	case p.MaxPurchaseUSD < p.MinPurchaseUSD:
		return fmt.Errorf("%w: max_purchase_usd=%d < min_purchase_usd=%d", common.ErrInvalidParams, p.MaxPurchaseUSD, p.MinPurchaseUSD)
	case p.MinReferralPurchase < 0 || p.MinReferralPurchase > p.MinPurchaseUSD:
		return fmt.Errorf("%w: min_referral_purchase=%d", common.ErrInvalidParams, p.MinReferralPurchase)
	case p.MaxRewardCapUSD < 0:
		return fmt.Errorf("%w: max_reward_cap_usd=%d", common.ErrInvalidParams, p.MaxRewardCapUSD)
	case p.CliffSeconds < 0:
		return fmt.Errorf("%w: cliff_seconds=%d", common.ErrInvalidParams, p.CliffSeconds)
	case p.VestingSeconds <= 0:
		return fmt.Errorf("%w: vesting_seconds=%d", common.ErrInvalidParams, p.VestingSeconds)
	case p.PriceMultiplier <= 0:
		return fmt.Errorf("%w: price_multiplier=%d", common.ErrInvalidParams, p.PriceMultiplier)
	case p.RewardTokenMultiplier <= 0:
		return fmt.Errorf("%w: reward_token_multiplier=%d", common.ErrInvalidParams, p.RewardTokenMultiplier)
	}

	return nil
}
