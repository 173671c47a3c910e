package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/mathx"
	"github.com/dmitrijs2005/hypesale/internal/server/ledger"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// VestingScheduler creates per-buyer unlock schedules and pays out what
// has unlocked.
type VestingScheduler struct {
	params models.Params
}

func NewVestingScheduler(p models.Params) *VestingScheduler {
	return &VestingScheduler{params: p}
}

// CreateSchedule records buyer's purchase of usd and the schedule that
// releases the purchased tokens.
func (v *VestingScheduler) CreateSchedule(ctx context.Context, r repomanager.Repositories, buyer addrx.Address, usd int64, bonus bool, now int64) (*models.Purchase, *models.VestingSchedule, error) {
	if _, err := r.Schedules().Get(ctx, buyer); err == nil {
		return nil, nil, fmt.Errorf("%w: %s", common.ErrAlreadyPurchased, buyer)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, err
	}

	if usd < v.params.MinPurchaseUSD {
		return nil, nil, fmt.Errorf("%w: usd=%d below min_purchase_usd=%d", common.ErrPurchaseOutOfRange, usd, v.params.MinPurchaseUSD)
	}
	spent, err := r.Purchases().TotalUSD(ctx, buyer)
	if err != nil {
		return nil, nil, err
	}
	lifetime, err := mathx.Add(spent, usd)
	if err != nil || lifetime > v.params.MaxPurchaseUSD {
		return nil, nil, fmt.Errorf("%w: lifetime usd=%d+%d above max_purchase_usd=%d", common.ErrPurchaseOutOfRange, spent, usd, v.params.MaxPurchaseUSD)
	}

	total, err := v.tokensFor(usd, bonus)
	if err != nil {
		return nil, nil, err
	}
	immediate, err := mathx.Bps(total, v.params.ImmediateBps)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: immediate tokens: %w", common.ErrInvalidAmount, err)
	}

	cliffEnd := now + v.params.CliffSeconds
	sch := &models.VestingSchedule{
		Buyer:           buyer,
		TotalTokens:     total,
		ImmediateTokens: immediate,
		VestedTokens:    total - immediate,
		PurchasedAt:     now,
		CliffEnd:        cliffEnd,
		VestingEnd:      cliffEnd + v.params.VestingSeconds,
	}
	p := &models.Purchase{
		ID:          uuid.New(),
		Buyer:       buyer,
		USDAmount:   usd,
		TokenAmount: total,
		Bonus:       bonus,
		PurchasedAt: now,
	}

	if err := r.Schedules().Create(ctx, sch); err != nil {
		return nil, nil, err
	}
	if err := r.Purchases().Create(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, sch, nil
}

func (v *VestingScheduler) tokensFor(usd int64, bonus bool) (int64, error) {
	base, err := mathx.Mul(usd, v.params.PriceMultiplier)
	if err != nil {
		return 0, fmt.Errorf("%w: usd=%d: %w", common.ErrInvalidAmount, usd, err)
	}
	if !bonus {
		return base, nil
	}
	extra, err := mathx.Bps(base, v.params.BonusBps)
	if err != nil {
		return 0, fmt.Errorf("%w: bonus: %w", common.ErrInvalidAmount, err)
	}
	total, err := mathx.Add(base, extra)
	if err != nil {
		return 0, fmt.Errorf("%w: bonus: %w", common.ErrInvalidAmount, err)
	}
	return total, nil
}

// Claim transfers everything unlocked and not yet claimed from treasury to
// the buyer. The claimed counter is written before the transfer.
func (v *VestingScheduler) Claim(ctx context.Context, r repomanager.Repositories, l ledger.Ledger, treasury, buyer addrx.Address, now int64) (*models.TokenClaim, error) {
	sch, err := r.Schedules().Get(ctx, buyer)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %s has no schedule", common.ErrNothingToClaim, buyer)
		}
		return nil, err
	}

	available := UnlockedAmount(sch, now) - sch.ClaimedTokens
	if available <= 0 {
		return nil, common.ErrNothingToClaim
	}

	balance, err := l.BalanceOf(ctx, models.AssetHype, treasury)
	if err != nil {
		return nil, err
	}
	if balance < available {
		return nil, fmt.Errorf("%w: %s balance %d < %d", common.ErrInsufficientLiquidity, models.AssetHype, balance, available)
	}

	if err := r.Schedules().UpdateClaimed(ctx, buyer, sch.ClaimedTokens+available); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, models.AssetHype, treasury, buyer, available); err != nil {
		return nil, err
	}

	return &models.TokenClaim{Buyer: buyer, Amount: available}, nil
}

// UnlockedAmount is the cumulative number of tokens sch has released at
// now. It is non-decreasing in now and reaches TotalTokens at VestingEnd.
// The linear part truncates toward zero.
func UnlockedAmount(sch *models.VestingSchedule, now int64) int64 {
	switch {
	case now < sch.CliffEnd:
		return sch.ImmediateTokens
	case now >= sch.VestingEnd:
		return sch.TotalTokens
	}
	// 0 <= elapsed < duration keeps the quotient below VestedTokens.
	released, _ := mathx.MulDiv(sch.VestedTokens, now-sch.CliffEnd, sch.VestingEnd-sch.CliffEnd)
	return sch.ImmediateTokens + released
}

// Phase reports where sch is on its unlock curve at now.
func Phase(sch *models.VestingSchedule, now int64) models.VestingPhase {
	switch {
	case sch == nil:
		return models.PhaseUnpurchased
	case now < sch.CliffEnd:
		return models.PhaseCliff
	case now < sch.VestingEnd:
		return models.PhaseVesting
	default:
		return models.PhaseFullyUnlocked
	}
}

// ProgressBps is the elapsed share of the whole schedule, capped at 10000.
func ProgressBps(sch *models.VestingSchedule, now int64) int64 {
	elapsed := now - sch.PurchasedAt
	total := sch.VestingEnd - sch.PurchasedAt
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= total:
		return common.BpsBase
	}
	p, _ := mathx.MulDiv(elapsed, common.BpsBase, total)
	return p
}

// Info builds the read model for buyer at now. A nil sch yields an
// unpurchased, all-zero view.
func Info(buyer addrx.Address, sch *models.VestingSchedule, now int64) *models.VestingInfo {
	if sch == nil {
		return &models.VestingInfo{Buyer: buyer, Phase: models.PhaseUnpurchased}
	}
	unlocked := UnlockedAmount(sch, now)
	return &models.VestingInfo{
		Buyer:           buyer,
		TotalTokens:     sch.TotalTokens,
		ImmediateTokens: sch.ImmediateTokens,
		VestedTokens:    sch.VestedTokens,
		ClaimedTokens:   sch.ClaimedTokens,
		UnlockedTokens:  unlocked,
		ClaimableTokens: unlocked - sch.ClaimedTokens,
		CliffEnd:        sch.CliffEnd,
		VestingEnd:      sch.VestingEnd,
		ProgressBps:     ProgressBps(sch, now),
		Phase:           Phase(sch, now),
	}
}
