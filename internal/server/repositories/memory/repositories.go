package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
)

type accessRepo struct{ s *State }

func (r *accessRepo) GetSettings(ctx context.Context) (*models.Settings, error) {
	if r.s.settings == nil {
		return nil, common.ErrorNotFound
	}
	settings := *r.s.settings
	return &settings, nil
}

func (r *accessRepo) SaveSettings(ctx context.Context, settings *models.Settings) error {
	prev := r.s.settings
	r.s.record(func() { r.s.settings = prev })
	c := *settings
	r.s.settings = &c
	return nil
}

func (r *accessRepo) IsBlacklisted(ctx context.Context, addr addrx.Address) (bool, error) {
	return r.s.blacklist[addr], nil
}

func (r *accessRepo) SetBlacklisted(ctx context.Context, addr addrx.Address, blacklisted bool) error {
	r.s.record(restoreKey(r.s.blacklist, addr))
	if blacklisted {
		r.s.blacklist[addr] = true
	} else {
		delete(r.s.blacklist, addr)
	}
	return nil
}

type purchaseRepo struct{ s *State }

func (r *purchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	n := len(r.s.purchases)
	r.s.record(func() { r.s.purchases = r.s.purchases[:n] })
	r.s.purchases = append(r.s.purchases, *p)
	return nil
}

func (r *purchaseRepo) TotalUSD(ctx context.Context, buyer addrx.Address) (int64, error) {
	var total int64
	for _, p := range r.s.purchases {
		if p.Buyer == buyer {
			total += p.USDAmount
		}
	}
	return total, nil
}

type scheduleRepo struct{ s *State }

func (r *scheduleRepo) Get(ctx context.Context, buyer addrx.Address) (*models.VestingSchedule, error) {
	sch, ok := r.s.schedules[buyer]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &sch, nil
}

func (r *scheduleRepo) Create(ctx context.Context, sch *models.VestingSchedule) error {
	if _, ok := r.s.schedules[sch.Buyer]; ok {
		return fmt.Errorf("schedule for %s already exists", sch.Buyer)
	}
	r.s.record(restoreKey(r.s.schedules, sch.Buyer))
	r.s.schedules[sch.Buyer] = *sch
	return nil
}

func (r *scheduleRepo) UpdateClaimed(ctx context.Context, buyer addrx.Address, claimed int64) error {
	sch, ok := r.s.schedules[buyer]
	if !ok {
		return common.ErrorNotFound
	}
	r.s.record(restoreKey(r.s.schedules, buyer))
	sch.ClaimedTokens = claimed
	r.s.schedules[buyer] = sch
	return nil
}

type referralRepo struct{ s *State }

func (r *referralRepo) Get(ctx context.Context, referee addrx.Address) (*models.Referral, error) {
	ref, ok := r.s.referrals[referee]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &ref, nil
}

func (r *referralRepo) Create(ctx context.Context, ref *models.Referral) error {
	if _, ok := r.s.referrals[ref.Referee]; ok {
		return fmt.Errorf("referral for %s already exists", ref.Referee)
	}
	r.s.record(restoreKey(r.s.referrals, ref.Referee))
	r.s.referrals[ref.Referee] = *ref
	return nil
}

func (r *referralRepo) MarkPurchased(ctx context.Context, referee addrx.Address) error {
	ref, ok := r.s.referrals[referee]
	if !ok {
		return common.ErrorNotFound
	}
	r.s.record(restoreKey(r.s.referrals, referee))
	ref.Purchased = true
	r.s.referrals[referee] = ref
	return nil
}

func (r *referralRepo) ListByReferrer(ctx context.Context, referrer addrx.Address) ([]models.Referral, error) {
	var result []models.Referral
	for _, ref := range r.s.referrals {
		if ref.Referrer == referrer {
			result = append(result, ref)
		}
	}
	slices.SortFunc(result, func(a, b models.Referral) int {
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt < b.CreatedAt {
				return -1
			}
			return 1
		}
		return strings.Compare(string(a.Referee), string(b.Referee))
	})
	return result, nil
}

type statsRepo struct{ s *State }

func (r *statsRepo) Get(ctx context.Context, account addrx.Address) (*models.ReferralStats, error) {
	st, ok := r.s.stats[account]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &st, nil
}

func (r *statsRepo) Save(ctx context.Context, st *models.ReferralStats) error {
	r.s.record(restoreKey(r.s.stats, st.Account))
	r.s.stats[st.Account] = *st
	return nil
}

type eventRepo struct{ s *State }

func (r *eventRepo) Append(ctx context.Context, e *models.Event) error {
	n, seq := len(r.s.events), r.s.seq
	r.s.record(func() { r.s.events, r.s.seq = r.s.events[:n], seq })
	r.s.seq++
	e.Seq = r.s.seq
	r.s.events = append(r.s.events, *e)
	return nil
}

func (r *eventRepo) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	var result []models.Event
	for _, e := range r.s.events {
		if len(result) >= limit {
			break
		}
		if e.Seq > afterSeq {
			result = append(result, e)
		}
	}
	return result, nil
}
