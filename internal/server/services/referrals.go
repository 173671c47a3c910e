package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
)

// ReferralGraph records who referred whom. Each referee has at most one
// referrer and carries a snapshot of that referrer's own referrer, so
// rewards never propagate beyond two tiers.
type ReferralGraph struct{}

func NewReferralGraph() *ReferralGraph {
	return &ReferralGraph{}
}

// Register links referee to referrer.
func (g *ReferralGraph) Register(ctx context.Context, r repomanager.Repositories, owner, referee, referrer addrx.Address, now int64) (*models.Referral, error) {
	switch {
	case referee.IsZero() || referrer.IsZero():
		return nil, fmt.Errorf("%w: zero address", common.ErrInvalidAddress)
	case referee == referrer:
		return nil, fmt.Errorf("%w: %s", common.ErrSelfReferral, referee)
	case referee == owner:
		return nil, fmt.Errorf("%w: %s", common.ErrOwnerCannotBeReferred, referee)
	}

	if existing, err := r.Referrals().Get(ctx, referee); err == nil {
		return nil, fmt.Errorf("%w: %s already referred by %s", common.ErrAlreadyHasReferrer, referee, existing.Referrer)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	upstream, err := g.DirectReferrer(ctx, r, referrer)
	if err != nil {
		return nil, err
	}
	if upstream == referee {
		return nil, fmt.Errorf("%w: %s is referred by %s", common.ErrCircularReferral, referrer, referee)
	}

	for _, a := range []addrx.Address{referee, referrer} {
		bl, err := r.Access().IsBlacklisted(ctx, a)
		if err != nil {
			return nil, err
		}
		if bl {
			return nil, fmt.Errorf("%w: %s", common.ErrBlacklisted, a)
		}
	}

	ref := &models.Referral{
		Referee:    referee,
		Referrer:   referrer,
		SecondTier: upstream,
		CreatedAt:  now,
	}
	if err := r.Referrals().Create(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// DirectReferrer returns who referred account, or "" if nobody did.
func (g *ReferralGraph) DirectReferrer(ctx context.Context, r repomanager.Repositories, account addrx.Address) (addrx.Address, error) {
	ref, err := r.Referrals().Get(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", err
	}
	return ref.Referrer, nil
}

// Referral returns account's edge, or nil if it was never referred.
func (g *ReferralGraph) Referral(ctx context.Context, r repomanager.Repositories, account addrx.Address) (*models.Referral, error) {
	ref, err := r.Referrals().Get(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ref, nil
}
