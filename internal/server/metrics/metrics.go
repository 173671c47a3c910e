// Package metrics exposes sale engine facts as Prometheus collectors.
package metrics

import (
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hypesale"

// Collectors implements services.Recorder on its own registry, so tests and
// several engines in one process never collide on the default registerer.
type Collectors struct {
	registry *prometheus.Registry

	purchases      prometheus.Counter
	purchaseVolume prometheus.Counter
	rewardsUSD     *prometheus.CounterVec
	cappedAccruals *prometheus.CounterVec
	tokensClaimed  prometheus.Counter
	claims         *prometheus.CounterVec
	payouts        *prometheus.CounterVec
	rejected       *prometheus.CounterVec
}

func New() *Collectors {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collectors{
		registry: reg,
		purchases: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Number of recorded purchases",
		}),
		purchaseVolume: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_volume_usd_total",
			Help:      "Whole USD across recorded purchases",
		}),
		rewardsUSD: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reward_usd_credited_total",
			Help:      "Referral reward USD credited after the cap",
		}, []string{"tier"}),
		cappedAccruals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capped_accruals_total",
			Help:      "Reward accruals cut by the lifetime cap",
		}, []string{"tier"}),
		tokensClaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vested_tokens_claimed_total",
			Help:      "Vested tokens paid out",
		}),
		claims: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Successful claims",
		}, []string{"kind"}),
		payouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reward_payout_tokens_total",
			Help:      "Reward payouts per asset",
		}, []string{"asset"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_calls_total",
			Help:      "Engine calls that failed",
		}, []string{"op", "kind"}),
	}
}

// Registry is the gatherer to expose over HTTP.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collectors) PurchaseRecorded(usd int64) {
	c.purchases.Inc()
	c.purchaseVolume.Add(float64(usd))
}

func (c *Collectors) RewardCredited(tier string, usd int64, capped bool) {
	c.rewardsUSD.WithLabelValues(tier).Add(float64(usd))
	if capped {
		c.cappedAccruals.WithLabelValues(tier).Inc()
	}
}

func (c *Collectors) TokensClaimed(amount int64) {
	c.claims.WithLabelValues("tokens").Inc()
	c.tokensClaimed.Add(float64(amount))
}

func (c *Collectors) RewardsClaimed(asset models.Asset, payout int64) {
	c.claims.WithLabelValues("rewards").Inc()
	c.payouts.WithLabelValues(string(asset)).Add(float64(payout))
}

func (c *Collectors) Rejected(op string, kind string) {
	c.rejected.WithLabelValues(op, kind).Inc()
}
