// Package services contains the sale engine: vesting schedules, the
// two-tier referral graph, capped reward accrual and claim settlement,
// behind one Engine that serialises and atomically commits every call.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/logging"
	"github.com/dmitrijs2005/hypesale/internal/server/ledger"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Recorder receives engine facts for metrics.
type Recorder interface {
	PurchaseRecorded(usd int64)
	RewardCredited(tier string, usd int64, capped bool)
	TokensClaimed(amount int64)
	RewardsClaimed(asset models.Asset, payout int64)
	Rejected(op string, kind string)
}

type nopRecorder struct{}

func (nopRecorder) PurchaseRecorded(int64)             {}
func (nopRecorder) RewardCredited(string, int64, bool) {}
func (nopRecorder) TokensClaimed(int64)                {}
func (nopRecorder) RewardsClaimed(models.Asset, int64) {}
func (nopRecorder) Rejected(string, string)            {}

const (
	TierDirect     = "direct"
	TierSecondTier = "second_tier"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

type inCallKey struct{}

// externalLedger flags the engine busy while a transfer is in flight. A
// transfer may run foreign code that calls back into the engine on a
// context unrelated to the one the engine passed down.
type externalLedger struct {
	ledger.Ledger
	busy *atomic.Bool
}

func (l externalLedger) Transfer(ctx context.Context, asset models.Asset, from, to addrx.Address, amount int64) error {
	l.busy.Store(true)
	defer l.busy.Store(false)
	return l.Ledger.Transfer(ctx, asset, from, to, amount)
}

// Engine is the single entry point to the sale state. Calls are
// serialised; each runs as one unit of work that commits entirely or not
// at all, reads the clock once, and may not be re-entered from within
// itself (for example from an asset-ledger transfer hook).
type Engine struct {
	mu       sync.Mutex
	transfer atomic.Bool

	store    repomanager.Manager
	ledger   ledger.Ledger
	treasury addrx.Address
	params   models.Params

	log     logging.Logger
	metrics Recorder
	now     func() time.Time

	guard   *AccessGuard
	vesting *VestingScheduler
	graph   *ReferralGraph
	rewards *RewardAccrual
	claims  *ClaimSettlement
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine wires the engine over store and l. On first start it persists
// owner and params. Later starts keep the stored owner and refuse params
// that differ from the stored ones.
func NewEngine(ctx context.Context, store repomanager.Manager, l ledger.Ledger, treasury, owner addrx.Address, params models.Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if treasury.IsZero() || owner.IsZero() {
		return nil, fmt.Errorf("%w: treasury and owner are required", common.ErrInvalidAddress)
	}

	graph := NewReferralGraph()
	e := &Engine{
		store:    store,
		treasury: treasury,
		params:   params,
		log:      discardLogger{},
		metrics:  nopRecorder{},
		now:      time.Now,
		guard:    NewAccessGuard(),
		vesting:  NewVestingScheduler(params),
		graph:    graph,
		rewards:  NewRewardAccrual(params, graph),
		claims:   NewClaimSettlement(params),
	}
	e.ledger = externalLedger{Ledger: l, busy: &e.transfer}
	for _, o := range opts {
		o(e)
	}

	err := store.Atomic(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		s, err := r.Access().GetSettings(ctx)
		if errors.Is(err, common.ErrorNotFound) {
			return r.Access().SaveSettings(ctx, &models.Settings{Owner: owner, Params: params})
		}
		if err != nil {
			return err
		}
		if s.Params != params {
			return common.ErrParamsMismatch
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("init engine settings: %w", err)
	}

	return e, nil
}

// call is the state one engine invocation works with.
type call struct {
	r        repomanager.Repositories
	settings *models.Settings
	now      int64
}

// run executes fn as one serialised, atomic engine call named op. Calls
// made from inside another call fail with ErrReentrantCall instead of
// waiting for the lock: those carrying the call's context are recognised
// directly, any other arriving during a ledger transfer is refused too.
func (e *Engine) run(ctx context.Context, op string, fn func(ctx context.Context, c *call) error) error {
	if ctx.Value(inCallKey{}) != nil || e.transfer.Load() {
		e.reject(ctx, op, common.ErrReentrantCall)
		return common.ErrReentrantCall
	}
	ctx = context.WithValue(ctx, inCallKey{}, op)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().Unix()
	err := e.store.Atomic(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		s, err := r.Access().GetSettings(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		return fn(ctx, &call{r: r, settings: s, now: now})
	})
	if err != nil {
		e.reject(ctx, op, err)
		return err
	}
	return nil
}

func (e *Engine) reject(ctx context.Context, op string, err error) {
	kind := common.KindName(err)
	e.metrics.Rejected(op, kind)
	if kind == "internal" {
		e.log.Error(ctx, "engine call failed", "op", op, "error", err)
		return
	}
	e.log.Warn(ctx, "engine call rejected", "op", op, "kind", kind, "error", err)
}

// emit appends an event to the log in the current unit of work.
func (e *Engine) emit(ctx context.Context, c *call, kind models.EventKind, account addrx.Address, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", kind, err)
	}
	return c.r.Events().Append(ctx, &models.Event{
		ID:        uuid.New(),
		Kind:      kind,
		Account:   account,
		Payload:   raw,
		CreatedAt: c.now,
	})
}

// Treasury is the address the engine pays out from.
func (e *Engine) Treasury() addrx.Address {
	return e.treasury
}

type discardLogger struct{}

func (discardLogger) Debug(context.Context, string, ...any) {}
func (discardLogger) Info(context.Context, string, ...any)  {}
func (discardLogger) Warn(context.Context, string, ...any)  {}
func (discardLogger) Error(context.Context, string, ...any) {}
func (d discardLogger) With(...any) logging.Logger          { return d }
