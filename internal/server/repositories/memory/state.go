// Package memory is an in-process implementation of every engine
// repository over one explicit State value. It backs development runs and
// engine tests without a database.
package memory

import (
	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/access"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/events"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/referrals"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/schedules"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/stats"
)

// State holds all engine data. Writes made between Begin and Commit are
// journaled so Rollback can undo them; reads cost nothing extra.
type State struct {
	settings  *models.Settings
	blacklist map[addrx.Address]bool
	purchases []models.Purchase
	schedules map[addrx.Address]models.VestingSchedule
	referrals map[addrx.Address]models.Referral
	stats     map[addrx.Address]models.ReferralStats
	events    []models.Event
	seq       int64

	journaling bool
	undo       []func()
}

func NewState() *State {
	return &State{
		blacklist: make(map[addrx.Address]bool),
		schedules: make(map[addrx.Address]models.VestingSchedule),
		referrals: make(map[addrx.Address]models.Referral),
		stats:     make(map[addrx.Address]models.ReferralStats),
	}
}

// Begin starts journaling writes.
func (s *State) Begin() {
	s.journaling = true
	s.undo = s.undo[:0]
}

// Commit keeps every write since Begin.
func (s *State) Commit() {
	s.journaling = false
	clear(s.undo)
	s.undo = s.undo[:0]
}

// Rollback reverts every write since Begin, newest first.
func (s *State) Rollback() {
	for i := len(s.undo) - 1; i >= 0; i-- {
		s.undo[i]()
	}
	s.Commit()
}

func (s *State) record(fn func()) {
	if s.journaling {
		s.undo = append(s.undo, fn)
	}
}

// restoreKey returns an undo step putting m[k] back as it is now.
func restoreKey[K comparable, V any](m map[K]V, k K) func() {
	prev, ok := m[k]
	return func() {
		if ok {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

func (s *State) Access() access.Repository       { return &accessRepo{s} }
func (s *State) Purchases() purchases.Repository { return &purchaseRepo{s} }
func (s *State) Schedules() schedules.Repository { return &scheduleRepo{s} }
func (s *State) Referrals() referrals.Repository { return &referralRepo{s} }
func (s *State) Stats() stats.Repository         { return &statsRepo{s} }
func (s *State) Events() events.Repository       { return &eventRepo{s} }
