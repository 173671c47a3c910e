package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/hypesale/internal/server/repositories/memory"
)

// MemoryManager keeps the whole store in a memory.State. Atomic journals
// fn's writes and undoes them when fn fails.
type MemoryManager struct {
	mu    sync.Mutex
	state *memory.State
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{state: memory.NewState()}
}

// RunMigrations is a no-op for the in-memory store.
func (m *MemoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *MemoryManager) Atomic(ctx context.Context, fn func(ctx context.Context, r Repositories) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Begin()
	defer func() {
		if p := recover(); p != nil {
			m.state.Rollback()
			panic(p)
		}
		if err != nil {
			m.state.Rollback()
			return
		}
		m.state.Commit()
	}()

	return fn(ctx, m.state)
}
