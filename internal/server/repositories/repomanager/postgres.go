// Package repomanager provides the Manager abstraction the engine writes
// through, with a PostgreSQL implementation (transactions and goose
// migrations) and an in-memory one.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hypesale/internal/dbx"
	"github.com/dmitrijs2005/hypesale/internal/server/migrations"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/access"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/events"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/referrals"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/schedules"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/stats"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresManager runs each unit of work in its own database transaction.
type PostgresManager struct {
	db *sql.DB
}

// postgresRepositories vends repositories bound to one DBTX.
type postgresRepositories struct {
	db dbx.DBTX
}

func (r *postgresRepositories) Access() access.Repository {
	return access.NewPostgresRepository(r.db)
}

func (r *postgresRepositories) Purchases() purchases.Repository {
	return purchases.NewPostgresRepository(r.db)
}

func (r *postgresRepositories) Schedules() schedules.Repository {
	return schedules.NewPostgresRepository(r.db)
}

func (r *postgresRepositories) Referrals() referrals.Repository {
	return referrals.NewPostgresRepository(r.db)
}

func (r *postgresRepositories) Stats() stats.Repository {
	return stats.NewPostgresRepository(r.db)
}

func (r *postgresRepositories) Events() events.Repository {
	return events.NewPostgresRepository(r.db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// Atomic runs fn inside a serializable transaction and commits only if fn
// returns nil. The transaction also travels in fn's context so the asset
// ledger writes through it.
func (m *PostgresManager) Atomic(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	return dbx.WithTx(ctx, m.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(dbx.ContextWithTx(ctx, tx), &postgresRepositories{db: tx})
	})
}

// NewPostgresManager constructs a PostgreSQL-backed Manager.
func NewPostgresManager(db *sql.DB) (Manager, error) {
	return &PostgresManager{db: db}, nil
}
