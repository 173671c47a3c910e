// Package server wires configuration, storage, the sale engine and its
// gRPC and HTTP front ends into one process, and runs them until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/logging"
	"github.com/dmitrijs2005/hypesale/internal/server/archive"
	"github.com/dmitrijs2005/hypesale/internal/server/config"
	"github.com/dmitrijs2005/hypesale/internal/server/httpapi"
	"github.com/dmitrijs2005/hypesale/internal/server/ledger"
	"github.com/dmitrijs2005/hypesale/internal/server/metrics"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hypesale/internal/server/services"

	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/hypesale/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDB is a test seam for sql.Open with the pgx driver.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	engine   *services.Engine
	metrics  *metrics.Collectors
	exporter gs.AuditExporter
	db       *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	owner, err := addrx.Parse(c.OwnerAddress)
	if err != nil {
		return nil, fmt.Errorf("owner address: %w", err)
	}
	treasury, err := addrx.Parse(c.TreasuryAddress)
	if err != nil {
		return nil, fmt.Errorf("treasury address: %w", err)
	}

	app := &App{config: c, logger: logger, metrics: metrics.New()}

	store, l, err := app.openStorage(ctx, treasury)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.engine, err = services.NewEngine(ctx, store, l, treasury, owner, c.Params,
		services.WithLogger(logger),
		services.WithRecorder(app.metrics),
	)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("engine init error: %w", err)
	}

	if c.S3Bucket != "" {
		exp, err := archive.NewS3Exporter(ctx, archive.Options{
			Bucket:    c.S3Bucket,
			Prefix:    c.S3Prefix,
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("audit exporter init error: %w", err)
		}
		app.exporter = exp
	}

	return app, nil
}

// openStorage picks PostgreSQL when a DSN is configured and the in-memory
// store otherwise. The in-memory ledger starts with the dev treasury
// balances.
func (app *App) openStorage(ctx context.Context, treasury addrx.Address) (repomanager.Manager, ledger.Ledger, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database DSN configured, state will not survive a restart")

		l := ledger.NewMemory()
		seed := map[models.Asset]int64{
			models.AssetHype:   app.config.DevTreasuryHype,
			models.AssetStable: app.config.DevTreasuryStable,
		}
		for asset, amount := range seed {
			if amount == 0 {
				continue
			}
			if err := l.Credit(ctx, asset, treasury, amount); err != nil {
				return nil, nil, fmt.Errorf("seed treasury: %w", err)
			}
		}
		return repomanager.NewMemoryManager(), l, nil
	}

	db, err := openDB(app.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	app.db = db

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	store, err := repomanager.NewPostgresManager(db)
	if err != nil {
		return nil, nil, fmt.Errorf("repository manager error: %w", err)
	}
	if err := store.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return store, ledger.NewPostgres(db), nil
}

func (app *App) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close", "error", err)
		}
		app.db = nil
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves gRPC and HTTP until ctx is cancelled, a signal arrives or
// either server fails. The first server error stops the other one and is
// returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.engine, app.exporter, app.config.SecretKey)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.engine, app.metrics.Registry())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(context.Background(), "App stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
