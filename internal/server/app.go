// Package server wires the development canister: storage, the merchant
// service, the gRPC endpoint and the development identity provider, and runs
// them until a shutdown signal arrives.
package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/server/config"
	"github.com/dmitrijs2005/merchantdash/internal/server/idp"
	"github.com/dmitrijs2005/merchantdash/internal/server/merchants"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/merchantdash/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	provider *idp.Provider
	grpc     *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(out, c.LogLevel, logging.FormatJSON)
	if err != nil {
		return nil, err
	}

	seed, err := providerSeed(c.ProviderSeed)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(seed)
	if c.ProviderSeed == "" {
		logger.Warn(ctx, "no provider seed configured, delegations will not survive a restart")
	}

	app := &App{config: c, logger: logger}

	var repo merchants.Repository
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "using in-memory storage")
		repo = merchants.NewMemoryRepository(c.LogCap)
	} else {
		db, err := merchants.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		repo = merchants.NewPostgresRepository(db)
	}

	provider, err := idp.New(c.IdentityAddr, seed, c.DelegationTTL, logger)
	if err != nil {
		app.close()
		return nil, err
	}
	app.provider = provider

	svc := merchants.NewService(repo, c.LogCap)
	app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, svc, provider.PublicKey())

	return app, nil
}

func providerSeed(s string) ([]byte, error) {
	if s == "" {
		seed := make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generate provider seed: %w", err)
		}
		return seed, nil
	}

	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("provider seed: %w", err)
	}
	return seed, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(gctx) })
	g.Go(func() error { return app.provider.Run(gctx) })

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "app stopped", "err", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}
