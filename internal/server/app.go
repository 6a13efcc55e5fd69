// Package server initializes and runs the main application server.
// It connects the kv store to its backend, applies migrations, seeds the
// administrative credential, and starts the HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/gophpress/internal/logging"
	"github.com/dmitrijs2005/gophpress/internal/server/audit"
	"github.com/dmitrijs2005/gophpress/internal/server/config"
	"github.com/dmitrijs2005/gophpress/internal/server/content"
	"github.com/dmitrijs2005/gophpress/internal/server/credentials"
	"github.com/dmitrijs2005/gophpress/internal/server/kv"
	"github.com/dmitrijs2005/gophpress/internal/server/media"
	"github.com/dmitrijs2005/gophpress/internal/server/migrations"
	"github.com/dmitrijs2005/gophpress/internal/server/sessions"
	"github.com/dmitrijs2005/gophpress/internal/server/web"
)

const (
	bootPingBackoff = 1 * time.Second
	bootPingRetries = 5
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
}

// NewApp wires the full server from configuration. An empty DatabaseDSN runs
// everything against the in-process store, which is only useful for local
// experiments and tests.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	var (
		db    *sql.DB
		store kv.Store
		sink  audit.Sink
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, running with in-memory store")
		store = kv.NewMemoryStore()
		sink = audit.NewMemorySink()
	} else {
		var err error
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}

		if err := pingWithRetry(ctx, db); err != nil {
			return nil, fmt.Errorf("db ping error: %w", err)
		}

		if c.RunMigrations {
			if err := migrations.Run(ctx, db); err != nil {
				return nil, fmt.Errorf("migration error: %w", err)
			}
		}

		pgStore := kv.NewPostgresStore(ctx, db, c.StoreOwner, logger)
		store = pgStore
		sink = audit.NewPostgresSink(db, pgStore.Capability(), c.StoreOwner, logger)
	}

	formatter := content.NewAPIFormatter(c.FormatterEndpoint, c.FormatterModel, c.FormatterAPIKey, c.FormatterTimeout, logger)
	contentSvc := content.NewService(store, formatter, logger)
	creds := credentials.NewManager(store, logger)
	sessionSvc := sessions.NewService(store, logger)
	mediaSvc := media.NewService(media.Settings{
		Region:       c.S3Region,
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})

	// A failed seed must not keep the server from coming up; the store may
	// recover, and until then logins simply fail.
	if err := creds.EnsurePrincipal(ctx, c.AdminEmail, c.AdminPassword); err != nil {
		logger.Error(ctx, "credential seeding failed", "error", err.Error())
		sink.Record(ctx, audit.EventSeedFailed, map[string]any{"email": c.AdminEmail})
	}

	webServer := web.NewServer(c.EndpointAddrHTTP, logger, contentSvc, creds, sessionSvc, mediaSvc, sink, c.TokenTTL)

	return &App{config: c, logger: logger, db: db, web: webServer}, nil
}

// pingWithRetry waits for the database to accept connections, covering the
// window where the server container starts before the database does.
func pingWithRetry(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(bootPingRetries, retry.NewFibonacci(bootPingBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	if err := app.web.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
