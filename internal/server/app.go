// Package server wires configuration, storage, services and transports
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/userapp/internal/cryptox"
	"github.com/dmitrijs2005/userapp/internal/lockx"
	"github.com/dmitrijs2005/userapp/internal/logging"
	"github.com/dmitrijs2005/userapp/internal/server/config"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userapp/internal/server/rest"
	"github.com/dmitrijs2005/userapp/internal/server/services"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/userapp/internal/server/grpc"
)

const (
	defaultRetryInterval = 15 * time.Second
	redisLockTTL         = 10 * time.Second
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          repomanager.RepositoryManager
	closers        []io.Closer
	userService    *services.UserService
	sessionService *services.SessionService
}

// openStore is replaced in tests.
var openStore = repomanager.Open

// NewApp connects to the store, retrying until it succeeds or ctx is done,
// applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.New(os.Stdout, c.LogLevel, c.LogFormat))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	hasher, err := cryptox.NewHasher(c.PasswordScheme)
	if err != nil {
		return nil, fmt.Errorf("password scheme: %w", err)
	}

	store, err := connectStore(ctx, logger, c.DatabaseDSN, c.ConnectRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, store: store, closers: []io.Closer{store}}

	locker, err := app.newLocker(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.userService = services.NewUserService(store, hasher, locker, c.StrictMode)
	app.sessionService = services.NewSessionService(store, hasher, locker, c.StrictMode)

	logger.Info(ctx, "App initialized",
		"strict_mode", c.StrictMode,
		"password_scheme", c.PasswordScheme,
	)

	return app, nil
}

// connectStore opens the store and runs migrations, retrying the pair on a
// fixed delay with no attempt limit.
func connectStore(ctx context.Context, logger logging.Logger, dsn string, interval time.Duration) (repomanager.RepositoryManager, error) {
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	var store repomanager.RepositoryManager
	attempt := 0

	err := retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		attempt++

		m, err := openStore(ctx, dsn)
		if err == nil {
			if err = m.RunMigrations(ctx); err != nil {
				_ = m.Close()
			}
		}
		if err != nil {
			logger.Error(ctx, "store init failed", "attempt", attempt, "error", err, "retry_in", interval.String())
			return retry.RetryableError(err)
		}

		store = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "store ready", "attempts", attempt)
	return store, nil
}

// newLocker picks the strict mode locker: none in relaxed mode, Redis when
// a URL is configured, otherwise in-process.
func (app *App) newLocker(ctx context.Context) (lockx.Locker, error) {
	if !app.config.StrictMode {
		return lockx.Noop{}, nil
	}
	if app.config.RedisURL == "" {
		return lockx.NewKeyedMutex(), nil
	}

	client, err := lockx.Connect(ctx, app.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, client)

	return lockx.NewRedisLocker(client, redisLockTTL), nil
}

// Handler returns the HTTP API handler.
func (app *App) Handler() http.Handler {
	return rest.NewRouter(app.logger, app.userService, app.sessionService, app.store)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.Handler(), app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until ctx is cancelled or either server fails,
// then releases the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases the store and any lock backend.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
