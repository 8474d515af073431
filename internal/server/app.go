// Package server wires configuration, storage, services and transports
// together and runs the HTTP gateway and the gRPC probe until a shutdown
// signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/logging"
	"github.com/dmitrijs2005/streamdesk/internal/server/auth"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/streamdesk/internal/server/mailer"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/streamdesk/internal/server/sandbox"
	"github.com/dmitrijs2005/streamdesk/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/streamdesk/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	redis    *redis.Client
	denylist *auth.MemoryDenylist
	handler  http.Handler
}

// NewApp validates c and builds every component. Storage is PostgreSQL when
// DatabaseDSN is set and process memory otherwise.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{config: c, logger: logger}

	repos, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, err
	}
	app.repos = repos

	if err := app.build(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) build(ctx context.Context) error {
	c := app.config

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	denylist, err := app.newDenylist(ctx)
	if err != nil {
		return err
	}

	files, err := sandbox.New(c.FilesRoot, c.FilesVirtualPrefix)
	if err != nil {
		return fmt.Errorf("files root: %w", err)
	}

	tokens, err := auth.NewAuthority(c.SecretKey, c.TokenIssuer, c.AccessTokenValidityDuration, denylist)
	if err != nil {
		return err
	}
	tokens.WithRetention(c.RevocationRetention)

	creds, err := services.NewCredentialService(app.repos, c)
	if err != nil {
		return err
	}
	msgs := services.NewMessageService(app.repos, newSender(c, app.logger), app.logger, c)

	app.handler = httpapi.NewRouter(httpapi.Deps{
		Config:      c,
		Log:         app.logger.With("module", "http"),
		Credentials: creds,
		Tokens:      tokens,
		Messages:    msgs,
		Files:       files,
	})
	return nil
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, using in-memory storage")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	db, err := repomanager.OpenPostgres(pingCtx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return repomanager.NewPostgresRepositoryManager(db), nil
}

func (app *App) newDenylist(ctx context.Context) (auth.Denylist, error) {
	c := app.config
	if c.RedisAddr == "" {
		app.denylist = auth.NewMemoryDenylist()
		return app.denylist, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	app.redis = rdb
	return auth.NewRedisDenylist(rdb, "streamdesk:revoked:"), nil
}

func newSender(c *config.Config, logger logging.Logger) mailer.Sender {
	if c.SMTPHost == "" {
		return mailer.NewLogSender(logger.With("module", "mailer"))
	}
	return mailer.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.SMTPInsecureTLS)
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repos, 0)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled, a shutdown signal arrives, or a server
// fails. It returns the first server error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.startHTTPServer(ctx, cancelFunc); err != nil {
			record(err)
		}
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.startGRPCServer(ctx, cancelFunc); err != nil {
				record(err)
			}
		}()
	}

	if app.denylist != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.denylist.RunJanitor(ctx, time.Minute)
		}()
	}

	wg.Wait()
	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close", "error", err)
		}
	}
	if app.repos != nil {
		if err := app.repos.Close(); err != nil {
			app.logger.Warn(ctx, "storage close", "error", err)
		}
	}
}
