// Package server wires configuration, storage, services and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

// NewApp opens the database, applies migrations and builds the services.
// Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(w, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	secret := c.SecretKey
	if secret == "" {
		if secret, err = common.MakeRandHexString(32); err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	tokens := auth.NewTokenManager([]byte(secret), c.TokenValidity, auth.WithLeeway(c.TokenLeeway))
	us := services.NewUserService(db, rm, hasher, tokens, logger.With("module", "user_service"))

	logger.Info(ctx, "App initialized",
		"driver", c.DatabaseDriver,
		"bcrypt_cost", hasher.Cost(),
		"token_validity", tokens.Validity().String(),
	)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves the HTTP API until ctx is cancelled or a termination signal
// arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.userService, rest.Options{
		CORSOrigins:     app.config.CORSOrigins,
		ShutdownTimeout: app.config.ShutdownTimeout,
	})

	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "HTTP server stopped", "error", runErr)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
