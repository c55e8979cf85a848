// Package app wires configuration, storage, sessions and HTTP routes into a runnable server.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"katalog/internal/config"
	"katalog/internal/handlers"
	"katalog/internal/messages"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/session"
	"katalog/internal/views"
	"katalog/pkg/logger"
	"katalog/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 5 * time.Second

// Dependencies are the components the HTTP layer is built from.
type Dependencies struct {
	Sessions *session.Manager
	Tokens   *session.Tokens
	Messages messages.Set
	Auth     config.Auth
	Backend  string
	Logger   *zap.Logger
}

// App is the katalog server.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	http     *fiber.App
	sessions *session.Manager
	closers  []func() error
}

// New builds the server described by cfg. Call Close, or Run, to release it.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	msgs, err := messages.For(cfg.UI.Language)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: log}

	newRepo, closeStore, err := newRepositoryFactory(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	var publisher services.EventPublisher
	if cfg.Events.Enabled() {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Events.RabbitMQURL, Queue: cfg.Events.Queue}, logger.Named(log, "rabbitmq"))
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		publisher = client
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			a.close()
			return nil, err
		}
		log.Info("no session secret configured, generated one for this process")
	}

	a.sessions = session.NewManager(newRepo, session.Options{
		Messages:    msgs,
		Publisher:   publisher,
		IdleTimeout: cfg.Session.IdleTimeout,
		Logger:      logger.Named(log, "catalog"),
	})

	a.http, err = SetupHTTP(&Dependencies{
		Sessions: a.sessions,
		Tokens:   session.NewTokens(secret, cfg.Session.TokenTTL),
		Messages: msgs,
		Auth:     cfg.Auth,
		Backend:  cfg.Catalog.Backend,
		Logger:   log,
	}, cfg.Server)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// SetupHTTP creates the Fiber app with its middleware and routes.
func SetupHTTP(deps *Dependencies, server config.Server) (*fiber.App, error) {
	engine, err := views.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "katalog",
		Views:                 engine,
		ReadTimeout:           server.ReadTimeout,
		WriteTimeout:          server.WriteTimeout,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger.Named(deps.Logger, "http")))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"backend":  deps.Backend,
			"sessions": deps.Sessions.Len(),
		})
	})

	if deps.Auth.Enabled() {
		app.Use(middleware.BasicAuth(deps.Auth.Username, deps.Auth.PasswordHash, logger.Named(deps.Logger, "auth")))
	}

	handlers.NewCatalogHandler(deps.Sessions, deps.Tokens, deps.Messages, logger.Named(deps.Logger, "handlers")).RegisterRoutes(app)
	return app, nil
}

// Handler returns the Fiber app, for tests.
func (a *App) Handler() *fiber.App {
	return a.http
}

// Run serves HTTP and sweeps idle sessions until ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sessions.Run(sweepCtx, a.cfg.Session.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", a.cfg.Server.Addr))
		errCh <- a.http.Listen(a.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownErr := a.http.ShutdownWithTimeout(shutdownTimeout)
	<-errCh
	closeErr := a.close()
	if err := errors.Join(shutdownErr, closeErr); err != nil {
		return err
	}
	a.logger.Info("server gracefully stopped")
	return nil
}

// Close drops every session and releases storage and broker connections.
func (a *App) Close() error {
	return a.close()
}

func (a *App) close() error {
	if a.sessions != nil {
		a.sessions.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newRepositoryFactory(cfg config.Catalog) (session.RepositoryFactory, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sqlite connection: %w", err)
		}
		// The in-memory database lives as long as its single connection.
		sqlDB.SetMaxOpenConns(1)
		if err := repositories.MigrateCatalogSchema(db); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return func(catalogID string) (repositories.CatalogRepository, error) {
			return repositories.NewGORMCatalogRepository(db, catalogID), nil
		}, sqlDB.Close, nil

	case config.BackendMemory:
		return func(string) (repositories.CatalogRepository, error) {
			return repositories.NewMemoryCatalogRepository(), nil
		}, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
