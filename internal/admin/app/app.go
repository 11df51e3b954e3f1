package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	adminhttp "github.com/karyasoft/backoffice/internal/admin/http"
	"github.com/karyasoft/backoffice/internal/admin/mail"
	"github.com/karyasoft/backoffice/internal/admin/service"
	"github.com/karyasoft/backoffice/internal/admin/store"
	"github.com/karyasoft/backoffice/internal/admin/store/drivers/sqlite"
	"github.com/karyasoft/backoffice/pkg/cryptox"
	"github.com/karyasoft/backoffice/pkg/jwtx"
	"github.com/karyasoft/backoffice/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application holds the service, its dependencies and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	tokenService      *service.TokenService
	userService       *service.UserService
	invitationService *service.InvitationService
	productService    *service.ProductService
	orderService      *service.OrderService

	server *http.Server
}

// New assembles the application: storage, signing keys, services and routes.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "backoffice",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	app.db = db

	pem, err := cryptox.LoadOrCreateEd25519PEM(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	signer, err := jwtx.NewSigner(pem)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	app.signer = signer

	app.initServices()

	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := service.EnsureDefaultAdmin(ctx, app.db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	app.initHTTP()
	return app, nil
}

func (app *Application) initServices() {
	var mailer mail.Mailer = mail.LogMailer{}
	if app.cfg.SMTPAddr != "" {
		mailer = &mail.SMTPMailer{
			Addr:     app.cfg.SMTPAddr,
			From:     app.cfg.SMTPFrom,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
		}
	}

	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.userService = &service.UserService{Store: app.db}
	app.invitationService = &service.InvitationService{
		Store:         app.db,
		Mailer:        mailer,
		AcceptBaseURL: app.cfg.AcceptBaseURL,
		TTL:           app.cfg.InviteTTL,
	}
	app.productService = &service.ProductService{Store: app.db}
	app.orderService = &service.OrderService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := adminhttp.NewRouter(adminhttp.RouterConfig{
		Verifier:    jwtx.NewVerifier(app.signer.PublicKey(), app.cfg.Issuer),
		Store:       app.db,
		Tokens:      app.tokenService,
		Users:       app.userService,
		Invitations: app.invitationService,
		Products:    app.productService,
		Orders:      app.orderService,
	})

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: slogx.HTTPMiddleware(app.logger)(router),
	}
}

// Run starts the HTTP server and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("backoffice starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down backoffice...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
	}

	app.logger.Info("shutdown complete")
	return nil
}
