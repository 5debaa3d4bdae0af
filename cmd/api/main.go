// Package main is the entry point for the Checks Dashboard API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/checks-dashboard/backend/config"
	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/infra/db"
	"github.com/checks-dashboard/backend/internal/infra/dependency"
	"github.com/checks-dashboard/backend/internal/infra/firebase"
	"github.com/checks-dashboard/backend/internal/infra/redisclient"
	"github.com/checks-dashboard/backend/internal/integration/adapters"
	"github.com/checks-dashboard/backend/internal/integration/email"
	"github.com/checks-dashboard/backend/internal/integration/firestoredb"
	"github.com/checks-dashboard/backend/internal/integration/persistence"
	"github.com/checks-dashboard/backend/internal/integration/queue"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting Checks Dashboard API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"auth_provider", cfg.JWT.Provider,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}()

	var firebaseApp *firebase.App
	if cfg.Storage.Driver == config.StorageDriverFirestore || cfg.JWT.Provider == config.AuthProviderFirebase {
		firebaseApp, err = firebase.NewApp(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		defer func() {
			if err := firebaseApp.Close(); err != nil {
				slog.Error("Failed to close firestore client", "error", err)
			}
		}()
	}

	components := dependency.Components{
		Redis: redisClient,
		Clock: adapters.NewSystemClock(cfg.Reminder.Location()),
	}

	// Check store
	switch cfg.Storage.Driver {
	case config.StorageDriverFirestore:
		client, err := firebaseApp.Firestore(ctx)
		if err != nil {
			return err
		}
		components.CheckRepository = firestoredb.NewCheckRepository(client)
		components.StoreHealth = firestoredb.HealthCheck(client)
	case config.StorageDriverPostgres:
		database, err := db.NewPostgresConnection(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()

		if err := database.Migrate(); err != nil {
			return err
		}
		slog.Info("Database migrations completed successfully")

		notifier := queue.NewChangeNotifier(redisClient, cfg.Redis.KeyPrefix)
		components.CheckRepository = persistence.NewCheckRepository(database.DB(), notifier)
		components.StoreHealth = database.HealthCheck
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Identity
	tokenService, err := newTokenService(ctx, cfg, firebaseApp)
	if err != nil {
		return err
	}
	components.TokenService = tokenService

	// Reminder delivery
	if cfg.Email.ResendAPIKey != "" {
		mailer, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, cfg.Email.ResendBaseURL)
		if err != nil {
			return err
		}
		components.Mailer = mailer
	} else {
		slog.Warn("RESEND_API_KEY not set, reminders will be logged instead of emailed")
		components.Mailer = email.LogMailer{}
	}

	injector, err := dependency.NewInjector(cfg, components)
	if err != nil {
		return err
	}

	if cfg.Reminder.WorkerEnabled {
		go injector.Worker.Start(ctx)
	}

	engine := injector.Router.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		// Zero by default: the dashboard stream is a long-lived response.
		WriteTimeout: cfg.Server.WriteTimeout,
		// Request contexts end on shutdown so open dashboard streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func newTokenService(ctx context.Context, cfg *config.Config, firebaseApp *firebase.App) (adapter.TokenService, error) {
	switch cfg.JWT.Provider {
	case config.AuthProviderFirebase:
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return adapters.NewFirebaseTokenService(authClient), nil
	case config.AuthProviderJWT:
		return adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.JWT.Provider)
	}
}
