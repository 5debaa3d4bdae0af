// Package firebase initialises the Firebase app and the clients built on it.
package firebase

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebasesdk "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/checks-dashboard/backend/config"
)

// App bundles the Firebase clients used by the server.
type App struct {
	app       *firebasesdk.App
	firestore *firestore.Client
	auth      *auth.Client
}

// NewApp initialises Firebase with the configured project and credentials.
// Without a credentials file the SDK falls back to application default credentials.
func NewApp(ctx context.Context, cfg *config.FirebaseConfig) (*App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebasesdk.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebasesdk.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebasesdk.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	slog.Info("Firebase app initialized", "project_id", cfg.ProjectID)
	return &App{app: app}, nil
}

// Firestore returns the Firestore client, creating it on first use.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	if a.firestore != nil {
		return a.firestore, nil
	}

	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	a.firestore = client
	return client, nil
}

// Auth returns the Firebase Authentication client, creating it on first use.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	if a.auth != nil {
		return a.auth, nil
	}

	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	a.auth = client
	return client, nil
}

// Close releases the Firestore client if one was opened.
func (a *App) Close() error {
	if a.firestore == nil {
		return nil
	}
	return a.firestore.Close()
}
