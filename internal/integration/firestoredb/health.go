package firestoredb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// HealthCheck returns a probe that reads at most one check document.
func HealthCheck(client *firestore.Client) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		it := client.Collection(ChecksCollection).Limit(1).Documents(ctx)
		defer it.Stop()

		if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
			slog.Error("Firestore health check failed", "error", err)
			return false
		}
		return true
	}
}
