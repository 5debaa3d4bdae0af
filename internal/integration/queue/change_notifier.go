package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/checks-dashboard/backend/internal/application/adapter"
)

// ChangeNotifier broadcasts check changes over Redis Pub/Sub, one channel per owner.
type ChangeNotifier struct {
	client *redis.Client
	prefix string
}

// NewChangeNotifier creates a new Redis change notifier.
func NewChangeNotifier(client *redis.Client, prefix string) *ChangeNotifier {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ChangeNotifier{
		client: client,
		prefix: prefix,
	}
}

func (n *ChangeNotifier) channel(ownerID uuid.UUID) string {
	return n.prefix + ":changes:" + ownerID.String()
}

// Publish announces a change for the owner.
func (n *ChangeNotifier) Publish(ctx context.Context, ownerID uuid.UUID) error {
	if err := n.client.Publish(ctx, n.channel(ownerID), "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Listen subscribes to the owner's channel. Bursts of messages collapse into
// a single pending signal since every signal triggers a full reload.
func (n *ChangeNotifier) Listen(ctx context.Context, ownerID uuid.UUID) (<-chan struct{}, func(), error) {
	pubsub := n.client.Subscribe(ctx, n.channel(ownerID))

	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	signals := make(chan struct{}, 1)
	messages := pubsub.Channel()

	go func() {
		defer close(signals)
		for range messages {
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	return signals, stop, nil
}

// Ensure ChangeNotifier implements adapter.ChangeNotifier.
var _ adapter.ChangeNotifier = (*ChangeNotifier)(nil)
