package adapter

import (
	"context"

	"github.com/google/uuid"
)

// ChangeNotifier broadcasts that an owner's checks changed.
// Stores without a native change feed use it to drive Subscribe.
type ChangeNotifier interface {
	// Publish announces a change for the owner.
	Publish(ctx context.Context, ownerID uuid.UUID) error

	// Listen returns a channel that receives a value after each change for the owner,
	// and a function that stops listening. The channel is closed once stopped.
	Listen(ctx context.Context, ownerID uuid.UUID) (<-chan struct{}, func(), error)
}
