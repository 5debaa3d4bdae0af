// Package queue provides Redis-backed reminder scheduling and change notification.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// DefaultKeyPrefix namespaces every key written by this package.
const DefaultKeyPrefix = "checks"

// payloadTTLAfterFire keeps payloads around for late retries before Redis expires them.
const payloadTTLAfterFire = 7 * 24 * time.Hour

// ReminderQueue stores reminders in a sorted set scored by fire time.
// Payloads are kept in separate keys so schedule and cancel work by id.
type ReminderQueue struct {
	client *redis.Client
	prefix string
}

// NewReminderQueue creates a new Redis reminder queue.
func NewReminderQueue(client *redis.Client, prefix string) *ReminderQueue {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ReminderQueue{
		client: client,
		prefix: prefix,
	}
}

type reminderPayload struct {
	ID             string    `json:"id"`
	CheckID        string    `json:"checkId"`
	OwnerID        uuid.UUID `json:"ownerId"`
	RecipientEmail string    `json:"recipientEmail"`
	FireAt         time.Time `json:"fireAt"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Priority       string    `json:"priority"`
	Attempts       int       `json:"attempts"`
	MaxAttempts    int       `json:"maxAttempts"`
	LastError      string    `json:"lastError,omitempty"`
}

func toPayload(r *entity.Reminder) reminderPayload {
	return reminderPayload{
		ID:             r.ID,
		CheckID:        r.CheckID,
		OwnerID:        r.OwnerID,
		RecipientEmail: r.RecipientEmail,
		FireAt:         r.FireAt,
		Title:          r.Title,
		Body:           r.Body,
		Priority:       string(r.Priority),
		Attempts:       r.Attempts,
		MaxAttempts:    r.MaxAttempts,
		LastError:      r.LastError,
	}
}

func (p reminderPayload) toEntity() *entity.Reminder {
	return &entity.Reminder{
		ID:             p.ID,
		CheckID:        p.CheckID,
		OwnerID:        p.OwnerID,
		RecipientEmail: p.RecipientEmail,
		FireAt:         p.FireAt,
		Title:          p.Title,
		Body:           p.Body,
		Priority:       entity.Priority(p.Priority),
		Attempts:       p.Attempts,
		MaxAttempts:    p.MaxAttempts,
		LastError:      p.LastError,
	}
}

func (q *ReminderQueue) dueKey() string {
	return q.prefix + ":reminders:due"
}

func (q *ReminderQueue) payloadKey(id string) string {
	return q.prefix + ":reminder:" + id
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Schedule stores reminders and indexes them by fire time.
// Re-scheduling an existing id replaces its payload and fire time.
func (q *ReminderQueue) Schedule(ctx context.Context, reminders []*entity.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	pipe := q.client.TxPipeline()
	for _, r := range reminders {
		if err := q.write(ctx, pipe, r); err != nil {
			return err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	return nil
}

func (q *ReminderQueue) write(ctx context.Context, pipe redis.Pipeliner, r *entity.Reminder) error {
	data, err := json.Marshal(toPayload(r))
	if err != nil {
		return fmt.Errorf("failed to encode reminder %s: %w", r.ID, err)
	}

	ttl := time.Until(r.FireAt) + payloadTTLAfterFire
	if ttl < payloadTTLAfterFire {
		ttl = payloadTTLAfterFire
	}

	pipe.Set(ctx, q.payloadKey(r.ID), data, ttl)
	pipe.ZAdd(ctx, q.dueKey(), redis.Z{Score: score(r.FireAt), Member: r.ID})
	return nil
}

// Cancel removes reminders by id. Unknown ids are ignored.
func (q *ReminderQueue) Cancel(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	members := make([]interface{}, len(ids))
	keys := make([]string, len(ids))
	for i, id := range ids {
		members[i] = id
		keys[i] = q.payloadKey(id)
	}

	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, q.dueKey(), members...)
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cancel reminders: %w", err)
	}
	return nil
}

// ClaimDue removes up to limit reminders whose fire time is not after now and returns them.
// A reminder is returned only to the caller whose ZREM removed it.
func (q *ReminderQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Reminder, error) {
	ids, err := q.client.ZRangeByScore(ctx, q.dueKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due reminders: %w", err)
	}

	claimed := make([]*entity.Reminder, 0, len(ids))
	for _, id := range ids {
		removed, err := q.client.ZRem(ctx, q.dueKey(), id).Result()
		if err != nil {
			return claimed, fmt.Errorf("failed to claim reminder %s: %w", id, err)
		}
		if removed == 0 {
			continue // Claimed by another worker
		}

		r, err := q.load(ctx, id)
		if err != nil {
			if errors.Is(err, domainerror.ErrReminderNotFound) {
				continue // Cancelled or expired between scan and claim
			}
			return claimed, err
		}
		claimed = append(claimed, r)
	}

	return claimed, nil
}

// Requeue writes a claimed reminder back with its current fire time.
func (q *ReminderQueue) Requeue(ctx context.Context, r *entity.Reminder) error {
	pipe := q.client.TxPipeline()
	if err := q.write(ctx, pipe, r); err != nil {
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to requeue reminder %s: %w", r.ID, err)
	}
	return nil
}

// Pending returns the number of queued reminders.
func (q *ReminderQueue) Pending(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.dueKey()).Result()
}

// Get returns a queued reminder by id.
func (q *ReminderQueue) Get(ctx context.Context, id string) (*entity.Reminder, error) {
	if _, err := q.client.ZScore(ctx, q.dueKey(), id).Result(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerror.ErrReminderNotFound
		}
		return nil, err
	}
	return q.load(ctx, id)
}

func (q *ReminderQueue) load(ctx context.Context, id string) (*entity.Reminder, error) {
	data, err := q.client.Get(ctx, q.payloadKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerror.ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to load reminder %s: %w", id, err)
	}

	var payload reminderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode reminder %s: %w", id, err)
	}
	return payload.toEntity(), nil
}

// Ensure ReminderQueue implements adapter.ReminderQueue.
var _ adapter.ReminderQueue = (*ReminderQueue)(nil)
