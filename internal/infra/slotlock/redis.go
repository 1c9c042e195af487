// Package slotlock records best-effort booked-slot markers in Redis. The
// Postgres reservation row is authoritative; these keys exist for
// observability and double protection only.
package slotlock

import (
	"context"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSlotAlreadyLocked = errs.New("slot lock already held")

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Lock(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow, reservationID uuid.UUID) error {
	if l.client == nil {
		return nil
	}
	key := "slotlock:" + instructorID.String() + ":" + window.Start().UTC().Format(time.RFC3339)

	// Marker expires shortly after the session ends; stale locks never
	// outlive the slot they protect.
	ttl := time.Until(window.End()) + time.Hour
	if ttl <= 0 {
		return nil
	}

	ok, err := l.client.SetNX(ctx, key, reservationID.String(), ttl).Result()
	if err != nil {
		return errs.Wrap(err, "slot lock write failed")
	}
	if !ok {
		return ErrSlotAlreadyLocked
	}
	return nil
}
