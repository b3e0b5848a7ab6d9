package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "foods:user:"

// Channel derives the Redis channel name for a user.
func Channel(userID string) string {
	return channelPrefix + userID
}

// RedisRelay publishes events through Redis so that every instance's hub
// sees changes made on any instance.
type RedisRelay struct {
	rdb *redis.Client
	hub *Hub
}

func NewRedisRelay(rdb *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub}
}

func (r *RedisRelay) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	return r.rdb.Publish(ctx, Channel(ev.UserID), payload).Err()
}

// Start subscribes to every user channel and forwards messages into the hub
// until ctx is done.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := r.rdb.PSubscribe(ctx, channelPrefix+"*")
	// Wait for the subscription confirmation so publishes right after Start are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe feed channels: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.forward(ctx, msg)
			}
		}
	}()

	return nil
}

func (r *RedisRelay) forward(ctx context.Context, msg *redis.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic in feed relay", "panic", rec, "stack", string(debug.Stack()))
		}
	}()

	var ev Event
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		slog.Warn("dropping malformed feed message", "channel", msg.Channel, "error", err)
		return
	}
	if ev.UserID == "" {
		ev.UserID = strings.TrimPrefix(msg.Channel, channelPrefix)
	}

	_ = r.hub.Publish(ctx, ev)
}
