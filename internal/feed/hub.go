// Package feed delivers per-user food change notifications to open dashboards.
package feed

import (
	"context"
	"sync"

	"github.com/foodlog/foodlog/internal/metrics"
)

type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event says that the user's food list changed. Receivers refetch the whole list.
type Event struct {
	UserID string `json:"user_id"`
	Kind   Kind   `json:"kind"`
	FoodID string `json:"food_id"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscription receives the events of one user. C holds at most one pending
// event; newer events are merged into it.
type Subscription struct {
	UserID string
	C      chan Event
}

// Hub fans events out to the subscriptions of the same process.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{UserID: userID, C: make(chan Event, 1)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if set := h.subs[sub.UserID]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	h.mu.Unlock()
}

// Publish never blocks on slow subscribers.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[ev.UserID] {
		select {
		case sub.C <- ev:
		default:
			metrics.FeedDrops.Inc()
		}
	}
	return nil
}

// Subscribers returns the number of open subscriptions for a user.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
