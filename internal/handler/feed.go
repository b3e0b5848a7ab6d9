package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/feed"
	"github.com/foodlog/foodlog/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	feedPingInterval = 25 * time.Second
	feedWriteTimeout = 10 * time.Second
)

type FeedHandler struct {
	hub      *feed.Hub
	upgrader websocket.Upgrader
}

// NewFeedHandler accepts websocket upgrades from pages served by appURL or
// from the request's own host.
func NewFeedHandler(hub *feed.Hub, appURL string) *FeedHandler {
	allowed := ""
	if u, err := url.Parse(appURL); err == nil {
		allowed = u.Host
	}

	return &FeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host || (allowed != "" && u.Host == allowed)
			},
		},
	}
}

// Feed streams the signed-in user's food change events until the socket closes.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "user_id", user.ID)
		return
	}
	defer func() { _ = conn.Close() }()

	sub := h.hub.Subscribe(user.ID)
	defer h.hub.Unsubscribe(sub)

	metrics.FeedConnections.Inc()
	defer metrics.FeedConnections.Dec()

	// read loop ends on client close/error
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
