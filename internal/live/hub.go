// Package live pushes freshly computed apartment progress to WebSocket
// subscribers. Handlers broadcast after each report import; dashboards
// stay current without polling.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/snagtrack/snagtrack/internal/types"
)

const (
	// subscriberBuffer bounds the per-subscriber queue. A subscriber that
	// falls further behind drops updates rather than blocking imports.
	subscriberBuffer = 16

	writeTimeout = 5 * time.Second
)

type subscriber struct {
	apartment string // empty subscribes to all apartments
	ch        chan *types.ApartmentProgress
}

// Hub fans out progress updates to WebSocket subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Broadcast delivers a progress update to every matching subscriber.
// Never blocks: slow subscribers miss the update.
func (h *Hub) Broadcast(prog *types.ApartmentProgress) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.apartment != "" && sub.apartment != prog.ApartmentNumber {
			continue
		}
		select {
		case sub.ch <- prog:
		default:
		}
	}
}

func (h *Hub) subscribe(apartment string) *subscriber {
	sub := &subscriber{
		apartment: apartment,
		ch:        make(chan *types.ApartmentProgress, subscriberBuffer),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// SubscriberCount reports the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeHTTP upgrades to WebSocket and streams progress updates until the
// client disconnects. The optional "apartment" query parameter restricts
// the feed to one apartment.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	sub := h.subscribe(r.URL.Query().Get("apartment"))
	defer h.unsubscribe(sub)

	log.Debug().Str("apartment", sub.apartment).Msg("live subscriber connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case prog := <-sub.ch:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, prog)
			cancel()
			if err != nil {
				log.Debug().Err(err).Msg("live subscriber write failed, dropping")
				return
			}
		}
	}
}
