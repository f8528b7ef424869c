// Package realtime pushes collection changes and per-connection view state over websockets.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
)

// Event types
const (
	EventCollectionUpdate = "collection_update"
	EventView             = "view"
	EventBannerIndex      = "banner_index"
	EventError            = "error"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// CollectionUpdate announces a new version of one collection.
type CollectionUpdate struct {
	Collection string `json:"collection"`
	Version    int64  `json:"version"`
}

// Hub tracks every connected UI and fans collection changes out to them.
type Hub struct {
	site           *services.Site
	bannerInterval time.Duration

	clients map[*Session]struct{}
	mutex   sync.Mutex
	unsubs  []func()
}

func NewHub(site *services.Site, bannerInterval time.Duration) *Hub {
	return &Hub{
		site:           site,
		bannerInterval: bannerInterval,
		clients:        make(map[*Session]struct{}),
	}
}

// Start subscribes the hub to every collection. Call it after the site has started so the
// editors see each snapshot before the sessions recompose.
func (h *Hub) Start(ctx context.Context) error {
	for _, name := range models.CollectionNames {
		unsub, err := h.site.Gateway.Subscribe(ctx, name, h.onSnapshot)
		if err != nil {
			h.Stop()
			return err
		}
		h.mutex.Lock()
		h.unsubs = append(h.unsubs, unsub)
		h.mutex.Unlock()
	}
	return nil
}

// Stop unsubscribes the hub and closes every connection.
func (h *Hub) Stop() {
	h.mutex.Lock()
	unsubs := h.unsubs
	h.unsubs = nil
	clients := make([]*Session, 0, len(h.clients))
	for s := range h.clients {
		clients = append(clients, s)
	}
	h.mutex.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	for _, s := range clients {
		s.Close()
	}
}

// Serve runs a session for conn until the client disconnects or ctx is done.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	s := newSession(h.site, conn, h.bannerInterval)
	h.register(s)
	defer h.unregister(s)

	s.Run(ctx)
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) register(s *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[s] = struct{}{}
	utils.InfoLogger.Printf("Websocket client connected (%d total)", len(h.clients))
}

func (h *Hub) unregister(s *Session) {
	h.mutex.Lock()
	delete(h.clients, s)
	n := len(h.clients)
	h.mutex.Unlock()

	s.Close()
	utils.InfoLogger.Printf("Websocket client disconnected (%d remaining)", n)
}

func (h *Hub) onSnapshot(snap store.Snapshot) {
	h.mutex.Lock()
	clients := make([]*Session, 0, len(h.clients))
	for s := range h.clients {
		clients = append(clients, s)
	}
	h.mutex.Unlock()

	update := Message{
		Event: EventCollectionUpdate,
		Data:  CollectionUpdate{Collection: snap.Collection, Version: snap.Version},
	}
	for _, s := range clients {
		s.refresh(update)
	}
}
