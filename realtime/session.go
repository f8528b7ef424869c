package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/utils"
	"github.com/yeremiapane/paradise-cafe/view"
)

// Inbound actions
const (
	ActionToggleMode     = "toggle_mode"
	ActionExitAdmin      = "exit_admin"
	ActionSelectCategory = "select_category"
	ActionSearch         = "search"
)

const (
	writeWait = 10 * time.Second

	// maxPending bounds the events queued for one client. The oldest are dropped first.
	maxPending = 64
)

// Action is a message sent by the UI.
type Action struct {
	Action   string          `json:"action"`
	Category models.Category `json:"category,omitempty"`
	Term     string          `json:"term,omitempty"`
}

// Session is one connected UI with its own mode, banner rotation, category and search term.
type Session struct {
	site *services.Site
	conn *websocket.Conn

	controller *view.Controller
	rotator    *view.Rotator

	mu       sync.Mutex
	category models.Category
	search   string

	// Outbound queue drained by writeLoop. Views are composed when written, so a burst of
	// changes produces one view.
	outMu     sync.Mutex
	pending   []Message
	viewDirty bool
	wake      chan struct{}

	cancel context.CancelFunc
	once   sync.Once
}

func newSession(site *services.Site, conn *websocket.Conn, bannerInterval time.Duration) *Session {
	return &Session{
		site:       site,
		conn:       conn,
		controller: view.NewController(),
		rotator:    view.NewRotator(bannerInterval),
		category:   models.CategoryAll,
		wake:       make(chan struct{}, 1),
	}
}

// Run pushes the initial view, rotates banners and handles actions until the connection drops.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.pushView()

	go s.writeLoop(ctx)
	go s.rotator.Run(ctx, func(index int) {
		s.send(Message{Event: EventBannerIndex, Data: index})
		s.pushView()
	})
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.ErrorLogger.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var action Action
		if err := json.Unmarshal(data, &action); err != nil {
			s.send(Message{Event: EventError, Data: "malformed action"})
			continue
		}
		s.handle(action)
	}
}

func (s *Session) handle(a Action) {
	switch a.Action {
	case ActionToggleMode:
		s.controller.Toggle()
	case ActionExitAdmin:
		s.controller.ExitAdmin()
	case ActionSelectCategory:
		category := a.Category
		if category != models.CategoryAll && !category.Valid() {
			category = models.CategoryAll
		}
		s.mu.Lock()
		s.category = category
		s.mu.Unlock()
	case ActionSearch:
		s.mu.Lock()
		s.search = a.Term
		s.mu.Unlock()
	default:
		s.send(Message{Event: EventError, Data: "unknown action " + a.Action})
		return
	}
	s.pushView()
}

// Close stops the rotator and closes the connection.
func (s *Session) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		s.conn.Close()
	})
}

// refresh queues a collection notice and a new view. It never blocks on the connection.
func (s *Session) refresh(update Message) {
	s.enqueue(&update, true)
}

// Page composes what this session currently shows.
func (s *Session) Page() view.Page {
	state := s.site.State()
	s.rotator.SetCount(len(state.Banners))

	s.mu.Lock()
	category, search := s.category, s.search
	s.mu.Unlock()

	return view.Compose(s.controller.Mode(), state, category, s.rotator.Index(), search)
}

func (s *Session) pushView() {
	s.enqueue(nil, true)
}

func (s *Session) send(msg Message) {
	s.enqueue(&msg, false)
}

func (s *Session) enqueue(msg *Message, withView bool) {
	s.outMu.Lock()
	if msg != nil {
		s.pending = appendCoalesced(s.pending, *msg)
		if len(s.pending) > maxPending {
			dropped := len(s.pending) - maxPending
			s.pending = append(s.pending[:0], s.pending[dropped:]...)
			utils.ErrorLogger.WithField("dropped", dropped).Warn("websocket client is falling behind")
		}
	}
	if withView {
		s.viewDirty = true
	}
	s.outMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// appendCoalesced replaces a queued update for the same collection instead of adding another.
func appendCoalesced(pending []Message, msg Message) []Message {
	if update, ok := msg.Data.(CollectionUpdate); ok {
		for i, queued := range pending {
			if prev, ok := queued.Data.(CollectionUpdate); ok && prev.Collection == update.Collection {
				pending[i] = msg
				return pending
			}
		}
	}
	return append(pending, msg)
}

// writeLoop is the only writer on the connection. A failed write closes the session.
func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		s.outMu.Lock()
		msgs, withView := s.pending, s.viewDirty
		s.pending, s.viewDirty = nil, false
		s.outMu.Unlock()

		if withView {
			msgs = append(msgs, Message{Event: EventView, Data: s.Page()})
		}
		for _, msg := range msgs {
			if err := s.write(msg); err != nil {
				utils.ErrorLogger.Printf("Error sending message to client: %v", err)
				s.Close()
				return
			}
		}
	}
}

func (s *Session) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return nil
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
