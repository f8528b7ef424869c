package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yeremiapane/paradise-cafe/utils"
)

// Gateway exposes subscribe/replace over named collections of a Backend.
type Gateway struct {
	backend    Backend
	origin     string
	maxBytes   int
	feeds      []Feed
	announcers []Announcer

	mu      sync.Mutex
	streams map[string]*stream
	closed  bool
}

type Option func(*Gateway)

// WithFeed adds a source of changes made by other processes.
func WithFeed(f Feed) Option {
	return func(g *Gateway) {
		g.feeds = append(g.feeds, f)
	}
}

// WithAnnouncer adds a peer notifier called after every successful replace.
func WithAnnouncer(a Announcer) Option {
	return func(g *Gateway) {
		g.announcers = append(g.announcers, a)
	}
}

// WithMaxDocumentBytes rejects replaces whose encoded value is larger than n. Zero disables it.
func WithMaxDocumentBytes(n int) Option {
	return func(g *Gateway) {
		g.maxBytes = n
	}
}

// WithOrigin fixes the writer identity stamped on changes. Defaults to a random UUID.
func WithOrigin(origin string) Option {
	return func(g *Gateway) {
		g.origin = origin
	}
}

func NewGateway(backend Backend, opts ...Option) *Gateway {
	g := &Gateway{
		backend: backend,
		origin:  uuid.NewString(),
		streams: make(map[string]*stream),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Origin identifies this gateway's writes on change feeds.
func (g *Gateway) Origin() string {
	return g.origin
}

// Start runs every feed until ctx is done.
func (g *Gateway) Start(ctx context.Context) {
	for _, f := range g.feeds {
		go func(f Feed) {
			err := f.Watch(ctx, func(c Change) { g.onRemoteChange(ctx, c) })
			if err != nil && ctx.Err() == nil {
				utils.ErrorLogger.WithError(err).Error("change feed stopped")
			}
		}(f)
	}
}

// Close stops delivery to every listener.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	for _, s := range g.streams {
		s.close()
	}
}

// Subscribe registers fn for the named collection. fn receives the current value right away
// and again after every change. A failed initial read is logged and delivered as "no data".
func (g *Gateway) Subscribe(ctx context.Context, name string, fn Listener) (func(), error) {
	s, err := g.stream(name)
	if err != nil {
		return nil, err
	}

	id := s.add(fn)

	snap, err := g.backend.Get(ctx, name)
	if err != nil {
		rerr := &RemoteReadError{Collection: name, Err: err}
		utils.ErrorLogger.WithError(rerr).Warn("initial read failed, delivering empty collection")
		snap = Snapshot{Collection: name}
	}
	s.deliverTo(id, snap)

	return func() { s.remove(id) }, nil
}

// Get reads the current value without subscribing.
func (g *Gateway) Get(ctx context.Context, name string) (Snapshot, error) {
	snap, err := g.backend.Get(ctx, name)
	if err != nil {
		return Snapshot{Collection: name}, &RemoteReadError{Collection: name, Err: err}
	}
	return snap, nil
}

// Replace overwrites the whole collection with value and pushes it to local listeners. It
// returns the version the store assigned to the write.
func (g *Gateway) Replace(ctx context.Context, name string, value any) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, &RemoteWriteError{Collection: name, Err: err}
	}

	if g.maxBytes > 0 && len(raw) > g.maxBytes {
		return 0, g.writeFailed(&RemoteWriteError{
			Collection: name,
			Err:        fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(raw), g.maxBytes),
		})
	}

	version, err := g.backend.Put(ctx, name, raw, g.origin)
	if err != nil {
		return 0, g.writeFailed(&RemoteWriteError{Collection: name, Err: err})
	}

	if s := g.lookup(name); s != nil {
		s.publish(Snapshot{Collection: name, Value: raw, Version: version})
	}

	change := Change{Collection: name, Version: version, Origin: g.origin}
	for _, a := range g.announcers {
		if err := a.Announce(ctx, change); err != nil {
			utils.Collection(name).WithError(err).Warn("announce failed")
		}
	}

	utils.Collection(name).WithField("version", version).Debug("collection replaced")
	return version, nil
}

func (g *Gateway) writeFailed(err *RemoteWriteError) error {
	utils.ErrorLogger.WithError(err).Error("collection write failed")
	return err
}

func (g *Gateway) onRemoteChange(ctx context.Context, c Change) {
	if c.Origin == g.origin {
		return
	}

	s := g.lookup(c.Collection)
	if s == nil || s.size() == 0 {
		return
	}

	snap, err := g.backend.Get(ctx, c.Collection)
	if err != nil {
		// keep the last delivered snapshot
		utils.ErrorLogger.WithError(&RemoteReadError{Collection: c.Collection, Err: err}).Warn("refresh after remote change failed")
		return
	}
	s.publish(snap)
}

func (g *Gateway) stream(name string) (*stream, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrGatewayClosed
	}
	s, ok := g.streams[name]
	if !ok {
		s = newStream(name)
		g.streams[name] = s
	}
	return s, nil
}

func (g *Gateway) lookup(name string) *stream {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streams[name]
}
