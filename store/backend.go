// Package store is the gateway to the remote document store. Collections are read and written
// as whole values and every change is pushed to subscribers.
package store

import (
	"context"
	"encoding/json"
)

// Snapshot is the full value of one collection at a version. A nil Value means the collection
// holds no data yet.
type Snapshot struct {
	Collection string
	Value      json.RawMessage
	Version    int64
}

// Change announces that a collection was overwritten by Origin.
type Change struct {
	Collection string `json:"collection"`
	Version    int64  `json:"version"`
	Origin     string `json:"origin"`
}

// Backend stores whole collection values.
type Backend interface {
	Get(ctx context.Context, name string) (Snapshot, error)
	// Put overwrites the collection and returns its new version.
	Put(ctx context.Context, name string, value json.RawMessage, origin string) (int64, error)
}

// Feed streams changes written by any process sharing the backend. Watch blocks until ctx is
// done or the feed fails.
type Feed interface {
	Watch(ctx context.Context, fn func(Change)) error
}

// Announcer tells peer processes about a write this process made.
type Announcer interface {
	Announce(ctx context.Context, change Change) error
}
