package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryBackend keeps collections in process memory.
type MemoryBackend struct {
	mu       sync.RWMutex
	values   map[string]json.RawMessage
	versions map[string]int64
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values:   make(map[string]json.RawMessage),
		versions: make(map[string]int64),
	}
}

func (b *MemoryBackend) Get(_ context.Context, name string) (Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.values[name]
	if !ok {
		return Snapshot{Collection: name}, nil
	}
	return Snapshot{Collection: name, Value: clone(value), Version: b.versions[name]}, nil
}

func (b *MemoryBackend) Put(_ context.Context, name string, value json.RawMessage, _ string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[name] = clone(value)
	b.versions[name]++
	return b.versions[name], nil
}

func clone(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
