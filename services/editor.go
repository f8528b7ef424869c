package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yeremiapane/paradise-cafe/store"
)

var (
	ErrNotStarted     = errors.New("editor not started")
	ErrImmutableField = errors.New("field cannot be changed")
	ErrInvalidField   = errors.New("invalid field value")
)

// Entity is a document with a client-generated identifier.
type Entity interface {
	GetID() string
}

// Editor mirrors one array-shaped collection and writes it back whole on every change.
// Concurrent editors of the same collection race; the last replace wins.
type Editor[T Entity] struct {
	coll    *store.Collection[T]
	monitor *WriteMonitor

	// validate, when set, rejects a patched entity before anything is written.
	validate func(T) error

	// writeMu orders local mutations against incoming snapshots.
	writeMu sync.Mutex

	mu      sync.RWMutex
	items   []T
	version int64
	started bool
	unsub   func()

	ready     chan struct{}
	readyOnce sync.Once
}

func NewEditor[T Entity](gw *store.Gateway, name string, monitor *WriteMonitor) *Editor[T] {
	return &Editor[T]{
		coll:    store.NewCollection[T](gw, name),
		monitor: monitor,
		items:   []T{},
		ready:   make(chan struct{}),
	}
}

func (e *Editor[T]) Name() string {
	return e.coll.Name()
}

// Start subscribes the mirror to the collection.
func (e *Editor[T]) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.mu.Unlock()

	unsub, err := e.coll.Subscribe(ctx, e.apply)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", e.Name(), err)
	}

	e.mu.Lock()
	e.unsub = unsub
	e.mu.Unlock()
	return nil
}

func (e *Editor[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
}

func (e *Editor[T]) apply(items []T, version int64) {
	e.writeMu.Lock()
	e.mu.Lock()
	// a snapshot of our own write can arrive after a newer local mutation
	if version >= e.version {
		e.items = items
		e.version = version
	}
	e.mu.Unlock()
	e.writeMu.Unlock()

	e.readyOnce.Do(func() { close(e.ready) })
}

// WaitReady blocks until the first snapshot has arrived.
func (e *Editor[T]) WaitReady(ctx context.Context) error {
	e.mu.RLock()
	started := e.started
	e.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	select {
	case <-e.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the mirrored collection.
func (e *Editor[T]) Snapshot() []T {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.items)
}

// Version is the store version of the last snapshot received.
func (e *Editor[T]) Version() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

func (e *Editor[T]) Find(id string) (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, item := range e.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add appends items and writes the collection back.
func (e *Editor[T]) Add(ctx context.Context, items ...T) error {
	_, err := e.mutate(ctx, func(current []T) ([]T, error) {
		return append(current, items...), nil
	})
	return err
}

// Update applies fn to the entity with id. A missing id still rewrites the collection unchanged.
func (e *Editor[T]) Update(ctx context.Context, id string, fn func(*T)) error {
	_, err := e.mutate(ctx, func(current []T) ([]T, error) {
		for i := range current {
			if current[i].GetID() == id {
				fn(&current[i])
			}
		}
		return current, nil
	})
	return err
}

// UpdateField sets one JSON field of the entity with id. A nil value clears the field.
func (e *Editor[T]) UpdateField(ctx context.Context, id, field string, value any) error {
	return e.UpdateFields(ctx, id, map[string]any{field: value})
}

// UpdateFields sets every field in fields on the entity with id and writes the collection once.
// Nothing is written when any field is rejected.
func (e *Editor[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if _, ok := fields["id"]; ok {
		return fmt.Errorf("%w: id", ErrImmutableField)
	}

	_, err := e.mutate(ctx, func(current []T) ([]T, error) {
		for i := range current {
			if current[i].GetID() != id {
				continue
			}
			patched, err := patchFields(current[i], fields)
			if err != nil {
				return nil, err
			}
			if e.validate != nil {
				if err := e.validate(patched); err != nil {
					return nil, err
				}
			}
			current[i] = patched
		}
		return current, nil
	})
	return err
}

// Delete removes the entity with id.
func (e *Editor[T]) Delete(ctx context.Context, id string) error {
	_, err := e.mutate(ctx, func(current []T) ([]T, error) {
		return slices.DeleteFunc(current, func(item T) bool {
			return item.GetID() == id
		}), nil
	})
	return err
}

// mutate computes the next collection from the mirror, keeps it locally and replaces the
// remote value. The local value is not rolled back when the write fails.
func (e *Editor[T]) mutate(ctx context.Context, fn func(current []T) ([]T, error)) ([]T, error) {
	if err := e.WaitReady(ctx); err != nil {
		return nil, err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	next, err := fn(slices.Clone(e.items))
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	e.items = next
	e.mu.Unlock()

	version, err := e.coll.Replace(ctx, next)
	e.monitor.Record(e.Name(), err)
	if err != nil {
		return next, err
	}

	e.mu.Lock()
	if version > e.version {
		e.version = version
	}
	e.mu.Unlock()
	return next, nil
}

func patchFields[T any](item T, patch map[string]any) (T, error) {
	var zero T

	raw, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, err
	}

	for field, value := range patch {
		if value == nil {
			delete(fields, field)
		} else {
			fields[field] = value
		}
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return zero, fmt.Errorf("%w: %s: %v", ErrInvalidField, typeErr.Field, err)
		}
		return zero, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	return out, nil
}
