package store

import (
	"context"
	"encoding/json"

	"github.com/yeremiapane/paradise-cafe/utils"
)

// Collection is an array-shaped collection of T.
type Collection[T any] struct {
	gw   *Gateway
	name string
}

func NewCollection[T any](gw *Gateway, name string) *Collection[T] {
	return &Collection[T]{gw: gw, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Subscribe delivers the decoded collection; absent data arrives as an empty slice.
func (c *Collection[T]) Subscribe(ctx context.Context, fn func(items []T, version int64)) (func(), error) {
	return c.gw.Subscribe(ctx, c.name, func(s Snapshot) {
		fn(DecodeArray[T](c.name, s.Value), s.Version)
	})
}

// Load reads and decodes the current value.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	snap, err := c.gw.Get(ctx, c.name)
	if err != nil {
		return []T{}, err
	}
	return DecodeArray[T](c.name, snap.Value), nil
}

func (c *Collection[T]) Replace(ctx context.Context, items []T) (int64, error) {
	if items == nil {
		items = []T{}
	}
	return c.gw.Replace(ctx, c.name, items)
}

// DecodeArray coerces raw into a slice of T. Elements that do not decode are skipped.
func DecodeArray[T any](name string, raw json.RawMessage) []T {
	elements, err := CoerceArray(raw)
	if err != nil {
		utils.Collection(name).WithError(err).Warn("treating malformed collection as empty")
		return []T{}
	}

	out := make([]T, 0, len(elements))
	for i, el := range elements {
		var item T
		if err := json.Unmarshal(el, &item); err != nil {
			utils.Collection(name).WithError(err).WithField("index", i).Warn("skipping undecodable element")
			continue
		}
		out = append(out, item)
	}
	return out
}

// Document is a singleton object stored at one path.
type Document[T any] struct {
	gw   *Gateway
	name string
}

func NewDocument[T any](gw *Gateway, name string) *Document[T] {
	return &Document[T]{gw: gw, name: name}
}

func (d *Document[T]) Name() string {
	return d.name
}

// Subscribe delivers the decoded document, or nil when the path holds no object.
func (d *Document[T]) Subscribe(ctx context.Context, fn func(doc *T, version int64)) (func(), error) {
	return d.gw.Subscribe(ctx, d.name, func(s Snapshot) {
		fn(DecodeObject[T](d.name, s.Value), s.Version)
	})
}

func (d *Document[T]) Replace(ctx context.Context, doc T) (int64, error) {
	return d.gw.Replace(ctx, d.name, doc)
}

func DecodeObject[T any](name string, raw json.RawMessage) *T {
	obj, ok := CoerceObject(raw)
	if !ok {
		return nil
	}
	var doc T
	if err := json.Unmarshal(obj, &doc); err != nil {
		utils.Collection(name).WithError(err).Warn("ignoring undecodable document")
		return nil
	}
	return &doc
}
