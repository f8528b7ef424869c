package view

import (
	"context"
	"sync"
	"time"
)

const DefaultBannerInterval = 8 * time.Second

// Rotator cycles the hero banner index.
type Rotator struct {
	Interval time.Duration

	mu    sync.Mutex
	index int
	count int
}

func NewRotator(interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultBannerInterval
	}
	return &Rotator{Interval: interval}
}

// SetCount records the banner count and clamps the index into range.
func (r *Rotator) SetCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 {
		n = 0
	}
	r.count = n
	if r.index >= n {
		r.index = 0
	}
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Advance moves to the next banner and reports whether the index changed.
// Fewer than two banners never rotate.
func (r *Rotator) Advance() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count < 2 {
		return r.index, false
	}
	r.index = (r.index + 1) % r.count
	return r.index, true
}

// Run advances every Interval until ctx is done, calling onTick after each change.
func (r *Rotator) Run(ctx context.Context, onTick func(index int)) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if i, moved := r.Advance(); moved && onTick != nil {
				onTick(i)
			}
		}
	}
}
