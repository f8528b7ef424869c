package store

import (
	"sync"
)

// Listener receives the full value of a collection.
type Listener func(Snapshot)

type listener struct {
	id   int64
	fn   Listener
	last int64
}

type delivery struct {
	snap   Snapshot
	target int64 // 0 delivers to every listener
}

// stream serializes deliveries for one collection path. Each listener only ever sees versions
// newer than the last one it received.
type stream struct {
	name string

	mu        sync.Mutex
	listeners []*listener
	nextID    int64
	queue     []delivery

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func newStream(name string) *stream {
	s := &stream{
		name: name,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *stream) add(fn Listener) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.listeners = append(s.listeners, &listener{id: s.nextID, fn: fn, last: -1})
	return s.nextID
}

func (s *stream) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.listeners[:0]
	for _, l := range s.listeners {
		if l.id != id {
			kept = append(kept, l)
		}
	}
	s.listeners = kept
}

func (s *stream) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *stream) publish(snap Snapshot) {
	s.enqueue(delivery{snap: snap})
}

func (s *stream) deliverTo(id int64, snap Snapshot) {
	s.enqueue(delivery{snap: snap, target: id})
}

func (s *stream) enqueue(d delivery) {
	s.mu.Lock()
	s.queue = append(s.queue, d)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *stream) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *stream) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			d, targets, ok := s.next()
			if !ok {
				break
			}
			for _, l := range targets {
				if d.snap.Version <= l.last || !s.has(l.id) {
					continue
				}
				l.last = d.snap.Version
				l.fn(d.snap)
			}
		}
	}
}

func (s *stream) next() (delivery, []*listener, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return delivery{}, nil, false
	}
	d := s.queue[0]
	s.queue = s.queue[1:]

	targets := make([]*listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if d.target == 0 || d.target == l.id {
			targets = append(targets, l)
		}
	}
	return d, targets, true
}

func (s *stream) has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}
