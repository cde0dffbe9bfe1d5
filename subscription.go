package pathstore

import (
	"github.com/goliatone/go-pathstore/treepath"
	"github.com/google/uuid"
)

// subscription pairs a subscriber identity with an optional watched path.
// A nil path marks a whole-state subscriber.
type subscription struct {
	id   uuid.UUID
	path []string
	fn   Subscriber
}

// Subscribe registers a whole-state subscriber invoked with the new
// snapshot after every applied mutation. The returned function detaches
// the subscriber; calling it more than once is a no-op.
func (s *Store) Subscribe(fn Subscriber) func() {
	return s.addSubscription(subscription{id: uuid.New(), fn: fn})
}

// SubscribePath registers a subscriber scoped to a dotted path, invoked
// with the current value at that path whenever the path itself, an
// ancestor, or a descendant is written. An empty path subscribes to the
// whole state.
func (s *Store) SubscribePath(path string, fn Subscriber) func() {
	return s.addSubscription(subscription{id: uuid.New(), path: treepath.Split(path), fn: fn})
}

func (s *Store) addSubscription(sub subscription) func() {
	for _, existing := range s.subs {
		if existing.id == sub.id {
			return func() { s.removeSubscription(sub.id) }
		}
	}

	wasEmpty := len(s.subs) == 0
	s.subs = append(s.subs, sub)
	if wasEmpty {
		s.mount()
	}
	return func() { s.removeSubscription(sub.id) }
}

// removeSubscription filters the subscriber out by identity. Removing an
// unregistered subscriber is a no-op.
func (s *Store) removeSubscription(id uuid.UUID) {
	kept := s.subs[:0]
	removed := false
	for _, sub := range s.subs {
		if sub.id == id {
			removed = true
			continue
		}
		kept = append(kept, sub)
	}
	s.subs = kept
	if removed && len(s.subs) == 0 {
		s.unmount()
	}
}

func (s *Store) mount() {
	if s.mountHook == nil {
		return
	}
	s.unmountHook = s.mountHook()
}

func (s *Store) unmount() {
	if s.unmountHook == nil {
		return
	}
	fn := s.unmountHook
	s.unmountHook = nil
	fn()
}
