package pathstore

import "github.com/goliatone/go-pathstore/treepath"

// dispatch invokes every subscriber that matches one of the written paths
// and returns how many fired. Each written path must be the complete path
// of one write; callers never pass both a path and its ancestor for the
// same write.
//
// Matching is segment-aware on whole path segments, never a raw string
// prefix test: a subscriber on "todos.1" does not match a write to
// "todos.10". A subscriber fires when its path equals a written path, lives
// inside a written subtree (ancestor write), or encloses one (descendant
// write) — and at most once per round even when several written paths
// match. Whole-state subscribers always fire with the new snapshot.
func (s *Store) dispatch(snapshot any, written [][]string) int {
	notified := 0
	// Snapshot the registry so unsubscribes from inside callbacks do not
	// disturb this round.
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		if sub.path == nil {
			sub.fn(snapshot)
			notified++
			continue
		}
		for _, write := range written {
			if !treepath.HasPrefix(sub.path, write) && !treepath.HasPrefix(write, sub.path) {
				continue
			}
			value, _ := treepath.Get(snapshot, sub.path)
			sub.fn(value)
			notified++
			break
		}
	}
	s.evaluateWatches(snapshot, written)
	return notified
}
