package pathstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-pathstore/treepath"
)

// pendingEntry records one mutation issued inside an open batch: the
// snapshot it produced and the paths it wrote.
type pendingEntry struct {
	snapshot any
	paths    [][]string
}

// Batch executes fn synchronously while deferring notification: every
// mutation issued inside fn records a pending entry instead of notifying.
// When fn returns, entries that wrote the same path set are collapsed to
// the most recent one, and one notification round runs per surviving
// entry, in the order the entries were produced. A path written three
// times in one batch is notified once, with the final value.
//
// Batch returns ErrNestedBatch when called while a batch is already open.
func (s *Store) Batch(fn func()) error {
	if fn == nil {
		return nil
	}
	if s.batching {
		return ErrNestedBatch
	}

	s.batching = true
	s.pending = nil
	func() {
		defer func() {
			s.batching = false
		}()
		fn()
	}()

	entries := coalescePending(s.pending)
	s.pending = nil

	for _, entry := range entries {
		start := time.Now()
		notified := s.dispatch(entry.snapshot, entry.paths)
		err := s.emitMutation(OpBatch, nil, nil, entry.snapshot, entry.paths)
		s.mutationLogger().LogMutation(MutationLogEvent{
			Op:       OpBatch,
			Paths:    joinPaths(entry.paths),
			Batched:  true,
			Notified: notified,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	return nil
}

// coalescePending keeps only the most recent entry per exact path set
// (paths compared as ordered lists) and preserves the production order of
// the survivors.
func coalescePending(pending []pendingEntry) []pendingEntry {
	if len(pending) < 2 {
		return pending
	}

	seen := make(map[string]struct{}, len(pending))
	survivors := make([]pendingEntry, 0, len(pending))
	for i := len(pending) - 1; i >= 0; i-- {
		key := pathSetKey(pending[i].paths)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		survivors = append(survivors, pending[i])
	}

	// The backward scan reversed the order; restore it.
	for left, right := 0, len(survivors)-1; left < right; left, right = left+1, right-1 {
		survivors[left], survivors[right] = survivors[right], survivors[left]
	}
	return survivors
}

func pathSetKey(paths [][]string) string {
	joined := make([]string, len(paths))
	for i, path := range paths {
		joined[i] = treepath.Join(path)
	}
	return strings.Join(joined, "\n")
}
