package pathstore

import (
	"context"
	"time"

	"github.com/goliatone/go-pathstore/pkg/activity"
	"github.com/goliatone/go-pathstore/treepath"
)

// Mutation operation names used in log events and tests.
const (
	OpReplace = "replace"
	OpSet     = "set"
	OpClear   = "clear"
	OpBatch   = "batch"
)

// Store owns one nested value and notifies path-scoped subscribers when
// the slice they watch changes. Every write produces a new snapshot with
// structural sharing, so reference inequality between successive reads is
// the change signal.
//
// A Store is single-threaded and fully synchronous: every method completes
// before it returns, and notifications fire in program order. Calling a
// mutating method from inside a subscriber callback re-enters the
// notification path and can recurse indefinitely; it is forbidden and not
// guarded against.
type Store struct {
	cfg storeConfig

	value   any
	subs    []subscription
	watches []*watchEntry

	mountHook   func() func()
	unmountHook func()

	batching bool
	pending  []pendingEntry
}

// New constructs a Store around the provided initial value.
func New(initial any, opts ...Option) *Store {
	return &Store{
		cfg:   applyOptions(opts),
		value: initial,
	}
}

// State returns the current snapshot without copying.
func (s *Store) State() any {
	return s.value
}

// Path returns the value at a dotted path, or nil when the path does not
// resolve. Absent intermediate structure is not an error.
func (s *Store) Path(path string) any {
	value, _ := treepath.Get(s.value, treepath.Split(path))
	return value
}

// PathOK returns the value at a dotted path and whether it resolved,
// distinguishing a stored nil from an absent path.
func (s *Store) PathOK(path string) (any, bool) {
	return treepath.Get(s.value, treepath.Split(path))
}

// SetState replaces the whole snapshot. The changed-path set is every
// top-level key of value, whether or not each key actually differs: a
// whole-state replacement treats every top-level field as possibly
// changed, so path-scoped subscribers under any top-level key fire.
func (s *Store) SetState(value any) {
	old := s.value
	s.value = value
	s.applyMutation(OpReplace, nil, old, value, treepath.TopLevel(value))
}

// SetPath writes value at a dotted path with structural sharing. Missing
// intermediate containers are synthesized on demand. An empty path is a
// no-op.
func (s *Store) SetPath(path string, value any) {
	segments := treepath.Split(path)
	if len(segments) == 0 {
		return
	}
	old, _ := treepath.Get(s.value, segments)
	s.value = treepath.Set(s.value, segments, value)
	s.applyMutation(OpSet, segments, old, value, [][]string{segments})
}

// ClearPath deletes the value at a dotted path. Deleting a path that does
// not resolve is a no-op: the snapshot keeps its identity and nothing is
// notified. With removeEmptyAncestors set, containers left empty by the
// removal are deleted as well.
func (s *Store) ClearPath(path string, removeEmptyAncestors bool) {
	segments := treepath.Split(path)
	old, _ := treepath.Get(s.value, segments)
	next, changed := treepath.Delete(s.value, segments, removeEmptyAncestors)
	if !changed {
		return
	}
	s.value = next
	s.applyMutation(OpClear, segments, old, nil, [][]string{segments})
}

// OnMount stores fn, replacing any previous mount hook. fn runs when the
// subscriber count transitions from zero to one; a non-nil callback it
// returns is remembered and runs when the count transitions back to zero.
// Each mount/unmount cycle repeats this independently.
func (s *Store) OnMount(fn func() func()) {
	s.mountHook = fn
}

// applyMutation records the write inside an open batch or dispatches it
// immediately.
func (s *Store) applyMutation(op string, path []string, old, value any, written [][]string) {
	if s.batching {
		s.pending = append(s.pending, pendingEntry{snapshot: s.value, paths: written})
		return
	}

	start := time.Now()
	notified := s.dispatch(s.value, written)
	err := s.emitMutation(op, path, old, value, written)
	s.mutationLogger().LogMutation(MutationLogEvent{
		Op:       op,
		Path:     treepath.Join(path),
		Paths:    joinPaths(written),
		Notified: notified,
		Duration: time.Since(start),
		Err:      err,
	})
}

func (s *Store) emitMutation(op string, path []string, old, value any, written [][]string) error {
	emitter := s.cfg.emitter
	if !emitter.Enabled() {
		return nil
	}

	input := activity.MutationInput{
		Path:     treepath.Join(path),
		Paths:    joinPaths(written),
		OldValue: old,
		NewValue: value,
	}

	var event activity.Event
	switch op {
	case OpReplace:
		event = activity.BuildStateReplacedEvent(input)
	case OpSet:
		event = activity.BuildPathUpdatedEvent(input)
	case OpClear:
		event = activity.BuildPathClearedEvent(input)
	case OpBatch:
		event = activity.BuildBatchAppliedEvent(input)
	default:
		return nil
	}
	return emitter.Emit(context.Background(), event)
}

func joinPaths(written [][]string) []string {
	if len(written) == 0 {
		return nil
	}
	joined := make([]string, len(written))
	for i, path := range written {
		joined[i] = treepath.Join(path)
	}
	return joined
}
