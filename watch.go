package pathstore

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// watchEntry tracks one registered watch expression and the value it
// produced on the previous round.
type watchEntry struct {
	id         uuid.UUID
	expression string
	fn         Subscriber
	last       any
}

// Watch registers a derived subscriber: after every notification round the
// expression is evaluated against the new snapshot and fn is invoked when
// the computed value differs from the previous round. The expression is
// evaluated once at registration to seed the comparison baseline and to
// surface compile errors early. The returned function detaches the watch.
func (s *Store) Watch(expression string, fn Subscriber) (func(), error) {
	if expression == "" {
		return nil, fmt.Errorf("pathstore: watch expression must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("pathstore: watch callback must not be empty")
	}

	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	baseline, err := s.evaluateWatch(evaluator, expression, WatchContext{Snapshot: s.value})
	if err != nil {
		return nil, err
	}

	entry := &watchEntry{
		id:         uuid.New(),
		expression: expression,
		fn:         fn,
		last:       baseline,
	}
	s.watches = append(s.watches, entry)
	return func() { s.removeWatch(entry.id) }, nil
}

func (s *Store) removeWatch(id uuid.UUID) {
	kept := s.watches[:0]
	for _, entry := range s.watches {
		if entry.id == id {
			continue
		}
		kept = append(kept, entry)
	}
	s.watches = kept
}

// evaluateWatches runs every registered watch against the new snapshot.
// Evaluation failures are logged and skip the entry for this round; the
// previous baseline is kept so a later successful round can still detect
// the change.
func (s *Store) evaluateWatches(snapshot any, written [][]string) {
	if len(s.watches) == 0 {
		return
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		s.watchLogger().LogWatch(WatchLogEvent{Err: err})
		return
	}

	ctx := WatchContext{Snapshot: snapshot, Paths: joinPaths(written)}
	entries := append([]*watchEntry(nil), s.watches...)
	for _, entry := range entries {
		value, err := s.evaluateWatch(evaluator, entry.expression, ctx)
		if err != nil {
			continue
		}
		if reflect.DeepEqual(value, entry.last) {
			continue
		}
		entry.last = value
		entry.fn(value)
	}
}

// evaluateWatch times one evaluation, wraps its error, and logs it.
func (s *Store) evaluateWatch(evaluator Evaluator, expression string, ctx WatchContext) (any, error) {
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expression)
	err = wrapWatchError(engine, expression, err)
	s.watchLogger().LogWatch(WatchLogEvent{
		Engine:   engine,
		Expr:     expression,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// resolveEvaluator returns the configured evaluator, constructing and
// remembering an expr-backed default when none was supplied.
func (s *Store) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := s.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := s.functionRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*pathstore.exprEvaluator":
		return "expr"
	case "*pathstore.celEvaluator":
		return "cel"
	case "*pathstore.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
