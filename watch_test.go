package pathstore

import (
	"errors"
	"testing"
)

func TestWatchFiresWhenComputedValueChanges(t *testing.T) {
	store := New(todoState())

	filter := &counter{}
	unsubscribe, err := store.Watch("filter", filter.subscriber())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer unsubscribe()

	store.SetPath("filter", "active")
	if filter.calls != 1 || filter.values[0] != "active" {
		t.Fatalf("expected one watch notification with the new value, got %+v", filter)
	}

	// A write that leaves the computed value unchanged stays silent.
	store.SetPath("todos.0.completed", true)
	if filter.calls != 1 {
		t.Fatalf("expected unrelated write to stay silent, got %d", filter.calls)
	}

	// Rewriting the same value stays silent too.
	store.SetPath("filter", "active")
	if filter.calls != 1 {
		t.Fatalf("expected same-value write to stay silent, got %d", filter.calls)
	}
}

func TestWatchDetachesCleanly(t *testing.T) {
	store := New(todoState())

	c := &counter{}
	unsubscribe, err := store.Watch("filter", c.subscriber())
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	store.SetPath("filter", "active")
	unsubscribe()
	store.SetPath("filter", "completed")

	if c.calls != 1 {
		t.Fatalf("expected no notifications after detach, got %d", c.calls)
	}
}

func TestWatchRejectsInvalidExpression(t *testing.T) {
	store := New(todoState())

	_, err := store.Watch("((", func(any) {})
	if err == nil {
		t.Fatalf("expected registration to surface the compile error")
	}
	var watchErr *WatchError
	if !errors.As(err, &watchErr) {
		t.Fatalf("expected a WatchError, got %T: %v", err, err)
	}
	if watchErr.Engine != "expr" || watchErr.Expr != "((" {
		t.Fatalf("unexpected watch error metadata: %+v", watchErr)
	}
}

func TestWatchRequiresExpressionAndCallback(t *testing.T) {
	store := New(todoState())

	if _, err := store.Watch("", func(any) {}); err == nil {
		t.Fatalf("expected empty expression to fail")
	}
	if _, err := store.Watch("filter", nil); err == nil {
		t.Fatalf("expected nil callback to fail")
	}
}

func TestWatchUsesCustomFunctions(t *testing.T) {
	store := New(map[string]any{"count": 2},
		WithCustomFunction("double", func(args ...any) (any, error) {
			n, _ := args[0].(int)
			return n * 2, nil
		}),
	)

	c := &counter{}
	if _, err := store.Watch("double(count)", c.subscriber()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	store.SetPath("count", 5)
	if c.calls != 1 || c.values[0] != 10 {
		t.Fatalf("expected doubled value from the registry function, got %+v", c)
	}
}

func TestWatchLoggerRecordsEvaluations(t *testing.T) {
	var events []WatchLogEvent
	store := New(todoState(), WithWatchLogger(WatchLoggerFunc(func(event WatchLogEvent) {
		events = append(events, event)
	})))

	if _, err := store.Watch("filter", func(any) {}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	store.SetPath("filter", "active")

	if len(events) != 2 {
		t.Fatalf("expected baseline and round evaluations logged, got %d", len(events))
	}
	for _, event := range events {
		if event.Engine != "expr" || event.Expr != "filter" || event.Err != nil {
			t.Fatalf("unexpected watch log event: %+v", event)
		}
	}
}

func TestWatchEvaluationErrorSkipsRound(t *testing.T) {
	var failures int
	store := New(todoState(), WithWatchLogger(WatchLoggerFunc(func(event WatchLogEvent) {
		if event.Err != nil {
			failures++
		}
	})))

	c := &counter{}
	// Indexing fails once the snapshot is no longer a container.
	if _, err := store.Watch(`todos[0].text`, c.subscriber()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	store.SetState("scalar snapshot")
	if c.calls != 0 {
		t.Fatalf("expected failing round to skip the callback, got %d", c.calls)
	}

	store.SetState(todoState())
	store.SetPath("todos.0.text", "renamed")
	if c.calls == 0 {
		t.Fatalf("expected a later successful round to fire")
	}
	if c.values[len(c.values)-1] != "renamed" {
		t.Fatalf("expected the recovered value, got %v", c.values)
	}
}

func TestWatchWithCELEvaluator(t *testing.T) {
	store := New(todoState(), WithEvaluator(NewCELEvaluator()))

	c := &counter{}
	if _, err := store.Watch(`filter == 'active'`, c.subscriber()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	store.SetPath("filter", "active")
	if c.calls != 1 || c.values[0] != true {
		t.Fatalf("expected CEL predicate to flip to true, got %+v", c)
	}

	store.SetPath("filter", "completed")
	if c.calls != 2 || c.values[1] != false {
		t.Fatalf("expected CEL predicate to flip back to false, got %+v", c)
	}
}

func TestWatchInsideBatchEvaluatesPerSurvivingRound(t *testing.T) {
	store := New(todoState())

	c := &counter{}
	if _, err := store.Watch("filter", c.subscriber()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	err := store.Batch(func() {
		store.SetPath("filter", "u1")
		store.SetPath("filter", "u2")
		store.SetPath("filter", "u3")
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	if c.calls != 1 || c.values[0] != "u3" {
		t.Fatalf("expected one coalesced watch notification with the final value, got %+v", c)
	}
}

func TestJSEvaluatorStubWithoutBuildTag(t *testing.T) {
	if jsEvaluatorAvailable() {
		t.Skip("js_eval build tag enabled")
	}
	if evaluator := NewJSEvaluator(); evaluator != nil {
		t.Fatalf("expected nil JS evaluator without the js_eval build tag")
	}
}
