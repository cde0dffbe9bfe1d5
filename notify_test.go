package pathstore

import (
	"reflect"
	"testing"
)

// counter tracks invocations per subscription path for fan-out assertions.
type counter struct {
	calls  int
	values []any
}

func (c *counter) subscriber() Subscriber {
	return func(value any) {
		c.calls++
		c.values = append(c.values, value)
	}
}

func TestPointWriteNotifiesExactlyOncePerRelatedSubscriber(t *testing.T) {
	store := New(todoState())

	watched := map[string]*counter{}
	for _, path := range []string{
		"todos",
		"todos.0",
		"todos.0.tags",
		"todos.0.tags.0",
		"todos.0.tags.1",
		"todos.0.text",
		"todos.0.completed",
		"filter",
	} {
		c := &counter{}
		watched[path] = c
		store.SubscribePath(path, c.subscriber())
	}
	whole := &counter{}
	store.Subscribe(whole.subscriber())

	store.SetPath("todos.0.tags", []any{"tag 1", "tag 2"})

	for _, path := range []string{"todos", "todos.0", "todos.0.tags", "todos.0.tags.0", "todos.0.tags.1"} {
		if got := watched[path].calls; got != 1 {
			t.Fatalf("expected subscriber %q to fire once, got %d", path, got)
		}
	}
	for _, path := range []string{"todos.0.text", "todos.0.completed", "filter"} {
		if got := watched[path].calls; got != 0 {
			t.Fatalf("expected sibling subscriber %q to stay silent, got %d", path, got)
		}
	}
	if whole.calls != 1 {
		t.Fatalf("expected whole-state subscriber to fire once, got %d", whole.calls)
	}

	if got := watched["todos.0.tags"].values[0]; !reflect.DeepEqual(got, []any{"tag 1", "tag 2"}) {
		t.Fatalf("expected exact subscriber to receive the written value, got %v", got)
	}
	if got := watched["todos.0.tags.1"].values[0]; got != "tag 2" {
		t.Fatalf("expected descendant subscriber to receive its slice, got %v", got)
	}
	if got := watched["todos.0.tags.0"].values[0]; got != "tag 1" {
		t.Fatalf("expected descendant subscriber to receive its slice, got %v", got)
	}
}

func TestNumericSegmentsDoNotPrefixMatch(t *testing.T) {
	todos := make([]any, 11)
	for i := range todos {
		todos[i] = map[string]any{"text": "t"}
	}
	store := New(map[string]any{"todos": todos})

	one := &counter{}
	ten := &counter{}
	store.SubscribePath("todos.1", one.subscriber())
	store.SubscribePath("todos.10", ten.subscriber())

	store.SetPath("todos.10.text", "changed")

	if one.calls != 0 {
		t.Fatalf("expected todos.1 subscriber to stay silent on a todos.10 write, got %d", one.calls)
	}
	if ten.calls != 1 {
		t.Fatalf("expected todos.10 subscriber to fire once, got %d", ten.calls)
	}

	store.SetPath("todos.1.text", "changed too")

	if one.calls != 1 {
		t.Fatalf("expected todos.1 subscriber to fire once, got %d", one.calls)
	}
	if ten.calls != 1 {
		t.Fatalf("expected todos.10 subscriber to stay at one call, got %d", ten.calls)
	}
}

func TestWholeStateReplaceFansOutConservatively(t *testing.T) {
	store := New(todoState())

	filter := &counter{}
	todoText := &counter{}
	store.SubscribePath("filter", filter.subscriber())
	store.SubscribePath("todos.1.text", todoText.subscriber())

	next := todoState()
	next["filter"] = "completed"
	store.SetState(next)

	if filter.calls != 1 || filter.values[0] != "completed" {
		t.Fatalf("expected filter subscriber notified with new value, got %+v", filter)
	}
	// The todo text did not change, but replace-all treats every top-level
	// key as possibly changed.
	if todoText.calls != 1 || todoText.values[0] != "todo 2" {
		t.Fatalf("expected todos.1.text subscriber notified despite unchanged value, got %+v", todoText)
	}
}

func TestSubscriberFiresAtMostOncePerRound(t *testing.T) {
	store := New(todoState())

	c := &counter{}
	store.SubscribePath("todos.0", c.subscriber())

	// Replace-all reports both top-level keys; the subscriber relates to
	// only one of them and must still fire exactly once.
	store.SetState(todoState())

	if c.calls != 1 {
		t.Fatalf("expected one notification per round, got %d", c.calls)
	}
}

func TestReplaceWithScalarNotifiesOnlyWholeStateSubscribers(t *testing.T) {
	store := New(todoState())

	scoped := &counter{}
	whole := &counter{}
	store.SubscribePath("filter", scoped.subscriber())
	store.Subscribe(whole.subscriber())

	store.SetState("frozen")

	if scoped.calls != 0 {
		t.Fatalf("expected path subscriber to stay silent for a scalar snapshot, got %d", scoped.calls)
	}
	if whole.calls != 1 || whole.values[0] != "frozen" {
		t.Fatalf("expected whole-state subscriber to receive the scalar, got %+v", whole)
	}
}

func TestUnsubscribeDuringDispatchDoesNotDisturbRound(t *testing.T) {
	store := New(todoState())

	var later *counter = &counter{}
	var unsubscribeLater func()
	store.SubscribePath("filter", func(any) {
		unsubscribeLater()
	})
	unsubscribeLater = store.SubscribePath("filter", later.subscriber())

	store.SetPath("filter", "active")

	if later.calls != 1 {
		t.Fatalf("expected the already-snapshotted subscriber to fire this round, got %d", later.calls)
	}

	store.SetPath("filter", "completed")
	if later.calls != 1 {
		t.Fatalf("expected no further notifications after unsubscribe, got %d", later.calls)
	}
}
