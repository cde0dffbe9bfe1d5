package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	paths := []string{"todos.0", "filter"}
	evt := Event{
		Verb:       " state.path.updated ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " state.path ",
		ObjectID:   " todos.0 ",
		Channel:    " state ",
		Path:       " todos.0 ",
		Paths:      paths,
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "state.path.updated" || got.ObjectType != "state.path" || got.ObjectID != "todos.0" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "state" || got.Path != "todos.0" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	if got.Metadata["k"] != "v" {
		t.Fatalf("expected metadata value preserved: %+v", got.Metadata)
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
	got.Paths[0] = "changed"
	if paths[0] != "todos.0" {
		t.Fatalf("expected original paths untouched: %+v", paths)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	hooks := Hooks{&CaptureHook{}}
	err := hooks.Notify(context.Background(), Event{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	capture := hooks[0].(*CaptureHook)
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	errOne := errors.New("boom1")
	errTwo := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return errOne }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return errTwo }),
	}

	err := hooks.Notify(nil, Event{Verb: "state.replaced", ObjectType: "state", ObjectID: "state"})
	if err == nil || !errors.Is(err, errOne) || !errors.Is(err, errTwo) {
		t.Fatalf("expected joined error carrying both failures, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected nil context to be replaced with a background context")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one captured event, got %d", len(capture.Events))
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	event := Event{Verb: "state.replaced", ObjectType: "state", ObjectID: "state", OccurredAt: time.Now()}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "state" {
		t.Fatalf("expected default channel %q, got %q", "state", capture.Events[0].Channel)
	}
}

func TestEmitterDisabledIsSilent(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: false})

	if err := emitter.Emit(context.Background(), Event{Verb: "state.replaced", ObjectType: "state", ObjectID: "state"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events from a disabled emitter, got %d", len(capture.Events))
	}

	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("expected nil emitter to report disabled")
	}
}
