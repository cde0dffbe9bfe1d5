package pathstore

import "testing"

func TestMountFiresOnFirstSubscriberOnly(t *testing.T) {
	store := New(todoState())

	var mounts, unmounts int
	store.OnMount(func() func() {
		mounts++
		return func() { unmounts++ }
	})

	first := store.Subscribe(func(any) {})
	second := store.SubscribePath("filter", func(any) {})

	if mounts != 1 {
		t.Fatalf("expected mount hook to fire once, got %d", mounts)
	}

	first()
	if unmounts != 0 {
		t.Fatalf("expected no unmount while a subscriber remains, got %d", unmounts)
	}

	second()
	if unmounts != 1 {
		t.Fatalf("expected unmount hook to fire once, got %d", unmounts)
	}
}

func TestMountUnmountCyclesRepeatIndependently(t *testing.T) {
	store := New(todoState())

	var mounts, unmounts int
	store.OnMount(func() func() {
		mounts++
		return func() { unmounts++ }
	})

	for cycle := 1; cycle <= 3; cycle++ {
		unsubscribe := store.Subscribe(func(any) {})
		unsubscribe()
		if mounts != cycle || unmounts != cycle {
			t.Fatalf("cycle %d: expected %d mounts and unmounts, got %d/%d", cycle, cycle, mounts, unmounts)
		}
	}
}

func TestMountHookWithoutUnmountCallback(t *testing.T) {
	store := New(todoState())

	var mounts int
	store.OnMount(func() func() {
		mounts++
		return nil
	})

	unsubscribe := store.Subscribe(func(any) {})
	unsubscribe()

	if mounts != 1 {
		t.Fatalf("expected one mount, got %d", mounts)
	}

	// A second cycle mounts again even though the first returned no
	// unmount callback.
	unsubscribe = store.Subscribe(func(any) {})
	unsubscribe()
	if mounts != 2 {
		t.Fatalf("expected two mounts, got %d", mounts)
	}
}

func TestOnMountReplacesPreviousHook(t *testing.T) {
	store := New(todoState())

	var first, second int
	store.OnMount(func() func() { first++; return nil })
	store.OnMount(func() func() { second++; return nil })

	unsubscribe := store.Subscribe(func(any) {})
	defer unsubscribe()

	if first != 0 || second != 1 {
		t.Fatalf("expected only the latest hook to fire, got first=%d second=%d", first, second)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	store := New(todoState())

	var unmounts int
	store.OnMount(func() func() {
		return func() { unmounts++ }
	})

	unsubscribe := store.Subscribe(func(any) {})
	other := store.Subscribe(func(any) {})

	unsubscribe()
	unsubscribe()
	if unmounts != 0 {
		t.Fatalf("expected repeated unsubscribe to be a no-op, got %d unmounts", unmounts)
	}

	other()
	if unmounts != 1 {
		t.Fatalf("expected one unmount after the last subscriber left, got %d", unmounts)
	}
}
