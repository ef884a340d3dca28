package reactive

import "testing"

func TestBatchCoalescesNotifications(t *testing.T) {
	count := NewSignal(0)

	notified := 0
	cancel := count.Watch(func() { notified++ })
	defer cancel()

	Batch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})

	if notified != 1 {
		t.Errorf("expected 1 coalesced notification, got %d", notified)
	}
	if count.Get() != 3 {
		t.Errorf("expected final value 3, got %d", count.Get())
	}
}

func TestBatchMultipleSignals(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	runs := 0
	sum := NewComputed(func() int {
		runs++
		return a.Get() + b.Get()
	})
	defer sum.Dispose()

	Batch(func() {
		a.Set(1)
		b.Set(2)
	})

	// One recompute for the whole batch, not one per write.
	if runs != 2 {
		t.Errorf("expected 2 total runs (initial + batch), got %d", runs)
	}
	if sum.Get() != 3 {
		t.Errorf("expected 3, got %d", sum.Get())
	}
}

func TestBatchNested(t *testing.T) {
	count := NewSignal(0)

	notified := 0
	cancel := count.Watch(func() { notified++ })
	defer cancel()

	Batch(func() {
		count.Set(1)
		Batch(func() {
			count.Set(2)
		})
		if notified != 0 {
			t.Errorf("inner batch exit should not flush, got %d notifications", notified)
		}
	})

	if notified != 1 {
		t.Errorf("expected 1 notification at outermost exit, got %d", notified)
	}
}

func TestBatchEmptyIsNoOp(t *testing.T) {
	Batch(func() {})
}
