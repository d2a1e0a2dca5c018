package timerwheel

import "testing"

func TestNextDelayEmpty(t *testing.T) {
	w := New()
	if d := w.NextDelayMillis(0); d != -1 {
		t.Fatalf("NextDelayMillis on empty wheel = %d, want -1", d)
	}
}

func TestAddAndNextDelay(t *testing.T) {
	w := New()
	w.Add("a", 1000, func(any) {})
	w.Add("b", 500, func(any) {})
	w.Add("c", 1500, func(any) {})

	if d := w.NextDelayMillis(0); d != 500 {
		t.Fatalf("NextDelayMillis = %d, want 500 (earliest deadline)", d)
	}
}

func TestNextDelayClampsToZeroWhenPast(t *testing.T) {
	w := New()
	w.Add("a", 100, func(any) {})
	if d := w.NextDelayMillis(500); d != 0 {
		t.Fatalf("NextDelayMillis = %d, want 0 for a past deadline", d)
	}
}

// P4: sweep(t) invokes expiry iff t >= deadline.
func TestSweepFiresOnlyPastDeadlines(t *testing.T) {
	w := New()
	var fired []string
	w.Add("early", 100, func(c any) { fired = append(fired, c.(string)) })
	w.Add("late", 200, func(c any) { fired = append(fired, c.(string)) })

	w.Sweep(150)
	if len(fired) != 1 || fired[0] != "early" {
		t.Fatalf("fired = %v, want [early]", fired)
	}
	if w.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (late still pending)", w.Len())
	}

	w.Sweep(200)
	if len(fired) != 2 || fired[1] != "late" {
		t.Fatalf("fired = %v, want [early late]", fired)
	}
	if w.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", w.Len())
	}
}

func TestSweepAtExactDeadlineFires(t *testing.T) {
	w := New()
	fired := false
	w.Add("x", 100, func(any) { fired = true })
	w.Sweep(100)
	if !fired {
		t.Fatal("entry with deadline == now did not fire")
	}
}

// Equal deadlines expire in insertion order (spec §4.5 tie-break).
func TestEqualDeadlinesFireInInsertionOrder(t *testing.T) {
	w := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		w.Add(i, 100, func(any) { order = append(order, i) })
	}
	w.Sweep(100)
	want := []int{0, 1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRemoveBeforeExpiryPreventsFiring(t *testing.T) {
	w := New()
	fired := false
	h := w.Add("x", 100, func(any) { fired = true })
	w.Remove(h)

	if w.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after Remove", w.Len())
	}
	w.Sweep(1000)
	if fired {
		t.Fatal("removed entry fired on sweep")
	}
}

// Remove is idempotent (spec §4.5).
func TestRemoveTwiceIsSafe(t *testing.T) {
	w := New()
	h := w.Add("x", 100, func(any) {})
	w.Remove(h)
	w.Remove(h) // must not panic
	if w.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", w.Len())
	}
}

func TestRemoveNilHandleIsSafe(t *testing.T) {
	w := New()
	w.Remove(nil) // must not panic
}

func TestRemoveMiddleOfManyPreservesOthers(t *testing.T) {
	w := New()
	var fired []int
	h0 := w.Add(0, 100, func(any) { fired = append(fired, 0) })
	_ = h0
	h1 := w.Add(1, 50, func(any) { fired = append(fired, 1) })
	w.Add(2, 150, func(any) { fired = append(fired, 2) })

	w.Remove(h1)
	w.Sweep(1000)

	if len(fired) != 2 {
		t.Fatalf("fired = %v, want 2 entries (1 removed)", fired)
	}
	// Removed entry (deadline 50, would be earliest) must not appear.
	for _, v := range fired {
		if v == 1 {
			t.Fatalf("removed entry fired: %v", fired)
		}
	}
}
