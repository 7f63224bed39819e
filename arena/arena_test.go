// SPDX-License-Identifier: EPL-2.0

package arena

import (
	"errors"
	"testing"
)

func TestNew_InvalidSize(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1, -100} {
		_, err := New[int](size)
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestArena_FillsInIndexOrder(t *testing.T) {
	t.Parallel()

	a, err := New[string](4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for want := range 4 {
		h, ok := a.Add("x")
		if !ok {
			t.Fatalf("Add() #%d failed", want)
		}
		if h.Index != uint32(want) || h.Generation != 0 {
			t.Errorf("Add() #%d = %v, want %d@0", want, h, want)
		}
	}
}

func TestArena_RoundTrip(t *testing.T) {
	t.Parallel()

	a, _ := New[string](2)

	hA, _ := a.Add("A")
	hB, _ := a.Add("B")

	if hA != (Handle{Index: 0, Generation: 0}) {
		t.Fatalf("hA = %v, want 0@0", hA)
	}
	if hB != (Handle{Index: 1, Generation: 0}) {
		t.Fatalf("hB = %v, want 1@0", hB)
	}

	if _, ok := a.Remove(hA); !ok {
		t.Fatal("Remove(hA) reported not found")
	}

	hC, ok := a.Add("C")
	if !ok {
		t.Fatal("Add(C) failed")
	}
	if hC != (Handle{Index: 0, Generation: 1}) {
		t.Fatalf("hC = %v, want 0@1", hC)
	}

	if v, ok := a.Get(hA); ok {
		t.Errorf("Get(hA) = %q, want not found", v)
	}
	if v, ok := a.Get(hC); !ok || v != "C" {
		t.Errorf("Get(hC) = %q, %v, want C, true", v, ok)
	}
	if got := a.NumUsedSlots(); got != 2 {
		t.Errorf("NumUsedSlots() = %d, want 2", got)
	}
}

func TestArena_StaleHandleRejected(t *testing.T) {
	t.Parallel()

	a, _ := New[int](1)

	h, _ := a.Add(1)
	a.Remove(h)
	reused, _ := a.Add(2)

	if reused.Index != h.Index {
		t.Fatalf("slot not reused: %v vs %v", reused, h)
	}
	if a.Valid(h) {
		t.Error("Valid(stale) = true")
	}
	if _, ok := a.Get(h); ok {
		t.Error("Get(stale) found a value")
	}
	if _, ok := a.Remove(h); ok {
		t.Error("Remove(stale) reported success")
	}

	// The new occupant must be untouched by the stale remove.
	if v, ok := a.Get(reused); !ok || v != 2 {
		t.Errorf("Get(reused) = %d, %v, want 2, true", v, ok)
	}
	if a.NumUsedSlots() != 1 {
		t.Errorf("NumUsedSlots() = %d, want 1", a.NumUsedSlots())
	}
}

func TestArena_InvalidHandles(t *testing.T) {
	t.Parallel()

	a, _ := New[int](2)
	a.Add(10)

	tests := []struct {
		name string
		h    Handle
	}{
		{"index out of range", Handle{Index: 2}},
		{"huge index", Handle{Index: ^uint32(0)}},
		{"empty slot", Handle{Index: 1}},
		{"future generation", Handle{Index: 0, Generation: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a.Valid(tt.h) {
				t.Errorf("Valid(%v) = true", tt.h)
			}
			if _, ok := a.Get(tt.h); ok {
				t.Errorf("Get(%v) found a value", tt.h)
			}
			if _, ok := a.Remove(tt.h); ok {
				t.Errorf("Remove(%v) reported success", tt.h)
			}
		})
	}

	if a.NumUsedSlots() != 1 || a.NumFreeSlots() != 1 {
		t.Errorf("bookkeeping changed: used=%d free=%d", a.NumUsedSlots(), a.NumFreeSlots())
	}
}

func TestArena_GenerationMonotonic(t *testing.T) {
	t.Parallel()

	a, _ := New[int](3)
	removals := make([]uint64, 3)

	var live []Handle
	for step := range 200 {
		// Deterministic mix of adds and removes.
		if step%3 != 2 || len(live) == 0 {
			if h, ok := a.Add(step); ok {
				live = append(live, h)
			}
			continue
		}

		victim := live[step%len(live)]
		live = append(live[:step%len(live)], live[step%len(live)+1:]...)

		before := a.slots[victim.Index].generation
		if _, ok := a.Remove(victim); !ok {
			t.Fatalf("Remove(%v) failed", victim)
		}
		removals[victim.Index]++

		if after := a.slots[victim.Index].generation; after != before+1 {
			t.Fatalf("generation of slot %d went %d -> %d", victim.Index, before, after)
		}
	}

	for i, n := range removals {
		if a.slots[i].generation != n {
			t.Errorf("slot %d generation = %d, want %d", i, a.slots[i].generation, n)
		}
	}
}

func TestArena_NoDoubleAllocation(t *testing.T) {
	t.Parallel()

	a, _ := New[int](8)
	live := map[Handle]bool{}

	for round := range 50 {
		for {
			h, ok := a.Add(round)
			if !ok {
				break
			}
			if live[h] {
				t.Fatalf("handle %v issued twice", h)
			}
			live[h] = true
		}

		// Free every other slot.
		for h := range live {
			if h.Index%2 == uint32(round%2) {
				a.Remove(h)
				delete(live, h)
			}
		}

		seen := map[uint32]bool{}
		for h := range live {
			if seen[h.Index] {
				t.Fatalf("two live handles share index %d", h.Index)
			}
			seen[h.Index] = true
		}
	}
}

func TestArena_CapacityBound(t *testing.T) {
	t.Parallel()

	a, _ := New[int](3)

	for i := range 3 {
		if a.NumFreeSlots() == 0 {
			t.Fatalf("NumFreeSlots() = 0 before add #%d", i)
		}
		if _, ok := a.Add(i); !ok {
			t.Fatalf("Add() #%d failed with free slots", i)
		}
	}

	if a.NumFreeSlots() != 0 {
		t.Fatalf("NumFreeSlots() = %d, want 0", a.NumFreeSlots())
	}
	if _, ok := a.Add(99); ok {
		t.Error("Add() succeeded on a full arena")
	}
	if a.Cap() != 3 || a.NumUsedSlots() != 3 {
		t.Errorf("Cap()=%d NumUsedSlots()=%d, want 3/3", a.Cap(), a.NumUsedSlots())
	}
}

func TestArena_FindFirstAscending(t *testing.T) {
	t.Parallel()

	a, _ := New[int](5)
	for _, v := range []int{5, 1, 7, 1, 3} {
		a.Add(v)
	}

	h, v, ok := a.FindFirst(func(_ Handle, v int) bool { return v < 4 })
	if !ok || h.Index != 1 || v != 1 {
		t.Errorf("FindFirst(v<4) = %v, %d, %v, want index 1", h, v, ok)
	}

	// Removing the first match moves the scan to the next index.
	a.Remove(h)
	h, _, ok = a.FindFirst(func(_ Handle, v int) bool { return v < 4 })
	if !ok || h.Index != 3 {
		t.Errorf("FindFirst after remove = %v, %v, want index 3", h, ok)
	}

	if _, _, ok := a.FindFirst(func(Handle, int) bool { return false }); ok {
		t.Error("FindFirst(false) reported a match")
	}
}

func TestArena_Handles(t *testing.T) {
	t.Parallel()

	a, _ := New[int](4)
	h0, _ := a.Add(0)
	h1, _ := a.Add(1)
	h2, _ := a.Add(2)
	a.Remove(h1)

	got := a.Handles()
	if len(got) != 2 || got[0] != h0 || got[1] != h2 {
		t.Errorf("Handles() = %v, want [%v %v]", got, h0, h2)
	}
}

func BenchmarkArena_AddRemove(b *testing.B) {
	a, _ := New[int](64)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		h, _ := a.Add(1)
		a.Remove(h)
	}
}

func BenchmarkArena_Get(b *testing.B) {
	a, _ := New[int](64)
	h, _ := a.Add(1)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = a.Get(h)
	}
}
