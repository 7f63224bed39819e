// SPDX-License-Identifier: EPL-2.0

// Package arena provides a fixed-capacity slot allocator with generational handles.
//
// An Arena holds at most Cap() values. Add stores a value in a free slot and returns
// a Handle made of the slot index and the slot's current generation. Remove empties
// the slot and increments its generation, so every Handle issued for the previous
// occupant stops resolving, even after the slot is reused:
//
//	a, _ := arena.New[string](2)
//	h, _ := a.Add("kick")
//	a.Remove(h)
//	h2, _ := a.Add("snare") // same index, generation+1
//	_, ok := a.Get(h)       // ok == false
//
// # Handles
//
// A Handle is plain data. It is only meaningful against the Arena that issued it;
// passing it to a different Arena is undefined (it may resolve to an unrelated value).
//
// # Failure Semantics
//
// Every method is total. Out of range indexes, stale generations and empty slots are
// reported through the boolean result and never panic.
//
// # Concurrency
//
// An Arena is not safe for concurrent use. Callers that share one across goroutines
// must serialize access, as the voice engine does with a single mutex.
package arena
