// SPDX-License-Identifier: EPL-2.0

// Package voice manages the sounds and streams playing on an audio graph.
//
// The Engine keeps two fixed-size tables, one for voices (in-memory sounds)
// and one for streams, and hands out generational handles into them. A handle
// outlives the sound it refers to: once the slot is reclaimed every operation
// on the old handle reports ErrNotFound, even when the slot already holds a
// new sound.
//
// Admission shares one budget between both tables:
//
//	free = voices.NumFreeSlots() - streams.NumUsedSlots()
//
// A request is rejected when free drops to zero. When free is at or below the
// configured slop size, the first voice (by slot index) with a strictly lower
// priority than the request is faded out and stopped to make room. Streams
// are never evicted.
//
// Voice slots are only reclaimed from the graph's ended notification, whether
// the sound finished, was stopped, or was evicted.
package voice
