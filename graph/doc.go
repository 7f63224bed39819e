// SPDX-License-Identifier: EPL-2.0

// Package graph defines the audio graph capabilities the voice engine drives.
//
// The engine never renders audio itself. It creates nodes through a Context, wires
// them (source -> pan -> gain -> mixer or destination) and schedules start, stop and
// gain automation against the Context clock. An implementation decides how those
// nodes become sound: graph/softgraph renders them in pure Go, other backends can
// wrap a platform mixer.
//
// # Timing
//
// All scheduled times are positions on the Context clock as returned by Now.
// Start, Stop, SetGain and RampGain are expected to be sample accurate;
// AfterFunc is best effort.
//
// # Callbacks
//
// OnEnded and AfterFunc callbacks must fire at most once, and never synchronously
// from inside a Context or Node method. They may run on another goroutine, so
// whoever registers them has to serialize the state they touch.
package graph
