// SPDX-License-Identifier: EPL-2.0

// Package softgraph is a software implementation of the graph interfaces.
//
// The graph is pulled: nothing happens until Render, Advance or Bounce asks
// for audio, and the clock only moves by the number of frames rendered. That
// makes playback deterministic and lets tests step through fades and
// scheduled stops sample by sample. Run drives the same graph in real time
// and writes 16-bit PCM to any io.Writer.
//
// Ended notifications and AfterFunc timers are delivered from the goroutine
// that renders, after the graph lock has been released, so callbacks may call
// back into the graph.
//
// Media sources never block the caller or the renderer. Each one owns a
// reader goroutine that opens its URL, decodes ahead into a bounded queue and
// reopens the URL at the end to loop. A slow or failed stream renders silence.
package softgraph
