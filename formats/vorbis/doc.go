// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
// Ogg is the usual container for music streams, so this decoder is what
// softgraph media sources end up reading most of the time:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// Samples are interleaved float32 in [-1.0, 1.0] at the stream's own rate and
// channel count.
package vorbis
