// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF assets through github.com/go-audio/aiff.
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// go-audio needs to seek, so non seekable readers are buffered in memory.
package aiff
