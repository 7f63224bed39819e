// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 assets and streams through github.com/hajimehoshi/go-mp3.
//
//	src, err := mp3.Decoder{}.Decode(file)
//
// Output is always stereo float32 in [-1.0, 1.0] at the file's sample rate;
// the asset bank resamples it to the graph rate.
package mp3
