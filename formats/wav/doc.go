// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding for the asset bank and PCM 16-bit writing for
// rendered mixes.
//
// Decoding goes through github.com/go-audio/wav, so files with extra chunks
// (LIST, fact, ...) before the data chunk are accepted. Supported sample formats
// are integer PCM at 16, 24 and 32 bits, any channel count and sample rate.
//
//	src, err := wav.Decoder{}.Decode(file)
//
// Non seekable readers are buffered in memory first.
//
// # Writing
//
// WritePCM16 streams an interleaved 16-bit file to any io.Writer, which is how
// softgraph bounces are stored:
//
//	err := wav.WritePCM16(out, 48000, 2, samples)
package wav
