// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded-PCM primitives the asset bank and the
// software graph share.
//
// This package contains:
//   - Source interface for streaming decoded audio
//   - Decoder interface and a format Registry
//   - Resampler for sample rate conversion
//   - ChannelMapper for up/down mixing
//   - ReadAll to collect a whole Source into memory
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Decoders in the formats/ packages return Sources; Resampler and ChannelMapper wrap
// them, so they can be chained:
//
//	src, _ := registry.Decode("ogg", file)
//	stereo := audio.NewChannelMapper(audio.NewResampler(src, 48000), 2)
//	pcm, _ := audio.ReadAll(stereo, 4096)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode(audio.FormatOf("click.wav"), file)
//
// # Sample Format
//
// Audio samples are float32 in the range [-1.0, 1.0], interleaved by channel.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
