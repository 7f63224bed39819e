// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmux/audio"
)

// pcmReader is the part of gowav.Decoder the source needs, kept small for tests.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	scale      float32
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: &goaudio.Format{SampleRate: s.sampleRate, NumChannels: s.channels},
		}
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs to seek between chunks.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: format tag %d", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}

	var scale float32
	switch dec.BitDepth {
	case 16:
		scale = 32768.0
	case 24:
		scale = 8388608.0
	case 32:
		scale = 2147483648.0
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		scale:      scale,
	}, nil
}
