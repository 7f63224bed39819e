// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audmux/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the part of oggvorbis.Reader the source needs, kept small for tests.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec oggReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	channels := s.dec.Channels()
	if channels <= 0 {
		return 0, audio.ErrInvalidChannels
	}

	// oggvorbis fills whole frames; trim dst so the count stays frame aligned.
	dst = dst[:len(dst)-len(dst)%channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	if n == 0 && err == io.EOF {
		return 0, io.EOF
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{dec: dec}, nil
}
