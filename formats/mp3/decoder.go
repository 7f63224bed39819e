// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmux/audio"
	"github.com/ik5/audmux/utils"
)

// pcmReader is the part of gomp3.Decoder the source needs, kept small for tests.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        pcmReader
	sampleRate int
	buf        []byte
	// odd holds a trailing byte when a read split a sample.
	odd    byte
	hasOdd bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return 2 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	// go-mp3 yields 16-bit little-endian stereo PCM.
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	start := 0
	if s.hasOdd {
		s.buf[0] = s.odd
		s.hasOdd = false
		start = 1
	}

	n, err := s.dec.Read(s.buf[start:])
	n += start

	if n%2 == 1 {
		s.odd = s.buf[n-1]
		s.hasOdd = true
		n--
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	if samples == 0 && err == io.EOF {
		return 0, io.EOF
	}

	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
