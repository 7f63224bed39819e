// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmux/utils"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
type Resampler struct {
	src      Source
	dstRate  int
	channels int
	step     float64 // source frames consumed per output frame

	// hist holds frames t-1, t0, t+1, t+2; output is interpolated between
	// hist[1] and hist[2] at fraction pos.
	hist   [4][]float32
	pos    float64
	primed bool
	// pads counts duplicated frames shifted in after the source ran dry.
	pads int

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: channels,
		step:     float64(src.SampleRate()) / float64(dstRate),
		in:       make([]float32, 1024*max(channels, 1)),
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.inPos+r.channels > r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels

		if err == io.EOF || (err == nil && n == 0) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	return true, nil
}

// shift drops hist[0] and loads a new hist[3], duplicating hist[2] when the
// source is exhausted.
func (r *Resampler) shift() error {
	first := r.hist[0]
	copy(r.hist[:], r.hist[1:])
	r.hist[3] = first

	ok, err := r.nextFrame(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
		r.pads++
	}

	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.hist[0], r.hist[1])

	for _, i := range []int{2, 3} {
		ok, err := r.nextFrame(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
			r.pads++
		}
	}

	r.primed = true
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 {
		return 0, ErrInvalidChannels
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		// hist[1] became padding: every real frame was emitted.
		if r.pads > 2 {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CatmullRom(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
