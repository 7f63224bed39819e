// SPDX-License-Identifier: EPL-2.0

package audmux

import (
	"fmt"
	"io"
	"time"

	"github.com/ik5/audmux/bank"
	"github.com/ik5/audmux/config"
	"github.com/ik5/audmux/formats/wav"
	"github.com/ik5/audmux/graph/softgraph"
	"github.com/ik5/audmux/utils"
	"github.com/ik5/audmux/voice"
	"github.com/sirupsen/logrus"
)

// System is a voice engine running on the software graph.
type System struct {
	Graph  *softgraph.Context
	Bank   *bank.Bank
	Engine *voice.Engine

	channels int
}

// NewSoftwareEngine creates a software graph, an empty bank decoding at the
// graph's rate and an engine sized by s.
func NewSoftwareEngine(s *config.Settings, opts ...voice.Option) (*System, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := bank.New(bank.WithSampleRate(s.Graph.SampleRate))

	g, err := softgraph.New(s.Graph.SampleRate,
		softgraph.WithOpener(softgraph.NewOpener(b.Registry())),
	)
	if err != nil {
		return nil, fmt.Errorf("creating graph: %w", err)
	}

	e, err := voice.New(g, s.Voices, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "NewSoftwareEngine",
		"sample_rate": s.Graph.SampleRate,
		"channels":    s.Graph.Channels,
	}).Debug("Software engine ready")

	return &System{
		Graph:    g,
		Bank:     b,
		Engine:   e,
		channels: s.Graph.Channels,
	}, nil
}

// Channels returns the channel count of rendered output.
func (s *System) Channels() int { return s.channels }

// Bounce renders d of audio in the configured channel layout.
func (s *System) Bounce(d time.Duration) []float32 {
	stereo := s.Graph.Bounce(d)
	if s.channels == softgraph.Channels {
		return stereo
	}

	mono := make([]float32, len(stereo)/softgraph.Channels)
	for i := range mono {
		mono[i] = (stereo[2*i] + stereo[2*i+1]) / 2
	}

	return mono
}

// BounceWAV renders d of audio and writes it to w as a 16-bit WAV file.
func (s *System) BounceWAV(w io.Writer, d time.Duration) error {
	return s.WriteWAV(w, s.Bounce(d))
}

// WriteWAV writes samples previously rendered by Bounce as a 16-bit WAV file.
func (s *System) WriteWAV(w io.Writer, samples []float32) error {
	pcm := make([]int16, len(samples))
	for i, v := range samples {
		pcm[i] = utils.Float32ToInt16(v)
	}

	if err := wav.WritePCM16(w, s.Graph.SampleRate(), s.channels, pcm); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}

	return nil
}
