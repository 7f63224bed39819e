// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper converts a source to a fixed channel count.
// Downmixing to mono averages all channels, upmixing repeats the source
// channels in order, and other reductions keep the leading channels.
type ChannelMapper struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	return &ChannelMapper{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.channels }
func (m *ChannelMapper) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if m.channels <= 0 {
		return 0, ErrInvalidChannels
	}
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	srcCh := m.src.Channels()
	if srcCh == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	if frames == 0 {
		return 0, nil
	}

	need := frames * srcCh
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / srcCh

	switch {
	case m.channels == 1:
		inv := float32(1) / float32(srcCh)
		for f := range got {
			var sum float32
			for c := range srcCh {
				sum += m.tmp[f*srcCh+c]
			}
			dst[f] = sum * inv
		}
	default:
		for f := range got {
			for c := range m.channels {
				dst[f*m.channels+c] = m.tmp[f*srcCh+c%srcCh]
			}
		}
	}

	return got * m.channels, err
}
