// SPDX-License-Identifier: EPL-2.0

package audmux

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/ik5/audmux/bank"
	"github.com/ik5/audmux/config"
	"github.com/ik5/audmux/formats/wav"
	"github.com/ik5/audmux/graph"
	"github.com/ik5/audmux/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T, channels int) *System {
	t.Helper()

	s := config.Default()
	s.Graph.SampleRate = 8000
	s.Graph.Channels = channels

	sys, err := NewSoftwareEngine(s)
	require.NoError(t, err)

	data := make([]float32, 800)
	for i := range data {
		data[i] = 0.5
	}
	require.NoError(t, sys.Bank.AddAsset("tone", &graph.Buffer{SampleRate: 8000, Channels: 1, Data: data}))
	require.NoError(t, sys.Bank.AddSound("tone", bank.SoundDefinition{Asset: "tone", Gain: 1}))
	require.NoError(t, sys.Engine.LoadBank(sys.Bank))

	return sys
}

func TestNewSoftwareEngine_InvalidSettings(t *testing.T) {
	t.Parallel()

	s := config.Default()
	s.Voices.MaxSounds = 0

	_, err := NewSoftwareEngine(s)
	assert.ErrorIs(t, err, voice.ErrInvalidConfig)

	s = config.Default()
	s.Graph.SampleRate = 0
	_, err = NewSoftwareEngine(s)
	assert.ErrorIs(t, err, config.ErrInvalidSettings)
}

func TestBounceWAV(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2} {
		sys := newSystem(t, channels)

		h, err := sys.Engine.PlayNamed("tone", "")
		require.NoError(t, err)
		require.NoError(t, sys.Engine.Balance(h, -1))

		var buf bytes.Buffer
		require.NoError(t, sys.BounceWAV(&buf, 50*time.Millisecond))

		b := buf.Bytes()
		require.Len(t, b, 44+400*channels*2)
		assert.Equal(t, uint16(channels), binary.LittleEndian.Uint16(b[22:24]))
		assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(b[24:28]))

		// Hard left: the left channel carries both inputs, the right is silent.
		first := int16(binary.LittleEndian.Uint16(b[44:46]))
		if channels == 2 {
			assert.InDelta(t, 32767, first, 1)
			assert.Zero(t, int16(binary.LittleEndian.Uint16(b[46:48])))
		} else {
			assert.InDelta(t, 16384, first, 1)
		}
	}
}

func TestBounceWAV_Decodes(t *testing.T) {
	t.Parallel()

	sys := newSystem(t, 2)
	_, err := sys.Engine.PlayNamed("tone", "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sys.BounceWAV(&buf, 20*time.Millisecond))

	src, err := wav.Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
}
