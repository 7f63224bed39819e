// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audmux/audio"
	"github.com/ik5/audmux/formats/wav"
	"github.com/ik5/audmux/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavBytes(t *testing.T, rate, channels, frames int) []byte {
	t.Helper()

	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = 8192
	}

	var buf bytes.Buffer
	require.NoError(t, wav.WritePCM16(&buf, rate, channels, samples))

	return buf.Bytes()
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	for _, format := range []string{"wav", "WAVE", "mp3", "ogg", "oga", "aiff", "aif"} {
		_, ok := reg.Get(format)
		assert.True(t, ok, "format %q", format)
	}

	_, ok := reg.Get("flac")
	assert.False(t, ok)
}

func TestLoadAsset(t *testing.T) {
	t.Parallel()

	b := New()
	require.NoError(t, b.LoadAsset("click", "wav", bytes.NewReader(wavBytes(t, 8000, 2, 800))))

	buf, ok := b.Buffer("click")
	require.True(t, ok)
	assert.Equal(t, 8000, buf.SampleRate)
	assert.Equal(t, 2, buf.Channels)
	assert.Equal(t, 800, buf.Frames())
	assert.Equal(t, 100*time.Millisecond, buf.Duration())
	assert.InDelta(t, 0.25, buf.Data[0], 1e-6)

	err := b.LoadAsset("click", "wav", bytes.NewReader(wavBytes(t, 8000, 1, 10)))
	assert.ErrorIs(t, err, ErrAssetExists)
}

func TestLoadAsset_Errors(t *testing.T) {
	t.Parallel()

	b := New()

	assert.ErrorIs(t, b.LoadAsset("", "wav", bytes.NewReader(nil)), ErrEmptyName)
	assert.ErrorIs(t, b.LoadAsset("x", "flac", bytes.NewReader(nil)), ErrUnknownFormat)
	assert.ErrorIs(t, b.LoadAsset("x", "wav", strings.NewReader("not audio")), wav.ErrNotWavFile)

	_, ok := b.Buffer("x")
	assert.False(t, ok, "failed load must not leave an asset behind")
}

func TestLoadAsset_Resamples(t *testing.T) {
	t.Parallel()

	b := New(WithSampleRate(16000))
	require.NoError(t, b.LoadAsset("tone", "wav", bytes.NewReader(wavBytes(t, 8000, 1, 800))))

	buf, ok := b.Buffer("tone")
	require.True(t, ok)
	assert.Equal(t, 16000, buf.SampleRate)
	assert.InDelta(t, 1600, buf.Frames(), 4)
	assert.InDelta(t, 0.25, buf.Data[100], 1e-3)
}

func TestLoadAssetFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Door.WAV")
	require.NoError(t, os.WriteFile(path, wavBytes(t, 11025, 1, 100), 0o600))

	b := New()
	require.NoError(t, b.LoadAssetFile("door", path))
	_, ok := b.Buffer("door")
	assert.True(t, ok)

	assert.ErrorIs(t, b.LoadAssetFile("missing", filepath.Join(t.TempDir(), "nope.wav")), os.ErrNotExist)
}

func TestLoadAsset_Concurrent(t *testing.T) {
	t.Parallel()

	b := New()
	data := wavBytes(t, 8000, 1, 400)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.LoadAsset(fmt.Sprintf("a%d", i), "wav", bytes.NewReader(data)))
		}()
	}
	wg.Wait()

	assert.Len(t, b.Assets(), 8)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	b := New()
	sound := SoundDefinition{Priority: PriorityHigh, Asset: "click", Gain: 0.8, Mixer: "sfx"}
	stream := StreamDefinition{Source: "music/theme.ogg", Gain: 0.5}

	require.NoError(t, b.AddSound("click", sound))
	require.NoError(t, b.AddStream("theme", stream))

	assert.ErrorIs(t, b.AddSound("theme", sound), ErrDefinitionExists)
	assert.ErrorIs(t, b.AddStream("click", stream), ErrDefinitionExists)
	assert.ErrorIs(t, b.AddSound("", sound), ErrEmptyName)

	got, err := b.Sound("click")
	require.NoError(t, err)
	assert.Equal(t, sound, got)

	_, err = b.Sound("theme")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	gotStream, err := b.Stream("theme")
	require.NoError(t, err)
	assert.Equal(t, stream, gotStream)

	def, err := b.Definition("theme")
	require.NoError(t, err)
	assert.IsType(t, StreamDefinition{}, def)

	_, err = b.Definition("nothing")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	assert.Len(t, b.Definitions(), 2)
}

func TestMixers(t *testing.T) {
	t.Parallel()

	b := New()
	require.NoError(t, b.AddMixer(MixerDefinition{Name: "master", Gain: 1}))
	require.NoError(t, b.AddMixer(MixerDefinition{Name: "sfx", Parent: "master", Gain: 0.5}))
	assert.ErrorIs(t, b.AddMixer(MixerDefinition{Name: "sfx"}), ErrDefinitionExists)
	assert.ErrorIs(t, b.AddMixer(MixerDefinition{}), ErrEmptyName)

	mixers := b.Mixers()
	require.Len(t, mixers, 2)
	assert.Equal(t, "master", mixers[0].Name)
	assert.Equal(t, "sfx", mixers[1].Name)

	mixers[0].Gain = 9
	assert.Equal(t, 1.0, b.Mixers()[0].Gain, "Mixers must return a copy")
}

func TestUnload(t *testing.T) {
	t.Parallel()

	b := New()
	require.NoError(t, b.AddAsset("a", &graph.Buffer{SampleRate: 8000, Channels: 1, Data: []float32{0}}))
	require.NoError(t, b.AddSound("a", SoundDefinition{Asset: "a"}))
	require.NoError(t, b.AddMixer(MixerDefinition{Name: "m"}))

	b.Unload()

	assert.Empty(t, b.Assets())
	assert.Empty(t, b.Definitions())
	assert.Empty(t, b.Mixers())

	// The bank is reusable after unloading.
	require.NoError(t, b.AddAsset("a", &graph.Buffer{SampleRate: 8000, Channels: 1}))
}

func TestPriority(t *testing.T) {
	t.Parallel()

	assert.Less(t, PriorityLow, PriorityMedium)
	assert.Less(t, PriorityMedium, PriorityHigh)

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var got Priority
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}

	var p Priority
	assert.ErrorIs(t, p.UnmarshalText([]byte("urgent")), ErrInvalidPriority)
	require.NoError(t, p.UnmarshalText([]byte("HIGH")))
	assert.Equal(t, PriorityHigh, p)

	_, err := Priority(7).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidPriority)
	assert.Equal(t, "Priority(7)", Priority(7).String())
}

func TestClipDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 200*time.Millisecond, Clip{Start: 100 * time.Millisecond, End: 300 * time.Millisecond}.Duration())
	assert.Zero(t, Clip{Start: 100 * time.Millisecond}.Duration())
}

func TestRegistryIsShared(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	b := New(WithRegistry(reg))
	assert.Same(t, reg, b.Registry())
	assert.ErrorIs(t, b.LoadAsset("x", "wav", bytes.NewReader(nil)), ErrUnknownFormat)
}
