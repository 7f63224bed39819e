// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/ik5/audmux/audio"
	"github.com/ik5/audmux/formats/aiff"
	"github.com/ik5/audmux/formats/mp3"
	"github.com/ik5/audmux/formats/vorbis"
	"github.com/ik5/audmux/formats/wav"
	"github.com/ik5/audmux/graph"
	"github.com/sirupsen/logrus"
)

const readChunk = 8192

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// Bank owns decoded assets and the definitions that refer to them.
// It is safe for concurrent use so assets can be decoded in parallel.
type Bank struct {
	mu         sync.RWMutex
	registry   *audio.Registry
	sampleRate int
	log        *logrus.Entry

	assets  map[string]*graph.Buffer
	sounds  map[string]SoundDefinition
	streams map[string]StreamDefinition
	mixers  []MixerDefinition
}

// Option configures a Bank in New.
type Option func(*Bank)

// WithRegistry sets the decoders used by LoadAsset.
func WithRegistry(reg *audio.Registry) Option {
	return func(b *Bank) { b.registry = reg }
}

// WithSampleRate resamples every loaded asset to rate. Zero keeps the rate of
// the file.
func WithSampleRate(rate int) Option {
	return func(b *Bank) { b.sampleRate = rate }
}

// WithLogger replaces the default logger.
func WithLogger(l *logrus.Entry) Option {
	return func(b *Bank) { b.log = l }
}

// New creates an empty bank decoding with DefaultRegistry unless WithRegistry
// says otherwise.
func New(opts ...Option) *Bank {
	b := &Bank{
		log:     logrus.WithField("component", "bank"),
		assets:  make(map[string]*graph.Buffer),
		sounds:  make(map[string]SoundDefinition),
		streams: make(map[string]StreamDefinition),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = DefaultRegistry()
	}

	return b
}

// Registry returns the decoders used by the bank.
func (b *Bank) Registry() *audio.Registry { return b.registry }

// LoadAsset decodes r in the given format and stores it under name.
func (b *Bank) LoadAsset(name, format string, r io.Reader) error {
	if name == "" {
		return ErrEmptyName
	}
	if b.hasAsset(name) {
		return fmt.Errorf("%w: %q", ErrAssetExists, name)
	}

	dec, ok := b.registry.Get(format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding asset %q: %w", name, err)
	}
	defer src.Close()

	buf, err := b.decodeAll(src)
	if err != nil {
		return fmt.Errorf("reading asset %q: %w", name, err)
	}

	if err := b.AddAsset(name, buf); err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"function":    "Bank.LoadAsset",
		"asset":       name,
		"format":      format,
		"sample_rate": buf.SampleRate,
		"channels":    buf.Channels,
		"duration":    buf.Duration(),
	}).Debug("Asset loaded")

	return nil
}

// LoadAssetFile decodes the file at path, picking the format from its
// extension.
func (b *Bank) LoadAssetFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening asset %q: %w", name, err)
	}
	defer f.Close()

	return b.LoadAsset(name, audio.FormatOf(path), f)
}

func (b *Bank) decodeAll(src audio.Source) (*graph.Buffer, error) {
	if b.sampleRate > 0 && src.SampleRate() != b.sampleRate {
		src = audio.NewResampler(src, b.sampleRate)
	}

	data, err := audio.ReadAll(src, readChunk*max(src.Channels(), 1))
	if err != nil {
		return nil, err
	}

	return &graph.Buffer{
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
		Data:       data,
	}, nil
}

// AddAsset stores an already decoded buffer under name.
func (b *Bank) AddAsset(name string, buf *graph.Buffer) error {
	if name == "" {
		return ErrEmptyName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.assets[name]; ok {
		return fmt.Errorf("%w: %q", ErrAssetExists, name)
	}
	b.assets[name] = buf

	return nil
}

func (b *Bank) hasAsset(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.assets[name]
	return ok
}

// Buffer returns the decoded asset stored under name.
func (b *Bank) Buffer(name string) (*graph.Buffer, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.assets[name]
	return buf, ok
}

func (b *Bank) AddSound(name string, def SoundDefinition) error {
	return addDefinition(b, b.sounds, name, def)
}

func (b *Bank) AddStream(name string, def StreamDefinition) error {
	return addDefinition(b, b.streams, name, def)
}

func addDefinition[T Definition](b *Bank, m map[string]T, name string, def T) error {
	if name == "" {
		return ErrEmptyName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.definedLocked(name) {
		return fmt.Errorf("%w: %q", ErrDefinitionExists, name)
	}
	m[name] = def

	return nil
}

// definedLocked reports whether a sound or stream uses name. Callers hold mu.
func (b *Bank) definedLocked(name string) bool {
	_, sound := b.sounds[name]
	_, stream := b.streams[name]

	return sound || stream
}

// AddMixer appends a mixer. Mixers are created in the order they were added,
// so parents should come first.
func (b *Bank) AddMixer(def MixerDefinition) error {
	if def.Name == "" {
		return ErrEmptyName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if slices.ContainsFunc(b.mixers, func(m MixerDefinition) bool { return m.Name == def.Name }) {
		return fmt.Errorf("%w: mixer %q", ErrDefinitionExists, def.Name)
	}
	b.mixers = append(b.mixers, def)

	return nil
}

func (b *Bank) Sound(name string) (SoundDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	def, ok := b.sounds[name]
	if !ok {
		return SoundDefinition{}, fmt.Errorf("%w: sound %q", ErrDefinitionNotFound, name)
	}

	return def, nil
}

func (b *Bank) Stream(name string) (StreamDefinition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	def, ok := b.streams[name]
	if !ok {
		return StreamDefinition{}, fmt.Errorf("%w: stream %q", ErrDefinitionNotFound, name)
	}

	return def, nil
}

// Definition looks up a sound or stream by name.
func (b *Bank) Definition(name string) (Definition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if def, ok := b.sounds[name]; ok {
		return def, nil
	}
	if def, ok := b.streams[name]; ok {
		return def, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, name)
}

// Assets returns a copy of the asset table.
func (b *Bank) Assets() map[string]*graph.Buffer {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return maps.Clone(b.assets)
}

// Definitions returns a copy of the sound and stream tables keyed by name.
func (b *Bank) Definitions() map[string]Definition {
	b.mu.RLock()
	defer b.mu.RUnlock()

	defs := make(map[string]Definition, len(b.sounds)+len(b.streams))
	for name, def := range b.sounds {
		defs[name] = def
	}
	for name, def := range b.streams {
		defs[name] = def
	}

	return defs
}

// Mixers returns the mixers in the order they were added.
func (b *Bank) Mixers() []MixerDefinition {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.mixers)
}

// Unload drops every asset and definition.
func (b *Bank) Unload() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.assets)
	clear(b.sounds)
	clear(b.streams)
	b.mixers = nil
}
