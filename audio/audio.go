// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys (e.g., "wav", "mp3", "ogg") to decoders.
// Keys are case-insensitive.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// FormatOf returns the format key for a file name or URL, taken from its extension.
func FormatOf(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}

	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Decode looks up the decoder for format and decodes r with it.
func (r *Registry) Decode(format string, rd io.Reader) (Source, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	src, err := d.Decode(rd)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}

	return src, nil
}
