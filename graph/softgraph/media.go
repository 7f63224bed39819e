// SPDX-License-Identifier: EPL-2.0

package softgraph

import (
	"context"
	"errors"
	"io"

	"github.com/ik5/audmux/audio"
	"github.com/sirupsen/logrus"
)

const (
	// streamChunk is the number of frames the reader decodes per chunk.
	streamChunk = 1024
	// streamChunks bounds how many decoded chunks wait for the renderer.
	streamChunks = 16
)

// Opener resolves a stream URL into a decoded source. It runs on the
// stream's reader goroutine and should give up once ctx is done.
type Opener func(ctx context.Context, url string) (audio.Source, error)

// mediaSource streams decoded audio. A reader goroutine opens the URL,
// decodes it into chunks and reopens it at the end to loop; process only
// drains chunks that are already decoded and plays silence on underrun.
type mediaSource struct {
	base
	url    string
	chunks chan []float32
	// cur is the unplayed rest of the chunk being rendered.
	cur     []float32
	playing bool
	closed  bool

	cancel context.CancelFunc
	// done is closed once the reader has released its source.
	done chan struct{}
}

func newMediaSource(c *Context, url string) *mediaSource {
	ctx, cancel := context.WithCancel(context.Background())

	m := &mediaSource{
		url:    url,
		chunks: make(chan []float32, streamChunks),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.base = base{ctx: c, self: m}

	go m.read(ctx)

	return m
}

// openStream opens url and adapts it to the context rate and channel layout.
func (c *Context) openStream(ctx context.Context, url string) (audio.Source, error) {
	raw, err := c.opener(ctx, url)
	if err != nil {
		return nil, err
	}

	if raw.Channels() <= 0 || raw.SampleRate() <= 0 {
		_ = raw.Close()
		return nil, ErrInvalidStream
	}

	var src audio.Source = raw
	if src.SampleRate() != c.rate {
		src = audio.NewResampler(src, c.rate)
	}
	if src.Channels() != Channels {
		src = audio.NewChannelMapper(src, Channels)
	}

	return src, nil
}

// read fills chunks until the source is closed or fails. Reaching the end
// of the media reopens it, unless it produced nothing twice in a row.
func (m *mediaSource) read(ctx context.Context) {
	defer close(m.done)
	defer close(m.chunks)

	log := m.ctx.log.WithFields(logrus.Fields{
		"function": "mediaSource.read",
		"url":      m.url,
	})

	empty := 0
	for ctx.Err() == nil {
		src, err := m.ctx.openStream(ctx, m.url)
		if err != nil {
			if ctx.Err() == nil {
				log.WithField("error", err.Error()).Warn("Opening stream failed, stream stays silent")
			}
			return
		}

		n, err := m.pump(ctx, src)
		if cerr := src.Close(); cerr != nil {
			log.WithField("error", cerr.Error()).Debug("Closing stream source failed")
		}

		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			log.WithField("error", err.Error()).Warn("Stream stopped after a read failure")
			return
		case n == 0:
			empty++
			if empty > 1 {
				log.Warn("Stream has no audio, stopping")
				return
			}
		default:
			empty = 0
		}
	}
}

// pump decodes src into chunks until it ends, returning the samples sent.
func (m *mediaSource) pump(ctx context.Context, src audio.Source) (int, error) {
	sent := 0
	for {
		buf := make([]float32, streamChunk*Channels)
		n, err := src.ReadSamples(buf)
		if n > 0 {
			select {
			case m.chunks <- buf[:n]:
				sent += n
			case <-ctx.Done():
				return sent, ctx.Err()
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			return sent, nil
		case err != nil:
			return sent, err
		case n == 0:
			// A source that returns nothing without EOF is treated as finished.
			return sent, nil
		}
	}
}

func (m *mediaSource) Play() {
	m.ctx.mu.Lock()
	defer m.ctx.mu.Unlock()

	m.playing = true
}

func (m *mediaSource) Pause() {
	m.ctx.mu.Lock()
	defer m.ctx.mu.Unlock()

	m.playing = false
}

// Close stops the reader without waiting for it. Any pending open or read is
// cancelled and the reader closes the media on its way out.
func (m *mediaSource) Close() error {
	m.ctx.mu.Lock()
	defer m.ctx.mu.Unlock()

	m.closed = true
	m.playing = false
	m.cur = nil
	m.cancel()

	return nil
}

func (m *mediaSource) process(frames int) []float32 {
	out := m.silence(frames)
	if !m.playing || m.closed {
		return out
	}

	filled := 0
	for filled < len(out) {
		if len(m.cur) == 0 {
			select {
			case chunk, ok := <-m.chunks:
				if !ok {
					return out
				}
				m.cur = chunk
			default:
				return out
			}
		}

		n := copy(out[filled:], m.cur)
		m.cur = m.cur[n:]
		filled += n
	}

	return out
}
