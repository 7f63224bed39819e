// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"time"

	"github.com/ik5/audmux/graph"
	"github.com/ik5/audmux/utils"
	"github.com/sirupsen/logrus"
)

// element returns the gain and pan nodes of the voice or stream h refers to.
func (e *Engine) element(h Handle) (graph.GainNode, graph.PanNode, bool) {
	switch h.Kind {
	case KindVoice:
		if v, ok := e.voices.Get(h.slot()); ok {
			return v.gain, v.pan, true
		}
	case KindStream:
		if s, ok := e.streams.Get(h.slot()); ok {
			return s.gain, s.pan, true
		}
	}

	e.log.WithFields(logrus.Fields{
		"handle": h.String(),
	}).Debug("Stale or unknown handle")

	return nil, nil, false
}

// IsPlaying reports whether h still refers to a live voice or stream. A voice
// that is fading out after a stop or eviction counts as playing until its
// slot is reclaimed.
func (e *Engine) IsPlaying(h Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch h.Kind {
	case KindVoice:
		return e.voices.Valid(h.slot())
	case KindStream:
		return e.streams.Valid(h.slot())
	}

	return false
}

// Stop stops h. A looping voice with play-out only leaves its loop and plays
// to the end. Other voices stop at once and free their slot when the graph
// reports the end; streams are removed immediately.
func (e *Engine) Stop(h Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch h.Kind {
	case KindVoice:
		v, ok := e.voices.Get(h.slot())
		if !ok {
			break
		}

		if v.loop && v.playOut {
			e.stopLoop(v)
			return nil
		}

		v.source.Stop(e.ctx.Now())
		v.stopping = true

		return nil
	case KindStream:
		if e.removeStream(h.slot(), reasonStopped) {
			return nil
		}
	}

	return ErrNotFound
}

// StopAll stops every voice at once, ignoring play-out, and removes every
// stream.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopAllLocked(reasonStopped)
}

func (e *Engine) stopAllLocked(reason string) {
	now := e.ctx.Now()
	for _, slot := range e.voices.Handles() {
		v, _ := e.voices.Get(slot)
		v.source.Stop(now)
		v.stopping = true
	}

	for _, slot := range e.streams.Handles() {
		e.removeStream(slot, reason)
	}
}

// FadeTo ramps the gain of h exponentially to v over d. Targets below
// graph.MinRampGain are raised to it.
func (e *Engine) FadeTo(h Handle, v float64, d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	gain, _, ok := e.element(h)
	if !ok {
		return ErrNotFound
	}

	gain.RampGain(graph.ClampRampTarget(v), e.ctx.Now()+d)

	return nil
}

// FadeOut ramps the gain of h down to the floor over d. The sound keeps
// playing.
func (e *Engine) FadeOut(h Handle, d time.Duration) error {
	return e.FadeTo(h, 0, d)
}

// FadeOutAndRemove fades h out over d and then stops it. Voices stop on the
// graph clock; streams are removed by a timer that is only as precise as the
// context's AfterFunc.
func (e *Engine) FadeOutAndRemove(h Handle, d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch h.Kind {
	case KindVoice:
		v, ok := e.voices.Get(h.slot())
		if !ok {
			break
		}
		e.scheduleStop(v, d)

		return nil
	case KindStream:
		s, ok := e.streams.Get(h.slot())
		if !ok {
			break
		}

		s.gain.RampGain(graph.MinRampGain, e.ctx.Now()+d)
		slot := h.slot()
		e.ctx.AfterFunc(d, func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			e.removeStream(slot, reasonFadeOutRemove)
		})

		return nil
	}

	return ErrNotFound
}

// Gain sets the gain of h immediately.
func (e *Engine) Gain(h Handle, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	gain, _, ok := e.element(h)
	if !ok {
		return ErrNotFound
	}

	gain.SetGain(v, e.ctx.Now())

	return nil
}

// Balance pans h between left (-1) and right (1); v is clamped to that range.
func (e *Engine) Balance(h Handle, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, pan, ok := e.element(h)
	if !ok {
		return ErrNotFound
	}

	pan.SetPan(utils.Clamp(v, -1, 1))

	return nil
}

// Loop turns looping on for voice h, keeping its current loop bounds.
func (e *Engine) Loop(h Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.voice(h)
	if !ok {
		return ErrNotFound
	}

	v.loop = true
	v.source.SetLoop(true, v.loopStart, v.loopEnd)

	return nil
}

// LoopRange turns looping on for voice h between start and end. A zero end
// loops to the end of the asset.
func (e *Engine) LoopRange(h Handle, start, end time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.voice(h)
	if !ok {
		return ErrNotFound
	}

	v.loop = true
	v.loopStart, v.loopEnd = start, end
	v.source.SetLoop(true, start, end)

	return nil
}

// StopLoop lets voice h play to the end of its asset.
func (e *Engine) StopLoop(h Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.voice(h)
	if !ok {
		return ErrNotFound
	}

	e.stopLoop(v)

	return nil
}

func (e *Engine) stopLoop(v *voiceRecord) {
	v.loop = false
	v.loopStart, v.loopEnd = 0, 0
	v.source.SetLoop(false, 0, 0)
}

// voice resolves a voice handle; stream handles never resolve here.
func (e *Engine) voice(h Handle) (*voiceRecord, bool) {
	if h.Kind != KindVoice {
		return nil, false
	}

	return e.voices.Get(h.slot())
}
