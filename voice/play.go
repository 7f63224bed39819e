// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"maps"
	"time"

	"github.com/ik5/audmux/arena"
	"github.com/ik5/audmux/bank"
	"github.com/ik5/audmux/graph"
	"github.com/sirupsen/logrus"
)

// Play starts def and returns its handle. mixer, when not empty, overrides the
// mixer named by the definition.
//
// A request is rejected with ErrCapacityExceeded when the shared budget is
// exhausted. Near the limit a lower priority voice is evicted first; the slot
// it frees only becomes available once its fade has finished.
func (e *Engine) Play(def bank.Definition, mixer string) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch d := def.(type) {
	case bank.SoundDefinition:
		return e.playSound(d, mixer)
	case bank.StreamDefinition:
		return e.playStream(d, mixer)
	}

	return Handle{}, fmt.Errorf("%w: %T", ErrUnknownDefinition, def)
}

// PlayNamed plays a definition from the loaded banks.
func (e *Engine) PlayNamed(name, mixer string) (Handle, error) {
	e.mu.Lock()
	def, ok := e.defs[name]
	e.mu.Unlock()

	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", bank.ErrDefinitionNotFound, name)
	}

	return e.Play(def, mixer)
}

// admitVoice applies the shared budget for a voice of priority p. Near the
// limit it evicts a lower priority voice first.
func (e *Engine) admitVoice(p bank.Priority) bool {
	budget := e.freeBudget()

	if budget <= e.cfg.SlopSize {
		e.evictBelow(p)
	}

	if budget <= 0 {
		e.reject(KindVoice, budget, logrus.Fields{"priority": p.String()})
		return false
	}

	return true
}

// admitStream applies the shared budget for a stream. Streams carry no
// priority and never evict.
func (e *Engine) admitStream() bool {
	budget := e.freeBudget()
	if budget <= 0 {
		e.reject(KindStream, budget, nil)
		return false
	}

	return true
}

func (e *Engine) reject(kind Kind, budget int, extra logrus.Fields) {
	fields := logrus.Fields{
		"function":    "Engine.Play",
		"kind":        kind.String(),
		"free_budget": budget,
	}
	maps.Copy(fields, extra)

	e.log.WithFields(fields).Warn("Play rejected, no free voice slots")
	e.metrics.recordPlay(kind, resultCapacity)
}

// evictBelow fades out and stops the first voice, by slot index, whose
// priority is strictly lower than p.
func (e *Engine) evictBelow(p bank.Priority) {
	h, v, ok := e.voices.FindFirst(func(_ arena.Handle, v *voiceRecord) bool {
		return !v.stopping && v.priority < p
	})
	if !ok {
		return
	}

	e.scheduleStop(v, e.cfg.RemovalFadeDuration)
	e.metrics.recordEviction()

	e.log.WithFields(logrus.Fields{
		"function": "Engine.evictBelow",
		"handle":   newHandle(KindVoice, h).String(),
		"victim":   v.priority.String(),
		"priority": p.String(),
		"fade":     e.cfg.RemovalFadeDuration,
	}).Debug("Evicting voice")
}

// scheduleStop ramps v down to the floor and stops it once the ramp is done.
// The slot is reclaimed by the ended callback.
func (e *Engine) scheduleStop(v *voiceRecord, d time.Duration) {
	at := e.ctx.Now() + d
	v.gain.RampGain(graph.MinRampGain, at)
	v.source.Stop(at)
	v.stopping = true
}

func (e *Engine) playSound(d bank.SoundDefinition, mixer string) (Handle, error) {
	buf, ok := e.assets[d.Asset]
	if !ok {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Play",
			"asset":    d.Asset,
		}).Warn("Play rejected, asset not loaded")
		e.metrics.recordPlay(KindVoice, resultAssetMissing)

		return Handle{}, fmt.Errorf("%w: %q", ErrAssetNotFound, d.Asset)
	}

	out, err := e.output(mixer, d.Mixer)
	if err != nil {
		e.metrics.recordPlay(KindVoice, resultMixerMissing)
		return Handle{}, err
	}

	if !e.admitVoice(d.Priority) {
		return Handle{}, ErrCapacityExceeded
	}

	src, err := e.ctx.NewBufferSource(buf)
	if err != nil {
		e.metrics.recordPlay(KindVoice, resultGraphFailure)
		return Handle{}, fmt.Errorf("creating buffer source: %w", err)
	}

	v := &voiceRecord{
		priority: d.Priority,
		source:   src,
		pan:      e.ctx.NewPan(),
		gain:     e.ctx.NewGain(),
		buffer:   buf,
	}

	slot, ok := e.voices.Add(v)
	if !ok {
		// Unreachable while the budget is positive.
		e.metrics.recordPlay(KindVoice, resultCapacity)
		return Handle{}, ErrCapacityExceeded
	}

	src.Connect(v.pan)
	v.pan.Connect(v.gain)
	v.gain.Connect(out)
	v.gain.SetGain(d.Gain, e.ctx.Now())
	v.pan.SetPan(0)
	src.OnEnded(func() { e.reclaimVoice(slot) })

	switch {
	case d.Loop != nil:
		v.loop = true
		v.loopStart, v.loopEnd = d.Loop.Start, d.Loop.End
		v.playOut = d.Loop.PlayOut
		src.SetLoop(true, d.Loop.Start, d.Loop.End)

		offset := d.Loop.Start
		if d.Loop.PlayIn {
			offset = 0
			if d.Clip != nil {
				offset = d.Clip.Start
			}
		}
		src.Start(offset, 0)
	case d.Clip != nil:
		src.Start(d.Clip.Start, d.Clip.Duration())
	default:
		src.Start(0, 0)
	}

	h := newHandle(KindVoice, slot)
	e.metrics.recordPlay(KindVoice, resultOK)
	e.updateGauges()

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Play",
		"handle":   h.String(),
		"asset":    d.Asset,
		"priority": d.Priority.String(),
	}).Debug("Voice started")

	return h, nil
}

// playStream admits a stream against the shared budget. The media is opened
// by the graph in the background, so nothing here waits on I/O.
func (e *Engine) playStream(d bank.StreamDefinition, mixer string) (Handle, error) {
	out, err := e.output(mixer, d.Mixer)
	if err != nil {
		e.metrics.recordPlay(KindStream, resultMixerMissing)
		return Handle{}, err
	}

	if !e.admitStream() {
		return Handle{}, ErrCapacityExceeded
	}
	if e.streams.NumFreeSlots() == 0 {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Play",
			"source":   d.Source,
		}).Warn("Play rejected, no free stream slots")
		e.metrics.recordPlay(KindStream, resultCapacity)

		return Handle{}, ErrCapacityExceeded
	}

	media, err := e.ctx.NewMediaSource(d.Source)
	if err != nil {
		e.metrics.recordPlay(KindStream, resultGraphFailure)
		return Handle{}, fmt.Errorf("opening stream %q: %w", d.Source, err)
	}

	s := &streamRecord{
		media: media,
		pan:   e.ctx.NewPan(),
		gain:  e.ctx.NewGain(),
	}
	slot, _ := e.streams.Add(s)

	media.Connect(s.pan)
	s.pan.Connect(s.gain)
	s.gain.Connect(out)
	s.gain.SetGain(d.Gain, e.ctx.Now())
	s.pan.SetPan(0)
	media.Play()

	h := newHandle(KindStream, slot)
	e.metrics.recordPlay(KindStream, resultOK)
	e.updateGauges()

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Play",
		"handle":   h.String(),
		"source":   d.Source,
	}).Debug("Stream started")

	return h, nil
}

// reclaimVoice is the ended callback of every voice source and the only place
// a voice slot is freed.
func (e *Engine) reclaimVoice(slot arena.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.voices.Remove(slot)
	if !ok {
		return
	}

	v.source.Disconnect()
	v.pan.Disconnect()
	v.gain.Disconnect()
	v.buffer = nil

	reason := reasonEnded
	if v.stopping {
		reason = reasonStopped
	}
	e.metrics.recordReclaim(KindVoice, reason)
	e.updateGauges()

	e.log.WithFields(logrus.Fields{
		"function": "Engine.reclaimVoice",
		"handle":   newHandle(KindVoice, slot).String(),
		"reason":   reason,
	}).Debug("Voice slot reclaimed")
}

// removeStream tears a stream down and frees its slot right away; streams
// have no ended notification.
func (e *Engine) removeStream(slot arena.Handle, reason string) bool {
	s, ok := e.streams.Remove(slot)
	if !ok {
		return false
	}

	s.media.Pause()
	s.media.Disconnect()
	s.pan.Disconnect()
	s.gain.Disconnect()

	if err := s.media.Close(); err != nil {
		e.log.WithFields(logrus.Fields{
			"function": "Engine.removeStream",
			"handle":   newHandle(KindStream, slot).String(),
			"error":    err.Error(),
		}).Warn("Closing stream failed")
	}

	e.metrics.recordReclaim(KindStream, reason)
	e.updateGauges()

	return true
}
