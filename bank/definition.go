// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"fmt"
	"strings"
	"time"
)

// Priority orders sounds for eviction: a request may only push out voices
// with a strictly lower priority.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}

	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < PriorityLow || p > PriorityHigh {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}

	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "low":
		*p = PriorityLow
	case "medium":
		*p = PriorityMedium
	case "high":
		*p = PriorityHigh
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPriority, text)
	}

	return nil
}

// LoopDefinition describes the looped region of a sound. A zero End loops to
// the end of the asset.
type LoopDefinition struct {
	Start time.Duration
	End   time.Duration
	// PlayIn plays the audio before Start once before looping.
	PlayIn bool
	// PlayOut lets the audio after End finish when the sound is stopped.
	PlayOut bool
}

// Clip limits playback to part of an asset. A zero End plays to the end.
type Clip struct {
	Start time.Duration
	End   time.Duration
}

// Duration of the clip, or 0 when it runs to the end of the asset.
func (c Clip) Duration() time.Duration {
	if c.End <= c.Start {
		return 0
	}

	return c.End - c.Start
}

// Definition is either a SoundDefinition or a StreamDefinition.
type Definition interface {
	definition()
}

// SoundDefinition is a one-shot or looping sound played from a decoded asset.
type SoundDefinition struct {
	Priority Priority
	Asset    string
	Gain     float64
	Loop     *LoopDefinition
	Clip     *Clip
	Mixer    string
}

// StreamDefinition is long-form audio played through a media source.
type StreamDefinition struct {
	Source string
	Gain   float64
	Mixer  string
}

// MixerDefinition is a named gain stage. Mixers without a parent feed the
// output directly.
type MixerDefinition struct {
	Name   string
	Parent string
	Gain   float64
}

func (SoundDefinition) definition()  {}
func (StreamDefinition) definition() {}
