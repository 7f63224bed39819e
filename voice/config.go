// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"
	"time"
)

// Config sizes the engine tables and tunes eviction.
type Config struct {
	// MaxSounds is the number of voice slots.
	MaxSounds int `yaml:"max_sounds" mapstructure:"max_sounds"`
	// MaxStreams is the number of stream slots.
	MaxStreams int `yaml:"max_streams" mapstructure:"max_streams"`
	// SlopSize is the free budget at or below which a play request tries to
	// evict a lower priority voice.
	SlopSize int `yaml:"slop_size" mapstructure:"slop_size"`
	// RemovalFadeDuration is how long an evicted voice takes to fade out.
	RemovalFadeDuration time.Duration `yaml:"removal_fade_duration" mapstructure:"removal_fade_duration"`
}

// DefaultConfig returns 32 voices, 4 streams, a slop of 2 and a 100ms
// removal fade.
func DefaultConfig() Config {
	return Config{
		MaxSounds:           32,
		MaxStreams:          4,
		SlopSize:            2,
		RemovalFadeDuration: 100 * time.Millisecond,
	}
}

// Validate reports the first invalid field, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxSounds <= 0:
		return fmt.Errorf("%w: max sounds must be positive, got %d", ErrInvalidConfig, c.MaxSounds)
	case c.MaxStreams <= 0:
		return fmt.Errorf("%w: max streams must be positive, got %d", ErrInvalidConfig, c.MaxStreams)
	case c.SlopSize < 0:
		return fmt.Errorf("%w: slop size must not be negative, got %d", ErrInvalidConfig, c.SlopSize)
	case c.RemovalFadeDuration < 0:
		return fmt.Errorf("%w: removal fade must not be negative, got %v", ErrInvalidConfig, c.RemovalFadeDuration)
	}

	return nil
}
