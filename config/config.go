// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audmux/voice"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. AUDMUX_VOICES_MAX_SOUNDS.
const EnvPrefix = "AUDMUX"

var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	Voices voice.Config  `yaml:"voices" mapstructure:"voices"`
	Graph  GraphSettings `yaml:"graph" mapstructure:"graph"`
	Log    LogSettings   `yaml:"log" mapstructure:"log"`
}

// GraphSettings configures the software graph and its output.
type GraphSettings struct {
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Channels of the rendered output: 1 downmixes, 2 keeps stereo.
	Channels int `yaml:"channels" mapstructure:"channels"`
}

type LogSettings struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		Voices: voice.DefaultConfig(),
		Graph:  GraphSettings{SampleRate: 48000, Channels: 2},
		Log:    LogSettings{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("voices.max_sounds", def.Voices.MaxSounds)
	v.SetDefault("voices.max_streams", def.Voices.MaxStreams)
	v.SetDefault("voices.slop_size", def.Voices.SlopSize)
	v.SetDefault("voices.removal_fade_duration", def.Voices.RemovalFadeDuration)

	v.SetDefault("graph.sample_rate", def.Graph.SampleRate)
	v.SetDefault("graph.channels", def.Graph.Channels)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

// Load reads settings from the YAML file at path, when path is not empty,
// then applies AUDMUX_ environment overrides.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) Validate() error {
	if err := s.Voices.Validate(); err != nil {
		return err
	}

	if s.Graph.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidSettings, s.Graph.SampleRate)
	}
	if s.Graph.Channels != 1 && s.Graph.Channels != 2 {
		return fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidSettings, s.Graph.Channels)
	}

	if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if _, err := formatter(s.Log.Format); err != nil {
		return err
	}

	return nil
}

func formatter(format string) (logrus.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &logrus.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	}

	return nil, fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, format)
}

// ConfigureLogging applies l to the standard logrus logger.
func ConfigureLogging(l LogSettings) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	f, err := formatter(l.Format)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(f)

	return nil
}
