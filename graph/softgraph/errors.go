// SPDX-License-Identifier: EPL-2.0

package softgraph

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidPeriod     = errors.New("render period is shorter than one frame")
	ErrInvalidBuffer     = errors.New("buffer has no channels or sample rate")
	ErrInvalidStream     = errors.New("stream has no channels or sample rate")
	ErrNoOpener          = errors.New("no stream opener configured")
	ErrUnexpectedStatus  = errors.New("unexpected HTTP status")
)
