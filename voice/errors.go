// SPDX-License-Identifier: EPL-2.0

package voice

import "errors"

var (
	ErrNotFound          = errors.New("voice or stream not found")
	ErrCapacityExceeded  = errors.New("no free voice slot")
	ErrAssetNotFound     = errors.New("asset not loaded")
	ErrMixerNotFound     = errors.New("mixer not found")
	ErrMixerExists       = errors.New("mixer already exists")
	ErrNoContext         = errors.New("audio context is required")
	ErrInvalidConfig     = errors.New("invalid voice configuration")
	ErrUnknownDefinition = errors.New("unknown definition type")
)
