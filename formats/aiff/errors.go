// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	ErrNotAiffFile = errors.New("not an AIFF file")
	// ErrOnlyPCM16bitSupported is returned for AIFF-C and other bit depths.
	ErrOnlyPCM16bitSupported = errors.New("AIFF: only 16-bit PCM is supported")
	ErrUnsupportedAiffLayout = errors.New("AIFF: unsupported channel layout")
)
