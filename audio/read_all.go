// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// ReadAll drains src and returns every interleaved sample it produced.
// bufferSize controls the read chunk; values below the channel count fall back to 4096.
func ReadAll(src Source, bufferSize int) ([]float32, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	if bufferSize < channels {
		bufferSize = 4096
	}
	// Keep reads frame aligned.
	bufferSize -= bufferSize % channels

	var out []float32
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			// A source that returns nothing without EOF is treated as finished.
			break
		}
	}

	return out, nil
}
