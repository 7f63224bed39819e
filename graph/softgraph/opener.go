// SPDX-License-Identifier: EPL-2.0

package softgraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ik5/audmux/audio"
)

// closingSource closes the underlying reader together with the decoder.
type closingSource struct {
	audio.Source
	rc io.Closer
}

func (s closingSource) Close() error {
	err := s.Source.Close()
	if cerr := s.rc.Close(); err == nil {
		err = cerr
	}

	return err
}

// NewOpener returns an Opener that reads local paths, file:// URLs and
// http(s) URLs, picking the decoder from the extension.
func NewOpener(reg *audio.Registry) Opener {
	// Streams are long lived, so only the response headers are bounded.
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 30 * time.Second,
			DisableKeepAlives:     true,
		},
	}

	return func(ctx context.Context, url string) (audio.Source, error) {
		format := audio.FormatOf(url)

		var rc io.ReadCloser
		switch {
		case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, fmt.Errorf("fetching stream: %w", err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("fetching stream: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
			}
			rc = resp.Body
		default:
			f, err := os.Open(strings.TrimPrefix(url, "file://"))
			if err != nil {
				return nil, fmt.Errorf("opening stream: %w", err)
			}
			rc = f
		}

		src, err := reg.Decode(format, rc)
		if err != nil {
			_ = rc.Close()
			return nil, err
		}

		return closingSource{Source: src, rc: rc}, nil
	}
}
