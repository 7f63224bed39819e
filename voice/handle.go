// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"fmt"

	"github.com/ik5/audmux/arena"
)

// Kind says which table a handle belongs to.
type Kind uint8

const (
	// KindInvalid is the zero Kind; handles carrying it never resolve.
	KindInvalid Kind = iota
	KindVoice
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindVoice:
		return "voice"
	case KindStream:
		return "stream"
	}

	return "invalid"
}

// Handle refers to one playing voice or stream. Handles are only created by
// the Engine; the zero Handle never refers to anything.
type Handle struct {
	Kind       Kind
	Index      uint32
	Generation uint64
}

func (h Handle) String() string {
	return fmt.Sprintf("%s:%d@%d", h.Kind, h.Index, h.Generation)
}

func (h Handle) slot() arena.Handle {
	return arena.Handle{Index: h.Index, Generation: h.Generation}
}

func newHandle(k Kind, h arena.Handle) Handle {
	return Handle{Kind: k, Index: h.Index, Generation: h.Generation}
}
