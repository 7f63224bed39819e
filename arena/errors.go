// SPDX-License-Identifier: EPL-2.0

package arena

import "errors"

var (
	ErrInvalidSize = errors.New("arena size must be positive")
)
