// SPDX-License-Identifier: EPL-2.0

package utils

import "cmp"

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
