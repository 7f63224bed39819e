// SPDX-License-Identifier: EPL-2.0

package arena_test

import (
	"fmt"

	"github.com/ik5/audmux/arena"
)

// Example shows how a removed handle stops resolving once its slot is reused.
func Example() {
	a, _ := arena.New[string](2)

	kick, _ := a.Add("kick")
	snare, _ := a.Add("snare")
	a.Remove(kick)
	hat, _ := a.Add("hat")

	_, ok := a.Get(kick)
	v, _ := a.Get(hat)

	fmt.Println(kick, snare, hat)
	fmt.Println(ok, v, a.NumUsedSlots())
	// Output:
	// 0@0 1@0 0@1
	// false hat 2
}
