// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom interpolates between y1 and y2 at t in [0, 1], using y0 and y3
// as the outer control points.
func CatmullRom(y0, y1, y2, y3, t float32) float32 {
	c1 := (y2 - y0) / 2
	c2 := y0 - 2.5*y1 + 2*y2 - (y3 / 2)
	c3 := (y3-y0)/2 + 1.5*(y1-y2)

	return ((c3*t+c2)*t+c1)*t + y1
}
