// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// Use 32767 for positive max to avoid overflow
	return int16(Clamp(x, -1, 1) * 32767.0)
}

// Int16ToFloat32 scales 16-bit PCM to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}
