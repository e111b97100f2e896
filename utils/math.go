package utils

import (
	"math"
)

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// ColorBytesToFloat converts 8-bit RGB to normalized floats.
func ColorBytesToFloat(c [3]uint8) [3]float32 {
	return [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}
