// Package util provides small numeric helpers shared by the simulation packages.
package util

import "math"

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapAngle maps an angle in radians onto (-Pi, Pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle interpolates between two headings along the shortest arc.
func LerpAngle(from, to, t float64) float64 {
	return WrapAngle(Lerp(from, from+WrapAngle(to-from), t))
}

// RoundHalfAway rounds to the nearest integer, ties away from zero.
func RoundHalfAway(v float64) int {
	return int(math.Round(v))
}
