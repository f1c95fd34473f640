// Package floats provides a small set of slice-of-float64 helpers, adapted
// from gonum.org/v1/gonum's root floats.go down to the subset this module
// actually needs: aggregate min/max for ParticleStore's observers, and
// tolerance comparisons for tests.
package floats

import "math"

// Max returns the maximum value in s and its index. It panics if s is
// empty.
func Max(s []float64) (max float64, ind int) {
	max = s[0]
	for i, v := range s {
		if v > max {
			max = v
			ind = i
		}
	}
	return max, ind
}

// Min returns the minimum value in s and its index. It panics if s is
// empty.
func Min(s []float64) (min float64, ind int) {
	min = s[0]
	for i, v := range s {
		if v < min {
			min = v
			ind = i
		}
	}
	return min, ind
}

// Sum returns the sum of the elements of s.
func Sum(s []float64) float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// EqualWithinAbs returns whether a and b are within abs of one another.
func EqualWithinAbs(a, b, abs float64) bool {
	return a == b || math.Abs(a-b) <= abs
}

// EqualWithinRel returns whether the difference between a and b is not
// greater than tol times the greater absolute value of a or b.
func EqualWithinRel(a, b, tol float64) bool {
	if a == b {
		return true
	}
	delta := math.Abs(a - b)
	if delta == 0 {
		return true
	}
	return delta/math.Max(math.Abs(a), math.Abs(b)) <= tol
}

// EqualWithinAbsOrRel returns whether a and b are equal to within the
// absolute tolerance or within the relative tolerance, whichever is larger.
func EqualWithinAbsOrRel(a, b, absTol, relTol float64) bool {
	if EqualWithinAbs(a, b, absTol) {
		return true
	}
	return EqualWithinRel(a, b, relTol)
}
