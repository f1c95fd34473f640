package gravitysim

import "math"

// ForceFunc computes the force vector acting on a body of mass m1 due to a
// body (or mass aggregate) of mass m2, given the separation vector v from
// the first body to the second. It mirrors the shape of a classic pairwise
// force law: it knows nothing about particle identity, only masses and
// geometry, since the tree traversal has already excluded self-interaction
// before a ForceFunc is ever called.
type ForceFunc func(m1, m2 float64, v Vector2) Vector2

// Gravity returns the engine's default force kernel. It reproduces the
// reduced form stipulated for this engine:
//
//	F = G * m1 * m2 * v / (|v|^2 + epsilonSquared)
//
// Note that this is dimensionally inconsistent with Newton's law of
// gravitation by a missing factor of 1/sqrt(|v|^2+epsilonSquared): a true
// inverse-square law would divide by (|v|^2+epsilonSquared)^1.5 to normalize
// v to a unit vector first. This un-normalized form is intentional and
// stipulated; see NewtonianGravity for the physically faithful alternative.
//
// Gravity returns the zero vector, without performing the division, when
// |v|^2+epsilonSquared is zero (coincident bodies with no softening); this
// is the degenerate case the opening-angle traversal also recognizes and
// skips independently.
func Gravity(g, epsilonSquared float64) ForceFunc {
	return func(m1, m2 float64, v Vector2) Vector2 {
		denom := v.LenSq() + epsilonSquared
		if denom == 0 {
			return Vector2{}
		}
		return v.Scale(g * m1 * m2 / denom)
	}
}

// NewtonianGravity returns a correctly-normalized inverse-square force
// kernel, offered alongside Gravity for callers that want physically
// faithful forces rather than the stipulated reduced form. It is not the
// engine's default.
func NewtonianGravity(g, epsilonSquared float64) ForceFunc {
	return func(m1, m2 float64, v Vector2) Vector2 {
		d2 := v.LenSq() + epsilonSquared
		if d2 == 0 {
			return Vector2{}
		}
		return v.Scale(g * m1 * m2 / (d2 * math.Sqrt(d2)))
	}
}
