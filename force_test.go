package gravitysim

import (
	"math"
	"testing"
)

func TestGravityDirectionAndMagnitude(t *testing.T) {
	kernel := Gravity(1, 0)
	v := Vector2{X: 3, Y: 4} // separation from body 1 to body 2
	f := kernel(2, 5, v)

	// Un-normalized form: F = G*m1*m2*v / |v|^2
	want := v.Scale(2 * 5 / 25.0)
	if !f.Equal(want) {
		t.Errorf("Gravity force = %+v, want %+v", f, want)
	}
	// Force points in the direction of v (toward the other body), not away.
	if f.Dot(v) <= 0 {
		t.Errorf("Gravity force %+v does not point toward the other body along %+v", f, v)
	}
}

func TestGravityDegenerateZeroDistance(t *testing.T) {
	kernel := Gravity(1, 0)
	f := kernel(1, 1, Vector2{})
	if !f.Equal(Vector2{}) {
		t.Errorf("Gravity at zero separation with no softening = %+v, want zero vector", f)
	}
}

func TestGravitySofteningAvoidsDivideByZero(t *testing.T) {
	kernel := Gravity(1, 1)
	// With softening, the denominator is epsilonSquared (nonzero), so even a
	// zero separation vector must produce an exact zero force, not a NaN.
	f := kernel(1, 1, Vector2{})
	if !f.Equal(Vector2{}) {
		t.Errorf("Gravity with softening at zero separation = %+v, want zero vector", f)
	}
}

func TestNewtonianGravityIsInverseSquare(t *testing.T) {
	kernel := NewtonianGravity(1, 0)
	near := kernel(1, 1, Vector2{X: 1, Y: 0})
	far := kernel(1, 1, Vector2{X: 2, Y: 0})

	// Doubling distance should quarter the magnitude for a true inverse
	// square law, unlike the stipulated Gravity kernel.
	ratio := near.Length() / far.Length()
	if math.Abs(ratio-4) > 1e-9 {
		t.Errorf("NewtonianGravity magnitude ratio at 2x distance = %v, want 4", ratio)
	}
}

func TestNewtonianGravityDegenerate(t *testing.T) {
	kernel := NewtonianGravity(1, 0)
	f := kernel(1, 1, Vector2{})
	if !f.Equal(Vector2{}) {
		t.Errorf("NewtonianGravity at zero separation = %+v, want zero vector", f)
	}
}

func TestGravityKernelsAgreeAtUnitDistance(t *testing.T) {
	g, n := Gravity(1, 0), NewtonianGravity(1, 0)
	v := Vector2{X: 1, Y: 0}
	fg, fn := g(1, 1, v), n(1, 1, v)
	if math.Abs(fg.X-fn.X) > 1e-12 {
		t.Errorf("Gravity and NewtonianGravity should agree at unit distance: %v vs %v", fg, fn)
	}
}
