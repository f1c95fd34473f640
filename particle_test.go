package gravitysim

import (
	"math"
	"testing"

	"github.com/mazzeaar/gravity-sim/internal/floats"
)

func newFilledStore(n int) *ParticleStore {
	s := NewParticleStore(n)
	for i := 0; i < n; i++ {
		s.SetPosition(i, Vector2{X: float64(i), Y: float64(i)})
		s.SetVelocity(i, Vector2{X: 1, Y: 0})
		s.SetMass(i, float64(i+1))
	}
	return s
}

func TestParticleStoreResizeGrowAndShrink(t *testing.T) {
	s := NewParticleStore(3)
	if got, want := s.Len(), 3; got != want {
		t.Fatalf("Len = %d, want %d", got, want)
	}
	s.SetPosition(1, Vector2{X: 9, Y: 9})

	s.Resize(5)
	if got, want := s.Len(), 5; got != want {
		t.Fatalf("Len after grow = %d, want %d", got, want)
	}
	if got, want := s.Position(1), (Vector2{X: 9, Y: 9}); !got.Equal(want) {
		t.Errorf("existing data clobbered by grow: Position(1) = %+v, want %+v", got, want)
	}
	if got, want := s.Position(4), (Vector2{}); !got.Equal(want) {
		t.Errorf("new slot not zero-valued: Position(4) = %+v, want %+v", got, want)
	}

	s.Resize(2)
	if got, want := s.Len(), 2; got != want {
		t.Fatalf("Len after shrink = %d, want %d", got, want)
	}
}

func TestParticleStoreIndexOutOfRangePanics(t *testing.T) {
	s := NewParticleStore(2)
	defer func() {
		if recover() == nil {
			t.Fatal("Position(5) on a 2-slot store did not panic")
		}
	}()
	s.Position(5)
}

func TestParticleStoreSetMassDerivesRadius(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 8)
	if got, want := s.Radius(0), 2.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Radius after SetMass(8) = %v, want %v", got, want)
	}
}

func TestParticleStoreAddForceDividesByMass(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 2)
	s.AddForce(0, Vector2{X: 4, Y: 0})
	if got, want := s.Acceleration(0), (Vector2{X: 2, Y: 0}); !got.Equal(want) {
		t.Errorf("Acceleration = %+v, want %+v", got, want)
	}
}

func TestParticleStoreAddForceZeroMassPanics(t *testing.T) {
	s := NewParticleStore(1)
	defer func() {
		if recover() == nil {
			t.Fatal("AddForce on a zero-mass body did not panic")
		}
	}()
	s.AddForce(0, Vector2{X: 1, Y: 0})
}

func TestParticleStoreAddAccelerationBypassesDivision(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 7)
	s.AddAcceleration(0, Vector2{X: 1, Y: 1})
	if got, want := s.Acceleration(0), (Vector2{X: 1, Y: 1}); !got.Equal(want) {
		t.Errorf("Acceleration = %+v, want %+v", got, want)
	}
}

func TestParticleStoreResetForce(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 1)
	s.AddForce(0, Vector2{X: 3, Y: 3})
	s.ResetForce(0)
	if got, want := s.Acceleration(0), (Vector2{}); !got.Equal(want) {
		t.Errorf("Acceleration after ResetForce = %+v, want %+v", got, want)
	}
}

func TestParticleStoreIntegrateHalfKickDrift(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 1)
	s.SetVelocity(0, Vector2{X: 1, Y: 0})
	s.AddAcceleration(0, Vector2{X: 2, Y: 0})

	const dt = 0.5
	s.Integrate(dt)

	wantVel := Vector2{X: 1 + 2*0.25, Y: 0} // vel += acc * dt/2
	if got := s.Velocity(0); !got.Equal(wantVel) {
		t.Errorf("Velocity after Integrate = %+v, want %+v", got, wantVel)
	}
	wantPos := wantVel.Scale(dt) // pos starts at zero, pos += vel * dt
	if got := s.Position(0); !got.Equal(wantPos) {
		t.Errorf("Position after Integrate = %+v, want %+v", got, wantPos)
	}
}

func TestParticleStoreCompactPreservesOrder(t *testing.T) {
	s := newFilledStore(5)
	s.MarkDeleted(1)
	s.MarkDeleted(3)
	s.Compact()

	if got, want := s.Len(), 3; got != want {
		t.Fatalf("Len after Compact = %d, want %d", got, want)
	}
	wantMasses := []float64{1, 3, 5}
	for i, want := range wantMasses {
		if got := s.Mass(i); got != want {
			t.Errorf("Mass(%d) after Compact = %v, want %v", i, got, want)
		}
	}
	if s.HasDeleted() {
		t.Error("HasDeleted = true after Compact, want false")
	}
}

func TestParticleStoreMergeMassWeighted(t *testing.T) {
	s := NewParticleStore(2)
	s.SetPosition(0, Vector2{X: 0, Y: 0})
	s.SetMass(0, 1)
	s.SetPosition(1, Vector2{X: 10, Y: 0})
	s.SetMass(1, 3)

	if err := s.Merge(0, 1); err != nil {
		t.Fatalf("Merge: unexpected error %v", err)
	}
	if got, want := s.Mass(0), 4.0; got != want {
		t.Errorf("Mass(keep) after Merge = %v, want %v", got, want)
	}
	wantPos := Vector2{X: 7.5, Y: 0} // (0*1 + 10*3) / 4
	if got := s.Position(0); !got.Equal(wantPos) {
		t.Errorf("Position(keep) after Merge = %+v, want %+v", got, wantPos)
	}
	if !s.Deleted(1) {
		t.Error("Deleted(remove) = false after Merge, want true")
	}
}

func TestParticleStoreMergeSelfIsInvariantError(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 1)
	err := s.Merge(0, 0)
	if _, ok := err.(*InvariantError); !ok {
		t.Fatalf("Merge(i, i) error = %v (%T), want *InvariantError", err, err)
	}
}

func TestParticleStoreMergeAlreadyDeletedIsInvariantError(t *testing.T) {
	s := NewParticleStore(2)
	s.SetMass(0, 1)
	s.SetMass(1, 1)
	s.MarkDeleted(1)
	err := s.Merge(0, 1)
	if _, ok := err.(*InvariantError); !ok {
		t.Fatalf("Merge with a deleted slot error = %v (%T), want *InvariantError", err, err)
	}
}

func TestParticleStoreMinMaxAccelerationMagnitude(t *testing.T) {
	s := NewParticleStore(3)
	for i := 0; i < 3; i++ {
		s.SetMass(i, 1)
	}
	s.AddAcceleration(0, Vector2{X: 3, Y: 4}) // length 5
	s.AddAcceleration(1, Vector2{X: 1, Y: 0}) // length 1
	s.AddAcceleration(2, Vector2{X: 0, Y: 2}) // length 2

	min, max, err := s.MinMaxAccelerationMagnitude()
	if err != nil {
		t.Fatalf("MinMaxAccelerationMagnitude: unexpected error %v", err)
	}
	if min != 1 || max != 5 {
		t.Errorf("MinMaxAccelerationMagnitude = (%v, %v), want (1, 5)", min, max)
	}
}

func TestParticleStoreMinMaxAccelerationMagnitudeNoLiveBodies(t *testing.T) {
	s := NewParticleStore(1)
	s.SetMass(0, 1)
	s.MarkDeleted(0)
	_, _, err := s.MinMaxAccelerationMagnitude()
	if _, ok := err.(*InvariantError); !ok {
		t.Fatalf("error with no live bodies = %v (%T), want *InvariantError", err, err)
	}
}

func TestParticleStoreTotalMomentumConservedByMerge(t *testing.T) {
	s := NewParticleStore(2)
	s.SetPosition(0, Vector2{X: 0, Y: 0})
	s.SetVelocity(0, Vector2{X: 2, Y: 0})
	s.SetMass(0, 1)
	s.SetPosition(1, Vector2{X: 5, Y: 0})
	s.SetVelocity(1, Vector2{X: -1, Y: 0})
	s.SetMass(1, 2)

	before := s.TotalMomentum()
	if err := s.Merge(0, 1); err != nil {
		t.Fatalf("Merge: unexpected error %v", err)
	}
	after := s.TotalMomentum()
	if !floats.EqualWithinAbs(before.X, after.X, 1e-9) || !floats.EqualWithinAbs(before.Y, after.Y, 1e-9) {
		t.Errorf("TotalMomentum not conserved by Merge: before=%+v after=%+v", before, after)
	}
}

func TestParticleStoreTotalKineticEnergy(t *testing.T) {
	s := NewParticleStore(2)
	s.SetMass(0, 2)
	s.SetVelocity(0, Vector2{X: 3, Y: 0}) // 0.5*2*9 = 9
	s.SetMass(1, 4)
	s.SetVelocity(1, Vector2{X: 0, Y: 1}) // 0.5*4*1 = 2
	if got, want := s.TotalKineticEnergy(), 11.0; got != want {
		t.Errorf("TotalKineticEnergy = %v, want %v", got, want)
	}
}
