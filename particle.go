package gravitysim

import (
	"math"

	"github.com/mazzeaar/gravity-sim/internal/floats"
)

// ParticleStore is a structure-of-arrays container for N bodies: their
// positions, velocities, accelerations, masses, radii, and a per-body
// deletion flag. It is the exclusive owner of its backing arrays; a
// QuadTree only ever holds a read-only borrow of a ParticleStore for the
// duration of a single build-and-traverse cycle.
//
// Indices passed to ParticleStore methods are a programming-error contract,
// not a recoverable one: an out-of-range index panics, the same way
// indexing a Go slice out of range does, since only already-validated
// internal callers (the engine, the tree) ever construct indices.
type ParticleStore struct {
	pos     []Vector2
	vel     []Vector2
	acc     []Vector2
	mass    []float64
	radius  []float64
	deleted []bool
}

// NewParticleStore returns a ParticleStore with n slots, all zero-valued.
func NewParticleStore(n int) *ParticleStore {
	s := &ParticleStore{}
	s.Resize(n)
	return s
}

// Len returns the number of slots in the store, including any marked
// deleted. Use LiveCount for the number of bodies still participating in
// the simulation.
func (s *ParticleStore) Len() int { return len(s.pos) }

// LiveCount returns the number of bodies not marked deleted.
func (s *ParticleStore) LiveCount() int {
	n := 0
	for _, d := range s.deleted {
		if !d {
			n++
		}
	}
	return n
}

// Resize grows the store to n slots, zero-initializing any new entries and
// preserving existing ones. Shrinking truncates the trailing slots; callers
// that want to remove specific slots while preserving order should mark
// them deleted and call Compact instead.
func (s *ParticleStore) Resize(n int) {
	if n <= len(s.pos) {
		s.pos = s.pos[:n]
		s.vel = s.vel[:n]
		s.acc = s.acc[:n]
		s.mass = s.mass[:n]
		s.radius = s.radius[:n]
		s.deleted = s.deleted[:n]
		return
	}
	grow := n - len(s.pos)
	s.pos = append(s.pos, make([]Vector2, grow)...)
	s.vel = append(s.vel, make([]Vector2, grow)...)
	s.acc = append(s.acc, make([]Vector2, grow)...)
	s.mass = append(s.mass, make([]float64, grow)...)
	s.radius = append(s.radius, make([]float64, grow)...)
	s.deleted = append(s.deleted, make([]bool, grow)...)
}

func (s *ParticleStore) checkIndex(i int) {
	if i < 0 || i >= len(s.pos) {
		panic("gravitysim: particle index out of range")
	}
}

// Position returns the position of body i.
func (s *ParticleStore) Position(i int) Vector2 { s.checkIndex(i); return s.pos[i] }

// Velocity returns the velocity of body i.
func (s *ParticleStore) Velocity(i int) Vector2 { s.checkIndex(i); return s.vel[i] }

// Acceleration returns the accumulated acceleration of body i.
func (s *ParticleStore) Acceleration(i int) Vector2 { s.checkIndex(i); return s.acc[i] }

// Mass returns the mass of body i.
func (s *ParticleStore) Mass(i int) float64 { s.checkIndex(i); return s.mass[i] }

// Radius returns the radius of body i.
func (s *ParticleStore) Radius(i int) float64 { s.checkIndex(i); return s.radius[i] }

// Deleted reports whether body i is marked deleted.
func (s *ParticleStore) Deleted(i int) bool { s.checkIndex(i); return s.deleted[i] }

// SetPosition sets the position of body i.
func (s *ParticleStore) SetPosition(i int, p Vector2) { s.checkIndex(i); s.pos[i] = p }

// SetVelocity sets the velocity of body i.
func (s *ParticleStore) SetVelocity(i int, v Vector2) { s.checkIndex(i); s.vel[i] = v }

// SetMass sets the mass of body i and derives its radius as mass^(1/3), per
// the population-ingress contract.
func (s *ParticleStore) SetMass(i int, m float64) {
	s.checkIndex(i)
	s.mass[i] = m
	s.radius[i] = math.Cbrt(m)
}

// MarkDeleted flags body i for removal on the next Compact.
func (s *ParticleStore) MarkDeleted(i int) { s.checkIndex(i); s.deleted[i] = true }

// HasDeleted reports whether any slot is currently marked deleted.
func (s *ParticleStore) HasDeleted() bool {
	for _, d := range s.deleted {
		if d {
			return true
		}
	}
	return false
}

// AddForce accumulates a force contribution F on body i, converting it to
// an acceleration contribution by dividing by body i's mass:
//
//	acc[i] += F / mass[i]
//
// AddForce requires mass[i] > 0; this is the store's one precondition
// beyond index range, and like index range is treated as a programming
// error (a panic, not a returned error). Masses are not validated when they
// are set, so a non-positive mass is first detected here.
func (s *ParticleStore) AddForce(i int, f Vector2) {
	s.checkIndex(i)
	if s.mass[i] <= 0 {
		panic("gravitysim: AddForce on non-positive mass")
	}
	s.acc[i].AddInPlace(f.Div(s.mass[i]))
}

// AddAcceleration accumulates an acceleration contribution directly,
// bypassing the force/mass division, for callers that already hold an
// acceleration rather than a force.
func (s *ParticleStore) AddAcceleration(i int, a Vector2) {
	s.checkIndex(i)
	s.acc[i].AddInPlace(a)
}

// ResetForce zeroes the accumulated acceleration of body i.
func (s *ParticleStore) ResetForce(i int) { s.checkIndex(i); s.acc[i] = Vector2{} }

// ResetAllForces zeroes the accumulated acceleration of every live body.
func (s *ParticleStore) ResetAllForces() {
	for i, d := range s.deleted {
		if !d {
			s.acc[i] = Vector2{}
		}
	}
}

// kickHalf applies a half-step velocity kick to every live body:
// vel[i] += acc[i] * (dt/2).
func (s *ParticleStore) kickHalf(dt float64) {
	half := dt * 0.5
	for i, d := range s.deleted {
		if !d {
			s.vel[i].AddInPlace(s.acc[i].Scale(half))
		}
	}
}

// drift applies a full-step position update to every live body:
// pos[i] += vel[i] * dt.
func (s *ParticleStore) drift(dt float64) {
	for i, d := range s.deleted {
		if !d {
			s.pos[i].AddInPlace(s.vel[i].Scale(dt))
		}
	}
}

// Integrate applies one symplectic half-kick/drift step to every live body:
//
//	vel[i] += acc[i] * (0.5*dt)
//	pos[i] += vel[i] * dt
//
// This is the base integration contract. SimulationEngine additionally
// offers a full kick-drift-kick mode via Integrator; Integrate itself
// always performs the single stipulated half-kick.
func (s *ParticleStore) Integrate(dt float64) {
	s.kickHalf(dt)
	s.drift(dt)
}

// Compact removes every slot marked deleted, preserving the relative order
// of the remaining slots and shrinking the store's length accordingly.
func (s *ParticleStore) Compact() {
	w := 0
	for r := 0; r < len(s.pos); r++ {
		if s.deleted[r] {
			continue
		}
		if w != r {
			s.pos[w] = s.pos[r]
			s.vel[w] = s.vel[r]
			s.acc[w] = s.acc[r]
			s.mass[w] = s.mass[r]
			s.radius[w] = s.radius[r]
			s.deleted[w] = false
		}
		w++
	}
	s.Resize(w)
}

// Merge mass-weighted combines remove into keep and marks remove deleted:
//
//	pos[keep]  = (pos[keep]*mass[keep] + pos[remove]*mass[remove]) / (mass[keep]+mass[remove])
//	vel[keep]  = same weighting
//	acc[keep] += acc[remove]
//	mass[keep] += mass[remove]
//	radius[keep] = mass[keep]^(1/3)
//	deleted[remove] = true
//
// Merge returns an *InvariantError if keep or remove is already deleted, or
// if keep == remove.
func (s *ParticleStore) Merge(keep, remove int) error {
	s.checkIndex(keep)
	s.checkIndex(remove)
	if keep == remove {
		return invariantf("ParticleStore", "merge: keep and remove are the same index %d", keep)
	}
	if s.deleted[keep] || s.deleted[remove] {
		return invariantf("ParticleStore", "merge: cannot merge an already-deleted slot (keep=%d remove=%d)", keep, remove)
	}
	mk, mr := s.mass[keep], s.mass[remove]
	total := mk + mr
	s.pos[keep] = s.pos[keep].Scale(mk).Add(s.pos[remove].Scale(mr)).Scale(1 / total)
	s.vel[keep] = s.vel[keep].Scale(mk).Add(s.vel[remove].Scale(mr)).Scale(1 / total)
	s.acc[keep] = s.acc[keep].Add(s.acc[remove])
	s.mass[keep] = total
	s.radius[keep] = math.Cbrt(total)
	s.deleted[remove] = true
	return nil
}

// MinMaxAccelerationMagnitude returns the minimum and maximum |acc[i]| over
// live bodies. It returns an error if there are no live bodies.
func (s *ParticleStore) MinMaxAccelerationMagnitude() (min, max float64, err error) {
	var mags []float64
	for i, d := range s.deleted {
		if !d {
			mags = append(mags, s.acc[i].Length())
		}
	}
	if len(mags) == 0 {
		return 0, 0, invariantf("ParticleStore", "MinMaxAccelerationMagnitude: no live bodies")
	}
	min, _ = floats.Min(mags)
	max, _ = floats.Max(mags)
	return min, max, nil
}

// TotalMomentum returns the sum, over live bodies, of mass[i]*vel[i].
func (s *ParticleStore) TotalMomentum() Vector2 {
	var total Vector2
	for i, d := range s.deleted {
		if !d {
			total.AddInPlace(s.vel[i].Scale(s.mass[i]))
		}
	}
	return total
}

// TotalKineticEnergy returns the sum, over live bodies, of 0.5*mass[i]*|vel[i]|^2.
func (s *ParticleStore) TotalKineticEnergy() float64 {
	var total float64
	for i, d := range s.deleted {
		if !d {
			total += 0.5 * s.mass[i] * s.vel[i].LenSq()
		}
	}
	return total
}

// liveIndices returns the indices of all bodies not marked deleted, in
// ascending order.
func (s *ParticleStore) liveIndices() []int {
	idx := make([]int, 0, len(s.pos))
	for i, d := range s.deleted {
		if !d {
			idx = append(idx, i)
		}
	}
	return idx
}
