package gravitysim

// IntegrationMode selects between the stipulated half-kick/drift step and a
// time-symmetric full kick-drift-kick variant.
type IntegrationMode int

const (
	// HalfKickDrift applies a single velocity half-kick followed by a full
	// position drift, per the stipulated (half-implemented leapfrog)
	// behavior. This is the default.
	HalfKickDrift IntegrationMode = iota
	// FullKickDriftKick additionally applies a second velocity half-kick
	// after the drift, reusing the same, now-stale acceleration (since
	// recomputing it would require a second tree build). Time-symmetric,
	// offered as an opt-in for tests and callers that need it.
	FullKickDriftKick
)

// Integrator applies one time step's worth of symplectic integration to a
// ParticleStore, given the accelerations already accumulated there by a
// QuadTree traversal.
type Integrator struct {
	Mode IntegrationMode
}

// Step advances store by dt according to it.Mode.
func (it Integrator) Step(store *ParticleStore, dt float64) {
	store.Integrate(dt) // half-kick, then drift
	if it.Mode == FullKickDriftKick {
		store.kickHalf(dt)
	}
}
