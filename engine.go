package gravitysim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options holds the engine's tunable physics and concurrency knobs. It is
// the engine's entire configuration surface: there is no file format, no
// flags, no environment variables — loading configuration from any of
// those is an external collaborator's concern, not this package's.
type Options struct {
	// G is the gravitational constant in simulation units.
	G float64
	// Theta is the Barnes-Hut opening angle parameter. The traversal
	// accepts a node when s^2/d^2 < Theta^2, or when the node is a leaf.
	Theta float64
	// Dt is the integration time step.
	Dt float64
	// EpsilonSquared is the softening term added to d^2 in the force law,
	// bounding the force near zero separation.
	EpsilonSquared float64
	// MinCellSize bounds subdivision: a cell is split only while its side
	// length exceeds MinCellSize; in a cell at or below it, colliding
	// particles are handled per CollocatePolicy instead of subdividing further.
	MinCellSize float64
	// Workers is the number of goroutines used for the parallel
	// force-computation phase. Zero means runtime.GOMAXPROCS(0).
	Workers int
	// IntegrationMode selects the half-kick/drift (default) or full
	// kick-drift-kick integrator variant.
	IntegrationMode IntegrationMode
	// CollocatePolicy selects the behavior when subdivision is refused.
	CollocatePolicy CollocatePolicy
}

// DefaultOptions returns reasonable defaults: unit gravity, theta=0.5, a
// small fixed time step, no softening, a conservative minimum cell size,
// and GOMAXPROCS workers.
func DefaultOptions() Options {
	return Options{
		G:               1,
		Theta:           0.5,
		Dt:              0.01,
		EpsilonSquared:  0,
		MinCellSize:     0.1,
		Workers:         0,
		IntegrationMode: HalfKickDrift,
		CollocatePolicy: PolicyCollocate,
	}
}

// Validate reports whether o is usable by a SimulationEngine.
func (o Options) Validate() error {
	if o.Theta < 0 {
		return fmt.Errorf("%w: theta must be non-negative, got %v", ErrEmptyOptions, o.Theta)
	}
	if o.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrEmptyOptions, o.Dt)
	}
	if o.EpsilonSquared < 0 {
		return fmt.Errorf("%w: epsilon-squared must be non-negative, got %v", ErrEmptyOptions, o.EpsilonSquared)
	}
	if o.MinCellSize <= 0 {
		return fmt.Errorf("%w: min cell size must be positive, got %v", ErrEmptyOptions, o.MinCellSize)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %v", ErrEmptyOptions, o.Workers)
	}
	return nil
}

// Clone returns a copy of o.
func (o Options) Clone() Options { return o }

func (o Options) workerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Populator is the seam external presets (galaxy, spinning disc, random
// cube, ...) implement to populate a ParticleStore. The engine never
// enumerates preset kinds; it only ever calls Populate once, at
// construction, through this interface.
type Populator interface {
	Populate(s *ParticleStore, bounds Box2) error
}

// SimulationEngine is the per-step orchestrator: it measures the live
// particle bounding square, rebuilds the QuadTree, computes forces in
// parallel, integrates, and compacts, while exposing monotonic read-only
// counters and timing for observers.
type SimulationEngine struct {
	opts   Options
	store  *ParticleStore
	tree   *QuadTree
	logger *slog.Logger

	step                 uint64
	interactionsThisStep uint64
	totalInteractions    uint64
	lastStepDuration     time.Duration
}

// NewSimulationEngine returns a SimulationEngine over store using opts. If
// populator is non-nil, its Populate method is invoked once, immediately,
// over the zero bounding box {0,0}-{0,0} grown to store's initial extent is
// the populator's own responsibility (the engine does not know the extent
// of a not-yet-populated store). logger may be nil, which silences all
// logging.
func NewSimulationEngine(store *ParticleStore, opts Options, populator Populator, logger *slog.Logger) (*SimulationEngine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &SimulationEngine{
		opts:   opts,
		store:  store,
		tree:   NewQuadTree(),
		logger: logger,
	}
	if populator != nil {
		if err := populator.Populate(store, Box2{}); err != nil {
			return nil, fmt.Errorf("gravitysim: populate: %w", err)
		}
	}
	return e, nil
}

// Options returns the engine's current options.
func (e *SimulationEngine) Options() Options { return e.opts }

// SetOptions replaces the engine's options after validating them.
func (e *SimulationEngine) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

// ResetCounters zeroes the engine's step and interaction counters, without
// touching the particle store.
func (e *SimulationEngine) ResetCounters() {
	e.step = 0
	e.interactionsThisStep = 0
	e.totalInteractions = 0
}

// Step advances the simulation by one time step. It is equivalent to
// StepContext(context.Background()).
func (e *SimulationEngine) Step() error {
	return e.StepContext(context.Background())
}

// measureBounds computes the square bounding box covering every live
// particle, inflating the shorter axis and re-centering so the box is
// square, as required by the tree's root.
func measureBounds(store *ParticleStore, live []int) Box2 {
	first := store.Position(live[0])
	min, max := first, first
	for _, i := range live[1:] {
		p := store.Position(i)
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	w, h := max.X-min.X, max.Y-min.Y
	side := w
	if h > side {
		side = h
	}
	// Guard against a degenerate (zero-size) box, e.g. a single particle or
	// a set of coincident particles, so the tree always has a strictly
	// positive root extent to subdivide within.
	if side <= 0 {
		side = 1
	}
	// Pad slightly so particles exactly on the computed extent land
	// strictly inside the closed bounds after centering, and so the tree's
	// root is never exactly as tight as the data (which would leave no
	// room to subdivide a corner particle away from its neighbors).
	side *= 1.001
	cx, cy := (min.X+max.X)/2, (min.Y+max.Y)/2
	half := side / 2
	// Snap the half-side and the center onto a common power-of-two grid far
	// finer than the box, so that cx±half and cy±half are exact and the box
	// is exactly square rather than square up to rounding.
	_, exp := math.Frexp(half)
	grid := math.Ldexp(1, exp-30)
	half = math.Ceil(half/grid) * grid
	cx, cy = math.Round(cx/grid)*grid, math.Round(cy/grid)*grid
	return Box2{
		Min: Vector2{X: cx - half, Y: cy - half},
		Max: Vector2{X: cx + half, Y: cy + half},
	}
}

func partition(items []int, workers int) [][]int {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		return nil
	}
	out := make([][]int, workers)
	base := len(items) / workers
	rem := len(items) % workers
	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		out[w] = items[start : start+size]
		start += size
	}
	return out
}

// StepContext advances the simulation by one time step, polling ctx for
// cancellation between (never within) worker ranges. If ctx is already
// cancelled before any worker starts, StepContext returns ctx.Err() without
// having mutated the store.
func (e *SimulationEngine) StepContext(ctx context.Context) error {
	start := time.Now()
	e.interactionsThisStep = 0

	live := e.store.liveIndices()
	if len(live) == 0 {
		e.step++
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bounds := measureBounds(e.store, live)
	e.store.ResetAllForces()

	if err := e.tree.Reset(e.store, bounds, e.opts.MinCellSize, e.opts.CollocatePolicy); err != nil {
		if e.logger != nil {
			e.logger.Error("quadtree rebuild failed", "error", err)
		}
		return err
	}

	kernel := Gravity(e.opts.G, e.opts.EpsilonSquared)
	chunks := partition(live, e.opts.workerCount())
	counters := make([]uint64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for w, chunk := range chunks {
		w, chunk := w, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stack := make([]int32, 0, 64)
			var local uint64
			for _, i := range chunk {
				p := e.store.Position(i)
				m := e.store.Mass(i)
				force, interactions := e.tree.ComputeForce(i, p, m, e.opts.Theta, kernel, stack)
				e.store.AddForce(i, force)
				local += uint64(interactions)
			}
			counters[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, c := range counters {
		e.interactionsThisStep += c
	}
	e.totalInteractions += e.interactionsThisStep

	integrator := Integrator{Mode: e.opts.IntegrationMode}
	integrator.Step(e.store, e.opts.Dt)

	if e.store.HasDeleted() {
		e.store.Compact()
	}

	e.step++
	e.lastStepDuration = time.Since(start)
	if e.logger != nil {
		e.logger.Debug("step complete",
			"step", e.step,
			"interactions", e.interactionsThisStep,
			"duration", e.lastStepDuration,
			"live", e.store.LiveCount(),
		)
	}
	return nil
}

// Store returns the engine's particle store.
func (e *SimulationEngine) Store() *ParticleStore { return e.store }

// Tree returns the engine's current quadtree, as built by the most recent
// Step. It is read-only: mutating anything reachable through it is
// undefined.
func (e *SimulationEngine) Tree() *QuadTree { return e.tree }

// StepCount returns the number of steps completed so far.
func (e *SimulationEngine) StepCount() uint64 { return e.step }

// InteractionsThisStep returns the number of accepted cell-body
// interactions in the most recently completed step.
func (e *SimulationEngine) InteractionsThisStep() uint64 { return e.interactionsThisStep }

// TotalInteractions returns the cumulative number of accepted cell-body
// interactions across all steps.
func (e *SimulationEngine) TotalInteractions() uint64 { return e.totalInteractions }

// LastStepDuration returns the wall-clock duration of the most recently
// completed step.
func (e *SimulationEngine) LastStepDuration() time.Duration { return e.lastStepDuration }

// TotalMomentum returns the store's total linear momentum.
func (e *SimulationEngine) TotalMomentum() Vector2 { return e.store.TotalMomentum() }

// TotalEnergy returns the store's total kinetic energy plus an
// approximate potential energy, computed with the same un-normalized
// force law as the force kernel for internal consistency (not a true
// Newtonian potential; see the Gravity kernel's documentation).
func (e *SimulationEngine) TotalEnergy() float64 {
	kinetic := e.store.TotalKineticEnergy()
	var potential float64
	live := e.store.liveIndices()
	for a := 0; a < len(live); a++ {
		for b := a + 1; b < len(live); b++ {
			i, j := live[a], live[b]
			d2 := e.store.Position(i).Sub(e.store.Position(j)).LenSq()
			denom := d2 + e.opts.EpsilonSquared
			if denom == 0 {
				continue
			}
			potential -= e.opts.G * e.store.Mass(i) * e.store.Mass(j) / denom
		}
	}
	return kinetic + potential
}
