// Package gravitysim implements a 2D Barnes-Hut N-body gravitational
// simulation engine: a structure-of-arrays particle store, a
// mass-aggregating quadtree rebuilt each step, an opening-angle force
// traversal parallelized across worker goroutines, and a symplectic
// integrator.
//
// A typical caller constructs a ParticleStore, populates it either
// directly or via a Populator, wraps it in a SimulationEngine with a set
// of Options, and repeatedly calls Step.
package gravitysim
