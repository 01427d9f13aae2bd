// Package dynamo provides the core primitives of the accretion simulator.
//
// The package defines the data model and the contracts shared by the
// physics, integration, collision and driver packages:
//
//   - [Bodies]: the Body Set, parallel per-body sequences with tombstoning
//   - [Field]: instantaneous acceleration for every body
//   - [Integrator]: advances positions and velocities by one sub-step
//   - [Frame]: the immutable per-step snapshot handed to consumers
//   - [Observer]: consumer of frames (renderer, snapshot store)
//   - [Metric]: scalar summary accumulated over a run
//
// # Example
//
//	bodies, lock := provider.Generate()
//	s, _ := sim.New(cfg, physics.NewGravity(), integrators.NewRK4(), bodies, lock)
//	result, _ := s.Run(ctx)
//
// # Thread Safety
//
// Bodies and the simulator that owns them are NOT thread-safe. A frame is
// a deep copy and may be retained or shared freely once emitted.
package dynamo
