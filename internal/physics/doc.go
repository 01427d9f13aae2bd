// Package physics provides the gravitational force field of the simulator.
//
// [Gravity] implements [dynamo.Field] by direct O(n²) summation over every
// listed body. The package also offers the conserved quantities used by the
// metrics package:
//
//   - [Energy]: kinetic and potential energy
//   - [CenterOfMass]: mass-weighted mean position
//   - [AngularMomentum]: z component about the origin
//
// # Coincident Bodies
//
// No softening term is applied. Two bodies sharing a position produce
// NaN accelerations, which the driver reports as [dynamo.ErrInvalidState]
// when state validation is enabled:
//
//	g := physics.NewGravity()
//	g.Accelerations(acc, x, m) // acc[i] is NaN if x[i] == x[j] for some j != i
package physics
