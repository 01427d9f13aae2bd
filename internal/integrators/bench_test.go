package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func benchRing(n int) *dynamo.Bodies {
	pos := make([]r2.Vec, n)
	vel := make([]r2.Vec, n)
	mass := make([]float64, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(n)
		pos[i] = r2.Vec{X: 100 * math.Cos(angle), Y: 100 * math.Sin(angle)}
		vel[i] = r2.Vec{X: -math.Sin(angle) * 0.5, Y: math.Cos(angle) * 0.5}
		mass[i] = 1
	}
	return newBodies(pos, vel, mass)
}

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	bodies := benchRing(64)
	g := physics.NewGravity()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(g, bodies, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmarkIntegrator(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)      { benchmarkIntegrator(b, NewRK4()) }
func BenchmarkLeapfrog(b *testing.B) { benchmarkIntegrator(b, NewLeapfrog()) }
