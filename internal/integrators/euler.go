package integrators

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Euler is the semi-implicit (symplectic) Euler method: the velocity is
// kicked first and the position drifts with the new velocity.
type Euler struct {
	acc []r2.Vec
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Field, b *dynamo.Bodies, h float64) {
	n := b.Len()
	if len(e.acc) != n {
		e.acc = make([]r2.Vec, n)
	}

	f.Accelerations(e.acc, b.Pos, b.Mass)
	for i := 0; i < n; i++ {
		b.Vel[i] = r2.Add(b.Vel[i], r2.Scale(h, e.acc[i]))
		b.Pos[i] = r2.Add(b.Pos[i], r2.Scale(h, b.Vel[i]))
	}
}
