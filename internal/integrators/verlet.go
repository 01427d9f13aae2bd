package integrators

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Leapfrog is the kick-drift-kick form of velocity Verlet.
type Leapfrog struct {
	acc []r2.Vec
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(f dynamo.Field, b *dynamo.Bodies, h float64) {
	n := b.Len()
	if len(l.acc) != n {
		l.acc = make([]r2.Vec, n)
	}
	halfH := 0.5 * h

	f.Accelerations(l.acc, b.Pos, b.Mass)
	for i := 0; i < n; i++ {
		b.Vel[i] = r2.Add(b.Vel[i], r2.Scale(halfH, l.acc[i]))
		b.Pos[i] = r2.Add(b.Pos[i], r2.Scale(h, b.Vel[i]))
	}

	f.Accelerations(l.acc, b.Pos, b.Mass)
	for i := 0; i < n; i++ {
		b.Vel[i] = r2.Add(b.Vel[i], r2.Scale(halfH, l.acc[i]))
	}
}
