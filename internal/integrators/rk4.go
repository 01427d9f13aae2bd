package integrators

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// RK4 integrates dx/dt = v, dv/dt = a(x) with a four-stage Runge-Kutta
// scheme. By default the third stage evaluates the field at x + l1/2
// (the velocity increment of stage two) instead of the textbook x + k1/2;
// trajectories of stored runs depend on this, so it stays the default.
// NewClassicRK4 returns the textbook variant.
type RK4 struct {
	classic bool

	k, l    [4][]r2.Vec
	acc     []r2.Vec
	scratch []r2.Vec
}

func NewRK4() *RK4 {
	return &RK4{}
}

func NewClassicRK4() *RK4 {
	return &RK4{classic: true}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.acc) != n {
		for s := 0; s < 4; s++ {
			r.k[s] = make([]r2.Vec, n)
			r.l[s] = make([]r2.Vec, n)
		}
		r.acc = make([]r2.Vec, n)
		r.scratch = make([]r2.Vec, n)
	}
}

func (r *RK4) Step(f dynamo.Field, b *dynamo.Bodies, h float64) {
	n := b.Len()
	r.ensureScratch(n)

	x, v, m := b.Pos, b.Vel, b.Mass
	k0, k1, k2, k3 := r.k[0], r.k[1], r.k[2], r.k[3]
	l0, l1, l2, l3 := r.l[0], r.l[1], r.l[2], r.l[3]

	f.Accelerations(r.acc, x, m)
	for i := 0; i < n; i++ {
		k0[i] = r2.Scale(h, v[i])
		l0[i] = r2.Scale(h, r.acc[i])
	}

	for i := 0; i < n; i++ {
		k1[i] = r2.Scale(h, r2.Add(v[i], r2.Scale(0.5, l0[i])))
		r.scratch[i] = r2.Add(x[i], r2.Scale(0.5, k0[i]))
	}
	r.eval(f, m, h, l1)

	offset := l1
	if r.classic {
		offset = k1
	}
	for i := 0; i < n; i++ {
		k2[i] = r2.Scale(h, r2.Add(v[i], r2.Scale(0.5, l1[i])))
		r.scratch[i] = r2.Add(x[i], r2.Scale(0.5, offset[i]))
	}
	r.eval(f, m, h, l2)

	for i := 0; i < n; i++ {
		k3[i] = r2.Scale(h, r2.Add(v[i], l2[i]))
		r.scratch[i] = r2.Add(x[i], k2[i])
	}
	r.eval(f, m, h, l3)

	const sixth = 1.0 / 6
	for i := 0; i < n; i++ {
		dx := r2.Add(r2.Add(r2.Add(k0[i], r2.Scale(2, k1[i])), r2.Scale(2, k2[i])), k3[i])
		dv := r2.Add(r2.Add(r2.Add(l0[i], r2.Scale(2, l1[i])), r2.Scale(2, l2[i])), l3[i])
		x[i] = r2.Add(x[i], r2.Scale(sixth, dx))
		v[i] = r2.Add(v[i], r2.Scale(sixth, dv))
	}
}

// eval stores h·a(scratch) in dst.
func (r *RK4) eval(f dynamo.Field, m []float64, h float64, dst []r2.Vec) {
	f.Accelerations(r.acc, r.scratch, m)
	for i := range dst {
		dst[i] = r2.Scale(h, r.acc[i])
	}
}
