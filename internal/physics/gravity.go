package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Gravity is the direct-summation force field
//
//	a_i = Σ_{j≠i} m_j (x_j - x_i) / |x_j - x_i|^3
//
// with unit gravitational constant and no softening. Two bodies at exactly
// the same position yield a NaN acceleration, whatever their masses; the
// collision pass and compaction that precede every frame are expected to
// have removed such pairs.
type Gravity struct{}

func NewGravity() *Gravity {
	return &Gravity{}
}

// Accelerations writes the acceleration of every body into dst.
// Dead bodies (mass 0) exert no force but still receive an acceleration.
func (g *Gravity) Accelerations(dst, x []r2.Vec, m []float64) {
	n := len(x)
	for i := 0; i < n; i++ {
		xi, yi := x[i].X, x[i].Y
		ax, ay := 0.0, 0.0

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dx := x[j].X - xi
			dy := x[j].Y - yi
			r3 := math.Pow(math.Sqrt(dx*dx+dy*dy), 3)

			ax += m[j] * dx / r3
			ay += m[j] * dy / r3
		}

		dst[i] = r2.Vec{X: ax, Y: ay}
	}
}

// Energy returns the kinetic and potential energy of the system.
// Dead bodies are ignored.
func Energy(x, v []r2.Vec, m []float64) (kinetic, potential float64) {
	n := len(m)
	for i := 0; i < n; i++ {
		if m[i] <= 0 {
			continue
		}
		kinetic += 0.5 * m[i] * r2.Norm2(v[i])

		for j := i + 1; j < n; j++ {
			if m[j] <= 0 {
				continue
			}
			r := r2.Norm(r2.Sub(x[j], x[i]))
			potential -= m[i] * m[j] / r
		}
	}
	return kinetic, potential
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(x []r2.Vec, m []float64) r2.Vec {
	var c r2.Vec
	total := 0.0
	for i := range m {
		c = r2.Add(c, r2.Scale(m[i], x[i]))
		total += m[i]
	}
	if total == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/total, c)
}

// AngularMomentum returns the z component of the total angular momentum
// about the origin.
func AngularMomentum(x, v []r2.Vec, m []float64) float64 {
	L := 0.0
	for i := range m {
		L += m[i] * (x[i].X*v[i].Y - x[i].Y*v[i].X)
	}
	return L
}
