package metrics

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stability is the fraction of frames in which every body stays within
// radius of the center of mass.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *dynamo.Frame) {
	s.samples++
	com := physics.CenterOfMass(f.Post, f.Mass)
	for i, p := range f.Post {
		if f.Mass[i] > 0 && r2.Norm(r2.Sub(p, com)) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
