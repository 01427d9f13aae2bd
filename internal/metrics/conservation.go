package metrics

import (
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// MassDrift is the largest relative change of total mass seen so far.
// Merges conserve mass, so anything above rounding error points at a bug.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(f *dynamo.Frame) {
	total := 0.0
	for _, mass := range f.Mass {
		total += mass
	}
	if m.samples == 0 {
		m.initial = total
	}
	m.samples++
	if m.initial != 0 {
		m.maxDrift = math.Max(m.maxDrift, math.Abs(total-m.initial)/m.initial)
	}
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// MomentumDrift is the largest change of total linear momentum, relative to
// the summed momentum magnitudes of the first frame. Drag below one makes it
// grow on purpose.
type MomentumDrift struct {
	name     string
	initial  r2.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f *dynamo.Frame) {
	var p r2.Vec
	scale := 0.0
	for i, mass := range f.Mass {
		p = r2.Add(p, r2.Scale(mass, f.Vel[i]))
		scale += mass * r2.Norm(f.Vel[i])
	}
	if m.samples == 0 {
		m.initial = p
		m.scale = scale
	}
	m.samples++
	if m.scale != 0 {
		m.maxDrift = math.Max(m.maxDrift, r2.Norm(r2.Sub(p, m.initial))/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
