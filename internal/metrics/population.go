package metrics

import "github.com/san-kum/accretion/internal/dynamo"

// BodyCount reports the number of bodies in the latest frame.
type BodyCount struct {
	name  string
	count int
}

func NewBodyCount() *BodyCount {
	return &BodyCount{name: "final_bodies"}
}

func (b *BodyCount) Name() string            { return b.name }
func (b *BodyCount) Observe(f *dynamo.Frame) { b.count = f.Len() }
func (b *BodyCount) Value() float64          { return float64(b.count) }
func (b *BodyCount) Reset()                  { b.count = 0 }

// LargestMass reports the heaviest body of the latest frame.
type LargestMass struct {
	name string
	max  float64
}

func NewLargestMass() *LargestMass {
	return &LargestMass{name: "largest_mass"}
}

func (l *LargestMass) Name() string { return l.name }

func (l *LargestMass) Observe(f *dynamo.Frame) {
	l.max = 0
	for _, m := range f.Mass {
		if m > l.max {
			l.max = m
		}
	}
}

func (l *LargestMass) Value() float64 { return l.max }
func (l *LargestMass) Reset()         { l.max = 0 }

// Defaults returns a fresh set of the metrics recorded for every run.
func Defaults(stabilityRadius float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewMassDrift(),
		NewMomentumDrift(),
		NewEnergyDrift(),
		NewBodyCount(),
		NewLargestMass(),
		NewStability(stabilityRadius),
	}
}
