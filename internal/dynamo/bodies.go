package dynamo

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bodies is the Body Set: index-aligned per-body sequences. A mass of
// exactly zero marks a dead body that the next Compact removes.
type Bodies struct {
	Pos   []r2.Vec
	Vel   []r2.Vec
	Mass  []float64
	Color []color.RGBA
}

// NewBodies copies the given sequences into a new Body Set.
func NewBodies(pos, vel []r2.Vec, mass []float64, colors []color.RGBA) (*Bodies, error) {
	b := &Bodies{
		Pos:   append([]r2.Vec(nil), pos...),
		Vel:   append([]r2.Vec(nil), vel...),
		Mass:  append([]float64(nil), mass...),
		Color: append([]color.RGBA(nil), colors...),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bodies) Len() int { return len(b.Mass) }

// Live counts bodies with positive mass.
func (b *Bodies) Live() int {
	n := 0
	for _, m := range b.Mass {
		if m > 0 {
			n++
		}
	}
	return n
}

// Validate checks that all sequences share one length and no mass is negative.
func (b *Bodies) Validate() error {
	n := len(b.Mass)
	if len(b.Pos) != n || len(b.Vel) != n || len(b.Color) != n {
		return fmt.Errorf("%w: pos=%d vel=%d mass=%d color=%d",
			ErrDimensionMismatch, len(b.Pos), len(b.Vel), n, len(b.Color))
	}
	for i, m := range b.Mass {
		if m < 0 || math.IsNaN(m) {
			return fmt.Errorf("%w: body %d has mass %g", ErrInvalidState, i, m)
		}
	}
	return nil
}

// IsFinite reports whether every position and velocity is finite.
func (b *Bodies) IsFinite() bool {
	for i := range b.Pos {
		if !finite(b.Pos[i]) || !finite(b.Vel[i]) {
			return false
		}
	}
	return true
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Compact removes dead bodies from every sequence, preserving the order of
// the survivors, and returns lock remapped into the shrunk index space.
// The result is -1 when lock does not name a surviving body.
func (b *Bodies) Compact(lock int) int {
	newLock := -1
	k := 0
	for i := range b.Mass {
		if b.Mass[i] <= 0 {
			continue
		}
		if i == lock {
			newLock = k
		}
		b.Pos[k] = b.Pos[i]
		b.Vel[k] = b.Vel[i]
		b.Mass[k] = b.Mass[i]
		b.Color[k] = b.Color[i]
		k++
	}
	b.Pos = b.Pos[:k]
	b.Vel = b.Vel[:k]
	b.Mass = b.Mass[:k]
	b.Color = b.Color[:k]
	return newLock
}

func (b *Bodies) Clone() *Bodies {
	return &Bodies{
		Pos:   append([]r2.Vec(nil), b.Pos...),
		Vel:   append([]r2.Vec(nil), b.Vel...),
		Mass:  append([]float64(nil), b.Mass...),
		Color: append([]color.RGBA(nil), b.Color...),
	}
}

// Snapshot builds a frame from the current state. pre is copied.
func (b *Bodies) Snapshot(step int, pre []r2.Vec, lock int) *Frame {
	return &Frame{
		Step:  step,
		Pre:   append([]r2.Vec(nil), pre...),
		Post:  append([]r2.Vec(nil), b.Pos...),
		Vel:   append([]r2.Vec(nil), b.Vel...),
		Mass:  append([]float64(nil), b.Mass...),
		Color: append([]color.RGBA(nil), b.Color...),
		Lock:  lock,
	}
}

func (b *Bodies) TotalMass() float64 {
	sum := 0.0
	for _, m := range b.Mass {
		sum += m
	}
	return sum
}

// Momentum returns the total linear momentum.
func (b *Bodies) Momentum() r2.Vec {
	var p r2.Vec
	for i, m := range b.Mass {
		p = r2.Add(p, r2.Scale(m, b.Vel[i]))
	}
	return p
}
