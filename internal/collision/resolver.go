// Package collision merges overlapping bodies in a perfectly inelastic way.
package collision

import (
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Merge records the bodies swallowed by one absorber during a pass.
// Indices refer to the body set before compaction.
type Merge struct {
	Absorber int
	Absorbed []int
}

// Resolver detects and merges colliding bodies. Body j collides with a live
// body i when their distance is below Radius(m_i) * Threshold.
type Resolver struct {
	Threshold float64

	hits []int
}

func NewResolver(threshold float64) *Resolver {
	return &Resolver{Threshold: threshold}
}

// Radius is the size proxy of a body, m^(1/3).
func Radius(m float64) float64 {
	return math.Pow(m, 1.0/3)
}

// Resolve runs one merge pass over b in ascending index order and returns
// the possibly transferred lock together with the merges performed.
//
// Every body colliding with i is merged into i: masses add up, velocity and
// position become mass-weighted means, and the absorbed masses drop to zero.
// A body zeroed earlier in the pass is neither an absorber nor a candidate.
// The pass is not repeated until stable, so with three or more mutually
// overlapping bodies the outcome depends on index order.
func (r *Resolver) Resolve(b *dynamo.Bodies, lock int) (int, []Merge) {
	var merges []Merge
	n := b.Len()

	for i := 0; i < n; i++ {
		mi := b.Mass[i]
		if mi <= 0 {
			continue
		}
		reach := Radius(mi) * r.Threshold
		pi := b.Pos[i]

		r.hits = r.hits[:0]
		for j := 0; j < n; j++ {
			if j == i || b.Mass[j] <= 0 {
				continue
			}
			dx := b.Pos[j].X - pi.X
			dy := b.Pos[j].Y - pi.Y
			if math.Sqrt(dx*dx+dy*dy) < reach {
				r.hits = append(r.hits, j)
			}
		}
		if len(r.hits) == 0 {
			continue
		}

		var sumM float64
		var sumV, sumP r2.Vec
		for _, j := range r.hits {
			mj := b.Mass[j]
			sumM += mj
			sumV = r2.Add(sumV, r2.Scale(mj, b.Vel[j]))
			sumP = r2.Add(sumP, r2.Scale(mj, b.Pos[j]))
			b.Mass[j] = 0
			if j == lock {
				lock = i
			}
		}

		total := mi + sumM
		b.Mass[i] = total
		b.Vel[i] = weighted(b.Vel[i], mi, sumV, total)
		b.Pos[i] = weighted(pi, mi, sumP, total)

		merges = append(merges, Merge{
			Absorber: i,
			Absorbed: append([]int(nil), r.hits...),
		})
	}

	return lock, merges
}

// weighted returns (v*m + sum) / total.
func weighted(v r2.Vec, m float64, sum r2.Vec, total float64) r2.Vec {
	return r2.Vec{
		X: (v.X*m + sum.X) / total,
		Y: (v.Y*m + sum.Y) / total,
	}
}
