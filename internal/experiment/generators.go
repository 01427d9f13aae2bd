package experiment

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generator builds an initial Body Set around center. Generators must be
// deterministic for a given rng state.
type Generator func(init config.InitStateConfig, center r2.Vec, rng *rand.Rand) (*dynamo.Bodies, error)

type builder struct {
	pos   []r2.Vec
	vel   []r2.Vec
	mass  []float64
	color []color.RGBA
}

func (b *builder) add(p, v r2.Vec, m float64, c color.RGBA) {
	b.pos = append(b.pos, p)
	b.vel = append(b.vel, v)
	b.mass = append(b.mass, m)
	b.color = append(b.color, c)
}

func (b *builder) bodies() (*dynamo.Bodies, error) {
	return dynamo.NewBodies(b.pos, b.vel, b.mass, b.color)
}

// massSampler draws masses from a normal distribution truncated from below
// at a twentieth of the mean, so every generated body is live.
func massSampler(init config.InitStateConfig, rng *rand.Rand) func() float64 {
	mean := init.MeanMass
	if mean <= 0 {
		mean = 1
	}
	n := distuv.Normal{Mu: mean, Sigma: mean * math.Abs(init.MassSpread), Src: rng}
	floor := mean / 20
	return func() float64 {
		if n.Sigma == 0 {
			return mean
		}
		return math.Max(floor, n.Rand())
	}
}

// hue picks a saturated color for a body at the given angle in degrees.
func hue(deg float64) color.RGBA {
	r, g, b := colorful.Hcl(math.Mod(deg+360, 360), 0.7, 0.75).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var starColor = func() color.RGBA {
	r, g, b := colorful.Hcl(85, 0.25, 0.97).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}()

func orbitalSpeed(central, r float64) float64 {
	if central <= 0 || r <= 0 {
		return 0
	}
	return math.Sqrt(central / r)
}

func polar(center r2.Vec, r, theta float64) r2.Vec {
	return r2.Vec{X: center.X + r*math.Cos(theta), Y: center.Y + r*math.Sin(theta)}
}

func tangent(theta, speed float64) r2.Vec {
	return r2.Vec{X: -math.Sin(theta) * speed, Y: math.Cos(theta) * speed}
}

// Disk places a heavy central body at index 0 surrounded by bodies on
// near-circular orbits spread uniformly over the disk area.
func Disk(init config.InitStateConfig, center r2.Vec, rng *rand.Rand) (*dynamo.Bodies, error) {
	if init.Radius <= 0 {
		return nil, fmt.Errorf("%w: disk radius must be positive, got %g", dynamo.ErrInvalidConfig, init.Radius)
	}
	var b builder
	if init.CentralMass > 0 {
		b.add(center, r2.Vec{}, init.CentralMass, starColor)
	}

	mass := massSampler(init, rng)
	angle := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}
	area := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	inner := 0.15 * init.Radius

	for i := 0; i < init.NumBodies; i++ {
		theta := angle.Rand()
		r := inner + (init.Radius-inner)*math.Sqrt(area.Rand())
		speed := init.Speed * orbitalSpeed(init.CentralMass, r)
		b.add(polar(center, r, theta), tangent(theta, speed), mass(), hue(theta*180/math.Pi))
	}
	return b.bodies()
}

// Ring places bodies evenly on a circle of the configured radius with a
// small radial jitter, optionally around a central body.
func Ring(init config.InitStateConfig, center r2.Vec, rng *rand.Rand) (*dynamo.Bodies, error) {
	if init.Radius <= 0 {
		return nil, fmt.Errorf("%w: ring radius must be positive, got %g", dynamo.ErrInvalidConfig, init.Radius)
	}
	var b builder
	if init.CentralMass > 0 {
		b.add(center, r2.Vec{}, init.CentralMass, starColor)
	}

	mass := massSampler(init, rng)
	jitter := distuv.Normal{Mu: 1, Sigma: 0.02, Src: rng}
	for i := 0; i < init.NumBodies; i++ {
		theta := 2 * math.Pi * float64(i) / float64(init.NumBodies)
		r := init.Radius * jitter.Rand()
		speed := init.Speed * orbitalSpeed(init.CentralMass, r)
		b.add(polar(center, r, theta), tangent(theta, speed), mass(), hue(float64(i)*360/float64(init.NumBodies)))
	}
	return b.bodies()
}

// Cluster scatters bodies at rest with a Gaussian profile of standard
// deviation radius/2. The cluster collapses under its own gravity.
func Cluster(init config.InitStateConfig, center r2.Vec, rng *rand.Rand) (*dynamo.Bodies, error) {
	if init.Radius <= 0 {
		return nil, fmt.Errorf("%w: cluster radius must be positive, got %g", dynamo.ErrInvalidConfig, init.Radius)
	}
	var b builder
	mass := massSampler(init, rng)
	dx := distuv.Normal{Mu: center.X, Sigma: init.Radius / 2, Src: rng}
	dy := distuv.Normal{Mu: center.Y, Sigma: init.Radius / 2, Src: rng}
	for i := 0; i < init.NumBodies; i++ {
		p := r2.Vec{X: dx.Rand(), Y: dy.Rand()}
		off := r2.Sub(p, center)
		b.add(p, r2.Vec{}, mass(), hue(math.Atan2(off.Y, off.X)*180/math.Pi))
	}
	return b.bodies()
}

// Binary puts two bodies of CentralMass on a circular orbit of separation
// 2*radius around center, with NumBodies light bodies on circumbinary
// orbits outside.
func Binary(init config.InitStateConfig, center r2.Vec, rng *rand.Rand) (*dynamo.Bodies, error) {
	if init.Radius <= 0 || init.CentralMass <= 0 {
		return nil, fmt.Errorf("%w: binary needs positive radius and central_mass", dynamo.ErrInvalidConfig)
	}
	var b builder
	m := init.CentralMass
	v := init.Speed * math.Sqrt(m/(4*init.Radius))
	b.add(r2.Vec{X: center.X - init.Radius, Y: center.Y}, r2.Vec{Y: -v}, m, hue(20))
	b.add(r2.Vec{X: center.X + init.Radius, Y: center.Y}, r2.Vec{Y: v}, m, hue(220))

	mass := massSampler(init, rng)
	angle := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}
	dist := distuv.Uniform{Min: 3 * init.Radius, Max: 6 * init.Radius, Src: rng}
	for i := 0; i < init.NumBodies; i++ {
		theta := angle.Rand()
		r := dist.Rand()
		speed := init.Speed * orbitalSpeed(2*m, r)
		b.add(polar(center, r, theta), tangent(theta, speed), mass(), hue(theta*180/math.Pi))
	}
	return b.bodies()
}

// Explicit builds the bodies listed in the configuration. Positions are
// taken as given; center is unused.
func Explicit(init config.InitStateConfig, _ r2.Vec, _ *rand.Rand) (*dynamo.Bodies, error) {
	if len(init.Bodies) == 0 {
		return nil, fmt.Errorf("%w: explicit generator needs at least one body", dynamo.ErrInvalidConfig)
	}
	var b builder
	for i, bc := range init.Bodies {
		c := hue(float64(i) * 137.5)
		if bc.Color != "" {
			parsed, err := colorful.Hex(bc.Color)
			if err != nil {
				return nil, fmt.Errorf("%w: body %d: %v", dynamo.ErrInvalidConfig, i, err)
			}
			r, g, bl := parsed.RGB255()
			c = color.RGBA{R: r, G: g, B: bl, A: 255}
		}
		b.add(bc.Pos.Vec(), bc.Vel.Vec(), bc.Mass, c)
	}
	return b.bodies()
}
