package viz

import (
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// View describes the world rectangle a frame is drawn into. Bodies are
// squares of side Side(m, Density) world units.
type View struct {
	Width, Height float64
	Density       float64
}

// Center of the view in world units.
func (v View) Center() r2.Vec {
	return r2.Vec{X: v.Width / 2, Y: v.Height / 2}
}

// Side is the drawn size of a body of mass m, truncated to whole units.
func Side(m, density float64) int {
	return int(math.Cbrt(m) * density)
}

// Visible reports whether body i of f should be drawn: it is alive and its
// post-step position lies strictly inside the w x h canvas.
func Visible(f *dynamo.Frame, i int, w, h float64) bool {
	if i < 0 || i >= f.Len() || f.Mass[i] <= 0 {
		return false
	}
	p := f.Post[i]
	return p.X > 0 && p.Y > 0 && p.X < w && p.Y < h
}

// DrawFrame paints every visible body of f as a square plus a trail
// segment back to its pre-step position, scaled from v to the canvas.
func DrawFrame(c *Canvas, f *dynamo.Frame, v View) {
	pw, ph := c.Pixels()
	sx, sy := float64(pw)/v.Width, float64(ph)/v.Height

	for i := 0; i < f.Len(); i++ {
		if !Visible(f, i, v.Width, v.Height) {
			continue
		}
		tint := f.Color[i]
		x, y := int(f.Post[i].X*sx), int(f.Post[i].Y*sy)
		px, py := int(f.Pre[i].X*sx), int(f.Pre[i].Y*sy)
		c.PaintLine(px, py, x, y, tint)

		side := float64(Side(f.Mass[i], v.Density))
		w, h := max(1, int(side*sx)), max(1, int(side*sy))
		c.FillRect(x-w/2, y-h/2, w, h, tint)
	}
}
