package viz

import (
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	minZoom = 0.125
	maxZoom = 16
)

// Camera zooms and pans the drawn view around the canvas center. It only
// changes what is shown; recorded frames are never modified.
type Camera struct {
	Zoom float64
	Pan  r2.Vec
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) ZoomIn()  { c.Zoom = min(c.Zoom*1.25, maxZoom) }
func (c *Camera) ZoomOut() { c.Zoom = max(c.Zoom/1.25, minZoom) }

// Move pans by a fraction of the visible area.
func (c *Camera) Move(dx, dy float64, v View) {
	c.Pan = r2.Add(c.Pan, r2.Vec{X: dx * v.Width / c.Zoom, Y: dy * v.Height / c.Zoom})
}

func (c *Camera) Reset() {
	c.Zoom = 1
	c.Pan = r2.Vec{}
}

func (c *Camera) identity() bool {
	return c.Zoom == 1 && c.Pan == (r2.Vec{})
}

// Project maps a world point into view coordinates.
func (c *Camera) Project(p r2.Vec, v View) r2.Vec {
	center := v.Center()
	return r2.Add(r2.Scale(c.Zoom, r2.Sub(p, r2.Add(center, c.Pan))), center)
}

// Apply returns f as seen through the camera along with the view scaled
// to the zoom. f is returned as is when the camera is at rest.
func (c *Camera) Apply(f *dynamo.Frame, v View) (*dynamo.Frame, View) {
	if c.identity() {
		return f, v
	}
	out := *f
	out.Pre = make([]r2.Vec, len(f.Pre))
	out.Post = make([]r2.Vec, len(f.Post))
	for i := range f.Post {
		out.Pre[i] = c.Project(f.Pre[i], v)
		out.Post[i] = c.Project(f.Post[i], v)
	}
	v.Density *= c.Zoom
	return &out, v
}
