package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/storage"
	"github.com/san-kum/accretion/internal/viz"
)

type Body struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	PreX   float64 `json:"pre_x"`
	PreY   float64 `json:"pre_y"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
	Locked bool    `json:"locked,omitempty"`
}

type Frame struct {
	Step   int    `json:"step"`
	Lock   int    `json:"lock"`
	Bodies []Body `json:"bodies"`
}

type ExportData struct {
	Run    storage.RunMetadata `json:"run"`
	Frames []Frame             `json:"frames"`
}

func bodies(f *dynamo.Frame) []Body {
	out := make([]Body, f.Len())
	for i := range out {
		out[i] = Body{
			Index:  i,
			X:      f.Post[i].X,
			Y:      f.Post[i].Y,
			VX:     f.Vel[i].X,
			VY:     f.Vel[i].Y,
			PreX:   f.Pre[i].X,
			PreY:   f.Pre[i].Y,
			Mass:   f.Mass[i],
			Color:  viz.Hex(f.Color[i]),
			Locked: i == f.Lock,
		}
	}
	return out
}

// ExportJSON writes the run metadata followed by every frame as one
// indented document.
func ExportJSON(w io.Writer, meta storage.RunMetadata, frames []*dynamo.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]Frame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = Frame{Step: f.Step, Lock: f.Lock, Bodies: bodies(f)}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
