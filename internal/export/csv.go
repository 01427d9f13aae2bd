package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/accretion/internal/dynamo"
)

var csvHeader = []string{"step", "body", "x", "y", "vx", "vy", "pre_x", "pre_y", "mass", "color", "locked"}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ExportCSV writes one row per body per frame.
func ExportCSV(w io.Writer, frames []*dynamo.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range frames {
		step := strconv.Itoa(f.Step)
		for _, b := range bodies(f) {
			row := []string{
				step,
				strconv.Itoa(b.Index),
				ftoa(b.X), ftoa(b.Y),
				ftoa(b.VX), ftoa(b.VY),
				ftoa(b.PreX), ftoa(b.PreY),
				ftoa(b.Mass),
				b.Color,
				strconv.FormatBool(b.Locked),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
