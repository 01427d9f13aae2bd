package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format, one circle per dot
// colored with the cell tint.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := canvas.Tint[row][col]
			if fill == "" {
				fill = "#ffffff"
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// FramesToSVG renders the trails of all frames into a single image of the
// view, older segments fading out, with the bodies of the last frame drawn
// on top. Only every nth frame contributes a trail when every > 1.
func FramesToSVG(w io.Writer, frames []*dynamo.Frame, v viz.View, every int) error {
	if every < 1 {
		every = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke-linecap="round">
`, v.Width, v.Height, v.Width, v.Height, background)

	n := len(frames)
	for k, f := range frames {
		if k%every != 0 && k != n-1 {
			continue
		}
		opacity := 0.15 + 0.85*float64(k+1)/float64(n)
		for i := 0; i < f.Len(); i++ {
			if !viz.Visible(f, i, v.Width, v.Height) {
				continue
			}
			stroke := max(1, viz.Side(f.Mass[i], v.Density))
			fmt.Fprintf(&sb, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%d\" stroke-opacity=\"%.2f\"/>\n",
				f.Pre[i].X, f.Pre[i].Y, f.Post[i].X, f.Post[i].Y, viz.Hex(f.Color[i]), stroke, opacity)
		}
	}
	sb.WriteString("</g>\n")

	if n > 0 {
		last := frames[n-1]
		for i := 0; i < last.Len(); i++ {
			if !viz.Visible(last, i, v.Width, v.Height) {
				continue
			}
			side := float64(viz.Side(last.Mass[i], v.Density))
			p := last.Post[i]
			fmt.Fprintf(&sb, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.0f\" height=\"%.0f\" fill=\"%s\"/>\n",
				p.X-side/2, p.Y-side/2, side, side, viz.Hex(last.Color[i]))
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
