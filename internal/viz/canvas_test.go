package viz

import (
	"image/color"
	"strings"
	"testing"
)

func TestCanvas_SetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Pixels(); w != 8 || h != 8 {
		t.Fatalf("Pixels() = %d,%d, want 8,8", w, h)
	}

	c.Set(3, 5)
	if got := c.Grid[1][1]; got != blank|0x10 {
		t.Errorf("cell = %U, want %U", got, blank|0x10)
	}
	c.Unset(3, 5)
	if c.Grid[1][1] != blank {
		t.Errorf("cell not cleared: %U", c.Grid[1][1])
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("out-of-range Set touched the grid")
			}
		}
	}
}

func TestCanvas_PaintTint(t *testing.T) {
	c := NewCanvas(2, 1)
	red := color.RGBA{R: 255, A: 255}
	c.Paint(0, 0, red)

	if c.Tint[0][0] != "#ff0000" {
		t.Errorf("tint = %q, want #ff0000", c.Tint[0][0])
	}
	if c.Tint[0][1] != "" {
		t.Errorf("untouched cell tinted %q", c.Tint[0][1])
	}

	c.Unset(0, 0)
	if c.Tint[0][0] != "" {
		t.Error("tint kept after the cell became empty")
	}

	c.Paint(1, 1, red)
	c.Clear()
	if c.Grid[0][0] != blank || c.Tint[0][0] != "" {
		t.Error("Clear left pixels behind")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0)
	for col := 0; col < 5; col++ {
		if c.Grid[0][col] != blank|0x1|0x8 {
			t.Errorf("col %d = %U", col, c.Grid[0][col])
		}
	}
}

func TestCanvas_Render(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Paint(0, 0, color.RGBA{G: 200, A: 255})
	c.Set(5, 7)

	out := c.Render()
	if lines := strings.Split(strings.TrimRight(out, "\n"), "\n"); len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
	if !strings.ContainsRune(out, blank|0x1) || !strings.ContainsRune(out, blank|0x80) {
		t.Errorf("render lost pixels: %q", out)
	}
}
