package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func points(v []r2.Vec) [][2]float64 {
	out := make([][2]float64, len(v))
	for i, p := range v {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func vecs(p [][2]float64) []r2.Vec {
	out := make([]r2.Vec, len(p))
	for i, q := range p {
		out[i] = r2.Vec{X: q[0], Y: q[1]}
	}
	return out
}

func rgba(c []color.RGBA) [][4]uint8 {
	out := make([][4]uint8, len(c))
	for i, q := range c {
		out[i] = [4]uint8{q.R, q.G, q.B, q.A}
	}
	return out
}

func colors(c [][4]uint8) []color.RGBA {
	out := make([]color.RGBA, len(c))
	for i, q := range c {
		out[i] = color.RGBA{R: q[0], G: q[1], B: q[2], A: q[3]}
	}
	return out
}

func decodeFrame(step int, x, v, m, col, xPre string, lock int) (*dynamo.Frame, error) {
	var post, vel, pre [][2]float64
	var mass []float64
	var c [][4]uint8

	for _, field := range []struct {
		name string
		src  string
		dst  any
	}{
		{"x", x, &post},
		{"v", v, &vel},
		{"m", m, &mass},
		{"color", col, &c},
		{"x_pre", xPre, &pre},
	} {
		if err := json.Unmarshal([]byte(field.src), field.dst); err != nil {
			return nil, fmt.Errorf("frame %d column %s: %w", step, field.name, err)
		}
	}

	f := &dynamo.Frame{
		Step:  step,
		Pre:   vecs(pre),
		Post:  vecs(post),
		Vel:   vecs(vel),
		Mass:  mass,
		Color: colors(c),
		Lock:  lock,
	}
	n := len(mass)
	if len(f.Pre) != n || len(f.Post) != n || len(f.Vel) != n || len(f.Color) != n {
		return nil, fmt.Errorf("frame %d: %w", step, dynamo.ErrDimensionMismatch)
	}
	return f, nil
}

func (s *Store) openFrames(runID string) (*sql.DB, error) {
	path := filepath.Join(s.Dir(runID), framesFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no frames", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return openDB(path)
}

// EachFrame streams the stored frames of a run in step order. Iteration
// stops at the first error returned by fn.
func (s *Store) EachFrame(runID string, fn func(*dynamo.Frame) error) error {
	db, err := s.openFrames(runID)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT ix, x, v, m, color, x_pre, lock FROM sim ORDER BY ix`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			step, lock        int
			x, v, m, col, pre string
		)
		if err := rows.Scan(&step, &x, &v, &m, &col, &pre, &lock); err != nil {
			return err
		}
		f, err := decodeFrame(step, x, v, m, col, pre, lock)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadFrames reads all frames of a run into memory.
func (s *Store) LoadFrames(runID string) ([]*dynamo.Frame, error) {
	var frames []*dynamo.Frame
	err := s.EachFrame(runID, func(f *dynamo.Frame) error {
		frames = append(frames, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// CountFrames returns the number of committed frames.
func (s *Store) CountFrames(runID string) (int, error) {
	db, err := s.openFrames(runID)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sim`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
