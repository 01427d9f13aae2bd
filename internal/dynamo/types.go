package dynamo

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field computes the acceleration of every body from positions and masses.
// dst has the same length as x and is overwritten.
type Field interface {
	Accelerations(dst, x []r2.Vec, m []float64)
}

// Integrator advances the positions and velocities of b by one sub-step of
// size h. Masses and colors are left untouched.
type Integrator interface {
	Step(f Field, b *Bodies, h float64)
}

// Observer receives every emitted frame. A non-nil error aborts the run.
type Observer interface {
	OnFrame(f *Frame) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(f *Frame) error

func (fn ObserverFunc) OnFrame(f *Frame) error { return fn(f) }

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

// Frame is the snapshot of one simulation step. Pre holds the positions
// after collision resolution and compaction but before integration.
type Frame struct {
	Step  int
	Pre   []r2.Vec
	Post  []r2.Vec
	Vel   []r2.Vec
	Mass  []float64
	Color []color.RGBA
	Lock  int
}

// Len returns the number of bodies in the frame.
func (f *Frame) Len() int { return len(f.Mass) }

type Config struct {
	TimeStep           float64
	SubSteps           int
	Drag               float64
	CollisionThreshold float64
	MinBodies          int
	MaxSteps           int
	Lock               bool
	Anchor             r2.Vec
	ValidateState      bool
}

func DefaultConfig() Config {
	return Config{
		TimeStep:           0.05,
		SubSteps:           10,
		Drag:               1.0,
		CollisionThreshold: 1.0,
		MinBodies:          1,
		MaxSteps:           10000,
		Anchor:             r2.Vec{X: 600, Y: 400},
		ValidateState:      true,
	}
}

// Validate reports the first constraint violated by c.
func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %g", ErrInvalidConfig, c.TimeStep)
	}
	if c.SubSteps < 1 {
		return fmt.Errorf("%w: sub_steps_per_frame must be at least 1, got %d", ErrInvalidConfig, c.SubSteps)
	}
	if c.CollisionThreshold <= 0 {
		return fmt.Errorf("%w: collision_threshold must be positive, got %g", ErrInvalidConfig, c.CollisionThreshold)
	}
	if c.MinBodies < 0 {
		return fmt.Errorf("%w: min_bodies must not be negative, got %d", ErrInvalidConfig, c.MinBodies)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

// StopReason tells why a run ended.
type StopReason string

const (
	StopNone      StopReason = ""
	StopMaxSteps  StopReason = "max_steps"
	StopMinBodies StopReason = "min_bodies"
	StopCanceled  StopReason = "canceled"
)

type Result struct {
	StepsTaken  int
	Merges      int
	FinalBodies int
	FinalLock   int
	Stop        StopReason
	Metrics     map[string]float64
}
