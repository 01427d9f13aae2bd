package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/accretion/internal/collision"
	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulator drives a Body Set frame by frame. It owns the bodies it was given
// and must not be shared between goroutines.
type Simulator struct {
	cfg        dynamo.Config
	field      dynamo.Field
	integrator dynamo.Integrator
	resolver   *collision.Resolver
	bodies     *dynamo.Bodies
	lock       int

	step   int
	merges int
	stop   dynamo.StopReason
	pre    []r2.Vec

	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *log.Logger
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

func WithMetric(m dynamo.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m) }
}

// New validates cfg and the initial bodies and returns a driver positioned
// before the first frame. lock is only checked when cfg.Lock is set; pass -1
// to track no body.
func New(cfg dynamo.Config, field dynamo.Field, integ dynamo.Integrator, bodies *dynamo.Bodies, lock int, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if field == nil || integ == nil || bodies == nil {
		return nil, fmt.Errorf("%w: field, integrator and bodies are required", dynamo.ErrInvalidConfig)
	}
	if err := bodies.Validate(); err != nil {
		return nil, err
	}
	if cfg.Lock && (lock < 0 || lock >= bodies.Len()) {
		return nil, fmt.Errorf("%w: lock index %d outside %d bodies", dynamo.ErrDimensionMismatch, lock, bodies.Len())
	}
	if lock >= bodies.Len() {
		lock = -1
	}

	s := &Simulator{
		cfg:        cfg,
		field:      field,
		integrator: integ,
		resolver:   collision.NewResolver(cfg.CollisionThreshold),
		bodies:     bodies,
		lock:       lock,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	return s, nil
}

// Bodies exposes the live Body Set. Callers must not mutate it while the
// simulator runs.
func (s *Simulator) Bodies() *dynamo.Bodies { return s.bodies }

// Lock returns the current locked index, or -1.
func (s *Simulator) Lock() int { return s.lock }

// StepIndex is the index the next frame will carry.
func (s *Simulator) StepIndex() int { return s.step }

func (s *Simulator) Merges() int { return s.merges }

// Observe adds an observer for the frames still to come.
func (s *Simulator) Observe(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Done reports whether a stop condition holds. A MaxSteps of zero means no
// step limit.
func (s *Simulator) Done() bool {
	return s.stopReason() != dynamo.StopNone
}

func (s *Simulator) stopReason() dynamo.StopReason {
	if s.cfg.MaxSteps > 0 && s.step >= s.cfg.MaxSteps {
		return dynamo.StopMaxSteps
	}
	if s.bodies.Live() < s.cfg.MinBodies {
		return dynamo.StopMinBodies
	}
	return dynamo.StopNone
}

// Step computes and emits a single frame.
func (s *Simulator) Step() (*dynamo.Frame, error) {
	if s.Done() {
		return nil, dynamo.ErrFinished
	}
	start := time.Now()

	lock, merges := s.resolver.Resolve(s.bodies, s.lock)
	for _, mg := range merges {
		s.merges += len(mg.Absorbed)
		s.logger.Debug("merge", "step", s.step, "into", mg.Absorber, "absorbed", mg.Absorbed, "mass", s.bodies.Mass[mg.Absorber])
	}
	s.lock = s.bodies.Compact(lock)

	s.pre = append(s.pre[:0], s.bodies.Pos...)

	h := s.cfg.TimeStep
	for k := 0; k < s.cfg.SubSteps; k++ {
		s.integrator.Step(s.field, s.bodies, h)
	}
	if s.cfg.ValidateState && !s.bodies.IsFinite() {
		return nil, &dynamo.SimulationError{Step: s.step, Bodies: s.bodies.Len(), Wrapped: dynamo.ErrInvalidState}
	}

	for i := range s.bodies.Vel {
		s.bodies.Vel[i] = r2.Scale(s.cfg.Drag, s.bodies.Vel[i])
	}

	if s.cfg.Lock && s.lock >= 0 {
		p := s.bodies.Pos[s.lock]
		for i := range s.bodies.Pos {
			s.bodies.Pos[i] = r2.Add(r2.Sub(s.bodies.Pos[i], p), s.cfg.Anchor)
		}
	}

	frame := s.bodies.Snapshot(s.step, s.pre, s.lock)
	s.step++

	for _, m := range s.metrics {
		m.Observe(frame)
	}
	for _, o := range s.observers {
		if err := o.OnFrame(frame); err != nil {
			return frame, fmt.Errorf("observer at step %d: %w", frame.Step, err)
		}
	}

	s.logger.Debug("frame", "step", frame.Step, "bodies", frame.Len(), "took", time.Since(start))
	return frame, nil
}

// Run steps until a stop condition holds, an error occurs or ctx is done.
// ctx is only consulted between frames. The returned Result is never nil.
func (s *Simulator) Run(ctx context.Context) (*dynamo.Result, error) {
	s.logger.Info("simulation started", "bodies", s.bodies.Len(), "max_steps", s.cfg.MaxSteps, "sub_steps", s.cfg.SubSteps)

	for !s.Done() {
		select {
		case <-ctx.Done():
			s.stop = dynamo.StopCanceled
			s.logger.Warn("simulation canceled", "step", s.step)
			return s.Result(), ctx.Err()
		default:
		}

		if _, err := s.Step(); err != nil {
			s.logger.Error("simulation failed", "step", s.step, "err", err)
			return s.Result(), err
		}
	}

	s.stop = s.stopReason()
	res := s.Result()
	s.logger.Info("simulation finished", "reason", res.Stop, "steps", res.StepsTaken, "bodies", res.FinalBodies, "merges", res.Merges)
	return res, nil
}

// Result summarises the run so far.
func (s *Simulator) Result() *dynamo.Result {
	stop := s.stop
	if stop == dynamo.StopNone {
		stop = s.stopReason()
	}
	res := &dynamo.Result{
		StepsTaken:  s.step,
		Merges:      s.merges,
		FinalBodies: s.bodies.Live(),
		FinalLock:   s.lock,
		Stop:        stop,
		Metrics:     make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
