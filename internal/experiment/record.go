package experiment

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/sim"
	"github.com/san-kum/accretion/internal/storage"
)

// Metadata describes the run this experiment would produce.
func (e *Experiment) Metadata(initialBodies int) storage.RunMetadata {
	c := e.cfg
	return storage.RunMetadata{
		Generator:          c.InitState.Generator,
		Integrator:         c.Integrator,
		Seed:               c.Seed,
		TimeStep:           c.TimeStep,
		SubSteps:           c.SubSteps,
		Drag:               c.Drag,
		CollisionThreshold: c.CollisionThreshold,
		MinBodies:          c.MinBodies,
		MaxSteps:           c.MaxSteps,
		InitialBodies:      initialBodies,
		Width:              c.View.Width,
		Height:             c.View.Height,
		Density:            c.View.Density,
	}
}

// Record runs the experiment to completion and stores every frame in a new
// run of store. A canceled run keeps the frames emitted so far.
func (e *Experiment) Record(ctx context.Context, store *storage.Store, logger *log.Logger, opts ...sim.Option) (string, *dynamo.Result, error) {
	s, err := e.Setup(append([]sim.Option{sim.WithLogger(logger)}, opts...)...)
	if err != nil {
		return "", nil, err
	}

	rec, err := store.Create(e.Metadata(s.Bodies().Len()), e.cfg.SaveSteps, logger)
	if err != nil {
		return "", nil, err
	}
	s.Observe(rec)

	res, runErr := s.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		res = nil
	}
	if err := rec.Close(res); err != nil && runErr == nil {
		runErr = err
	}
	return rec.ID(), res, runErr
}
