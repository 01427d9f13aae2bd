package sim_test

import (
	"context"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/accretion/internal/collision"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/integrators"
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
)

func bodies(pos, vel []r2.Vec, mass []float64) *dynamo.Bodies {
	b, err := dynamo.NewBodies(pos, vel, mass, make([]color.RGBA, len(mass)))
	Expect(err).NotTo(HaveOccurred())
	return b
}

var _ = Describe("Simulator", func() {
	var (
		cfg    dynamo.Config
		frames []*dynamo.Frame
		record dynamo.Observer
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
		cfg.MaxSteps = 200
		frames = nil
		record = dynamo.ObserverFunc(func(f *dynamo.Frame) error {
			frames = append(frames, f)
			return nil
		})
	})

	Context("with two equal masses just inside the collision reach", func() {
		It("merges them into one body at the midpoint on the first pass", func() {
			const m = 27.0
			cfg.CollisionThreshold = 2
			d := collision.Radius(m)*cfg.CollisionThreshold - 1e-9

			b := bodies(
				[]r2.Vec{{X: 100, Y: 100}, {X: 100 + d, Y: 100}},
				[]r2.Vec{{X: 0, Y: 1}, {X: 0, Y: -1}},
				[]float64{m, m},
			)
			s, err := sim.New(cfg, physics.NewGravity(), integrators.NewRK4(), b, -1, sim.WithObserver(record))
			Expect(err).NotTo(HaveOccurred())

			f, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Len()).To(Equal(1))
			Expect(f.Mass[0]).To(Equal(2 * m))
			Expect(f.Pre[0].X).To(BeNumerically("~", 100+d/2, 1e-12))
			Expect(f.Pre[0].Y).To(Equal(100.0))
			Expect(f.Vel[0]).To(Equal(r2.Vec{}))
		})
	})

	Context("with a single body at rest", func() {
		It("stays where it is", func() {
			cfg.SubSteps = 25
			cfg.MaxSteps = 8
			b := bodies([]r2.Vec{{X: 42, Y: -7}}, []r2.Vec{{}}, []float64{5})

			s, err := sim.New(cfg, physics.NewGravity(), integrators.NewRK4(), b, -1, sim.WithObserver(record))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(8))
			for _, f := range frames {
				Expect(f.Post[0].X).To(BeNumerically("~", 42, 1e-12))
				Expect(f.Post[0].Y).To(BeNumerically("~", -7, 1e-12))
			}
		})
	})

	Context("with two bodies falling together", func() {
		It("stops on the frame in which the live count drops below the minimum", func() {
			cfg.MinBodies = 2
			cfg.CollisionThreshold = 3
			b := bodies(
				[]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}},
				[]r2.Vec{{}, {}},
				[]float64{1, 1},
			)

			s, err := sim.New(cfg, physics.NewGravity(), integrators.NewRK4(), b, -1, sim.WithObserver(record))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stop).To(Equal(dynamo.StopMinBodies))
			Expect(res.StepsTaken).To(BeNumerically("<", cfg.MaxSteps))
			Expect(frames).To(HaveLen(res.StepsTaken))

			last := frames[len(frames)-1]
			Expect(last.Len()).To(Equal(1))
			Expect(last.Mass[0]).To(Equal(2.0))
			for _, f := range frames[:len(frames)-1] {
				Expect(f.Len()).To(Equal(2))
			}

			_, err = s.Step()
			Expect(err).To(MatchError(dynamo.ErrFinished))
			Expect(frames).To(HaveLen(res.StepsTaken))
		})
	})

	Context("when the context is already canceled", func() {
		It("emits no frame", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			b := bodies([]r2.Vec{{}}, []r2.Vec{{}}, []float64{1})
			s, err := sim.New(cfg, physics.NewGravity(), integrators.NewRK4(), b, -1, sim.WithObserver(record))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Stop).To(Equal(dynamo.StopCanceled))
			Expect(frames).To(BeEmpty())
		})
	})
})
