package physics_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/physics"
)

// calmWorld has no gravity and no drag so contact responses are exact.
func calmWorld() *physics.World {
	cfg := physics.DefaultWorldConfig()
	cfg.Gravity = 0
	cfg.Params.DragCoefficient = 0
	w, err := physics.NewWorld(cfg)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func defaultWorld(opts ...physics.Option) *physics.World {
	w, err := physics.NewWorld(physics.DefaultWorldConfig(), opts...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func mustCreate(w *physics.World, pos, vel dynamo.Vec2, radius, mass float64) dynamo.Handle {
	h, err := w.CreateBody(pos, vel, radius, mass)
	Expect(err).NotTo(HaveOccurred())
	return h
}

func mustStep(w *physics.World, h dynamo.Handle, dt float64) dynamo.Snapshot {
	s, err := w.Step(h, dt)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("World", func() {
	Describe("body construction", func() {
		DescribeTable("rejects invalid bodies",
			func(radius, mass float64, want error) {
				_, err := defaultWorld().CreateBody(dynamo.Vec2{8, 8}, dynamo.Vec2{}, radius, mass)
				Expect(err).To(MatchError(want))
			},
			Entry("zero mass", 0.3, 0.0, dynamo.ErrInvalidMass),
			Entry("negative mass", 0.3, -3.0, dynamo.ErrInvalidMass),
			Entry("NaN mass", 0.3, math.NaN(), dynamo.ErrInvalidMass),
			Entry("zero radius", 0.0, 3.0, dynamo.ErrInvalidRadius),
			Entry("negative radius", -0.3, 3.0, dynamo.ErrInvalidRadius),
			Entry("radius wider than the field", 16.0, 3.0, dynamo.ErrParameterBounds),
		)

		It("clamps the initial position into the field", func() {
			w := defaultWorld()
			h := mustCreate(w, dynamo.Vec2{-5, 50}, dynamo.Vec2{}, 0.3, 3)
			s, err := w.Snapshot(h)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Position[0]).To(BeNumerically("~", 0.3, 1e-12))
			Expect(s.Position[1]).To(BeNumerically("~", 19.7, 1e-12))
		})

		It("hands out increasing handles", func() {
			w := defaultWorld()
			a := mustCreate(w, dynamo.Vec2{5, 5}, dynamo.Vec2{}, 0.3, 3)
			b := mustCreate(w, dynamo.Vec2{6, 5}, dynamo.Vec2{}, 0.3, 3)
			Expect(b).To(BeNumerically(">", a))
			Expect(w.Handles()).To(Equal([]dynamo.Handle{a, b}))
			Expect(w.Len()).To(Equal(2))
		})
	})

	It("reports unknown handles", func() {
		w := defaultWorld()
		_, err := w.Step(42, 0.1)
		Expect(err).To(MatchError(dynamo.ErrUnknownBody))
		Expect(w.ApplyExternalForce(42, dynamo.Vec2{1, 0})).To(MatchError(dynamo.ErrUnknownBody))
		Expect(w.AdjustAngleOfAttack(42, 0.1)).To(MatchError(dynamo.ErrUnknownBody))
	})

	Describe("zero dt", func() {
		DescribeTable("leaves the body unchanged",
			func(dt float64) {
				w := defaultWorld()
				h := mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{2, -1}, 0.3, 3)
				before, _ := w.Snapshot(h)

				after := mustStep(w, h, dt)
				Expect(after.Position).To(Equal(before.Position))
				Expect(after.Velocity).To(Equal(before.Velocity))
				Expect(after.OnGround).To(Equal(before.OnGround))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.016),
		)

		It("keeps queued forces for the next real step", func() {
			w := calmWorld()
			h := mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)
			Expect(w.ApplyExternalForce(h, dynamo.Vec2{3, 0})).To(Succeed())

			s := mustStep(w, h, 0)
			Expect(s.Acceleration).To(Equal(dynamo.Vec2{1, 0}))

			s = mustStep(w, h, 0.1)
			Expect(s.Velocity[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(s.Acceleration).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("free fall from (8,8)", func() {
		var (
			w *physics.World
			h dynamo.Handle
		)

		BeforeEach(func() {
			w = defaultWorld()
			h = mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)
		})

		It("gains g*dt of vertical speed on the first step", func() {
			s := mustStep(w, h, 0.1)
			Expect(s.Velocity[1]).To(BeNumerically("~", 0.981, 1e-9))
			Expect(s.Position[1]).To(BeNumerically(">", 8))
			Expect(s.OnGround).To(BeFalse())
		})

		It("loses speed to drag on later steps", func() {
			mustStep(w, h, 0.1)
			s := mustStep(w, h, 0.1)
			Expect(s.Velocity[1]).To(BeNumerically("<", 2*0.981))
			Expect(s.Velocity[1]).To(BeNumerically(">", 1.9))
		})

		It("comes to rest on the floor", func() {
			var s dynamo.Snapshot
			rested := false
			for i := 0; i < 5000 && !rested; i++ {
				s = mustStep(w, h, 0.1)
				rested = s.OnGround && s.Velocity[1] == 0
			}
			Expect(rested).To(BeTrue())
			Expect(s.Position[1]).To(BeNumerically("~", 19.7, 1e-12))

			for i := 0; i < 20; i++ {
				s = mustStep(w, h, 0.1)
				Expect(s.OnGround).To(BeTrue())
				Expect(s.Velocity).To(Equal(dynamo.Vec2{}))
			}
		})
	})

	Describe("floor contact", func() {
		DescribeTable("bounces fast bodies with 0.9 restitution",
			func(v float64) {
				w := calmWorld()
				h := mustCreate(w, dynamo.Vec2{15, 20 - 0.3 - v*0.05}, dynamo.Vec2{0, v}, 0.3, 3)
				s := mustStep(w, h, 0.1)
				Expect(s.Velocity[1]).To(BeNumerically("~", -0.9*v, 1e-12))
				Expect(s.OnGround).To(BeFalse())
				Expect(s.Position[1]).To(BeNumerically("~", 19.7, 1e-12))
				Expect(s.Contacts.Has(dynamo.Bounced)).To(BeTrue())
			},
			Entry("just above threshold", 1.01),
			Entry("moderate", 5.0),
			Entry("fast", 25.0),
		)

		DescribeTable("rests slow bodies exactly",
			func(v float64) {
				w := calmWorld()
				h := mustCreate(w, dynamo.Vec2{15, 20 - 0.3 - v*0.05}, dynamo.Vec2{0, v}, 0.3, 3)
				s := mustStep(w, h, 0.1)
				Expect(s.Velocity[1]).To(Equal(0.0))
				Expect(s.Acceleration[1]).To(Equal(0.0))
				Expect(s.OnGround).To(BeTrue())
				Expect(s.Contacts.Has(dynamo.Rested)).To(BeTrue())
			},
			Entry("slow", 0.2),
			Entry("at threshold", 1.0),
		)
	})

	It("bounces off the right wall with half speed", func() {
		w := calmWorld()
		h := mustCreate(w, dynamo.Vec2{29.65, 10}, dynamo.Vec2{4, 0}, 0.3, 3)
		s := mustStep(w, h, 0.1)
		Expect(s.Velocity).To(Equal(dynamo.Vec2{-2, 0}))
		Expect(s.Position[0]).To(BeNumerically("~", 29.7, 1e-12))
		Expect(s.Contacts.Has(dynamo.HitRight)).To(BeTrue())
	})

	Describe("sleep clamp", func() {
		It("zeroes tiny horizontal drift on the floor", func() {
			w := defaultWorld()
			h := mustCreate(w, dynamo.Vec2{15, 20 - 0.3}, dynamo.Vec2{0.005, 0}, 0.3, 3)
			s := mustStep(w, h, 0.1)
			Expect(s.OnGround).To(BeTrue())
			Expect(s.Velocity[0]).To(Equal(0.0))
		})

		It("zeroes drift even without friction", func() {
			cfg := physics.DefaultWorldConfig()
			cfg.Params.Friction = 0
			w, err := physics.NewWorld(cfg)
			Expect(err).NotTo(HaveOccurred())
			h := mustCreate(w, dynamo.Vec2{15, 20 - 0.3}, dynamo.Vec2{0.005, 0}, 0.3, 3)
			s := mustStep(w, h, 0.1)
			Expect(s.Velocity[0]).To(Equal(0.0))
		})

		It("leaves airborne drift alone", func() {
			w := defaultWorld()
			h := mustCreate(w, dynamo.Vec2{15, 5}, dynamo.Vec2{0.005, 0}, 0.3, 3)
			s := mustStep(w, h, 0.1)
			Expect(s.Velocity[0]).To(BeNumerically(">", 0))
		})
	})

	Describe("friction", func() {
		It("never reverses horizontal motion", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				w := defaultWorld()
				vx := (rng.Float64()*2 - 1) * 20
				dt := 0.001 + rng.Float64()*0.1
				h := mustCreate(w, dynamo.Vec2{15, 20 - 0.3}, dynamo.Vec2{vx, 0}, 0.3, 3)

				s := mustStep(w, h, dt)
				Expect(s.Velocity[0]*vx).To(BeNumerically(">=", 0), "vx=%v dt=%v", vx, dt)
				Expect(math.Abs(s.Velocity[0])).To(BeNumerically("<=", math.Abs(vx)))
			}
		})

		It("slides a body to a stop", func() {
			w := defaultWorld()
			h := mustCreate(w, dynamo.Vec2{5, 20 - 0.3}, dynamo.Vec2{6, 0}, 0.3, 3)
			var s dynamo.Snapshot
			for i := 0; i < 300; i++ {
				s = mustStep(w, h, 1.0/60)
			}
			Expect(s.Velocity).To(Equal(dynamo.Vec2{}))
			Expect(s.Position[0]).To(BeNumerically(">", 5))
		})
	})

	It("keeps every body inside the field", func() {
		rng := rand.New(rand.NewSource(42))
		w := defaultWorld()
		handles := make([]dynamo.Handle, 8)
		for i := range handles {
			vel := dynamo.Vec2{(rng.Float64()*2 - 1) * 20, (rng.Float64()*2 - 1) * 20}
			handles[i] = mustCreate(w, dynamo.Vec2{1 + rng.Float64()*28, 1 + rng.Float64()*18}, vel, 0.1+rng.Float64()*0.4, 1+rng.Float64()*5)
		}

		for step := 0; step < 400; step++ {
			for _, h := range handles {
				force := dynamo.Vec2{(rng.Float64()*2 - 1) * 100, (rng.Float64()*2 - 1) * 100}
				Expect(w.ApplyExternalForce(h, force)).To(Succeed())
				Expect(w.AdjustAngleOfAttack(h, (rng.Float64()*2-1)*0.2)).To(Succeed())
				s := mustStep(w, h, rng.Float64()*0.05)
				Expect(s.Position[0]).To(BeNumerically(">=", s.Radius))
				Expect(s.Position[0]).To(BeNumerically("<=", 30-s.Radius))
				Expect(s.Position[1]).To(BeNumerically(">=", s.Radius))
				Expect(s.Position[1]).To(BeNumerically("<=", 20-s.Radius))
				Expect(s.AngleOfAttack).To(BeNumerically(">=", physics.MinAngleOfAttack))
				Expect(s.AngleOfAttack).To(BeNumerically("<=", physics.MaxAngleOfAttack))
			}
		}
	})

	It("runs the pipeline phases in order", func() {
		var phases []physics.Phase
		w := defaultWorld(physics.WithPhaseHook(func(_ *physics.Body, p physics.Phase) {
			phases = append(phases, p)
		}))
		h := mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)

		mustStep(w, h, 0)
		Expect(phases).To(BeEmpty())

		mustStep(w, h, 0.1)
		Expect(phases).To(Equal([]physics.Phase{
			physics.GravityApplied,
			physics.AerodynamicsApplied,
			physics.FrictionChecked,
			physics.Integrated,
			physics.BoundaryResolved,
			physics.SleepClamped,
			physics.Idle,
		}))
	})

	It("clamps the angle of attack", func() {
		w := defaultWorld()
		h := mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)

		Expect(w.AdjustAngleOfAttack(h, 10)).To(Succeed())
		s, _ := w.Snapshot(h)
		Expect(s.AngleOfAttack).To(Equal(physics.MaxAngleOfAttack))

		Expect(w.AdjustAngleOfAttack(h, -10)).To(Succeed())
		s, _ = w.Snapshot(h)
		Expect(s.AngleOfAttack).To(Equal(physics.MinAngleOfAttack))
	})

	It("steps all bodies like sequential stepping", func() {
		parallel := defaultWorld()
		sequential := defaultWorld()
		for i := 0; i < 6; i++ {
			pos := dynamo.Vec2{2 + float64(i)*4, 3 + float64(i)}
			vel := dynamo.Vec2{float64(i) - 3, 0}
			mustCreate(parallel, pos, vel, 0.3, 3)
			mustCreate(sequential, pos, vel, 0.3, 3)
		}

		for step := 0; step < 100; step++ {
			snaps, err := parallel.StepAll(context.Background(), 1.0/60)
			Expect(err).NotTo(HaveOccurred())
			Expect(snaps).To(HaveLen(6))
			for i, h := range sequential.Handles() {
				Expect(snaps[i]).To(Equal(mustStep(sequential, h, 1.0/60)))
			}
		}
	})

	It("stops StepAll on a canceled context", func() {
		w := defaultWorld()
		mustCreate(w, dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := w.StepAll(ctx, 0.1)
		Expect(err).To(MatchError(context.Canceled))
	})
})
