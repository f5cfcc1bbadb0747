package circuit_test

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/gates"
	"github.com/sarchlab/logicsim/hooking"
	"github.com/sarchlab/logicsim/plexers"
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/timing"
)

func inverterCircuit() *circuit.Circuit {
	c := circuit.NewCircuit("inverter")
	c.MustAdd("in", circuit.Loc(20, 0), circuit.NewInputPin("in", 1))
	c.MustAdd("inv", circuit.Loc(50, 0), gates.MustNew(gates.Not, gates.DefaultConfig()))
	c.MustAdd("out", circuit.Loc(50, 0), circuit.NewOutputPin("out", 1))

	return c
}

// oscillatorCircuit builds out = NOT(en AND out).
func oscillatorCircuit() *circuit.Circuit {
	c := circuit.NewCircuit("oscillator")
	c.MustAdd("en", circuit.Loc(10, -10), circuit.NewInputPin("en", 1))
	c.MustAdd("and", circuit.Loc(40, 0), gates.MustNew(gates.And, gates.DefaultConfig()))
	c.MustAdd("not", circuit.Loc(80, 0), gates.MustNew(gates.Not, gates.DefaultConfig()))
	c.MustAdd("out", circuit.Loc(80, 0), circuit.NewOutputPin("out", 1))
	c.Connect(circuit.Loc(40, 0), circuit.Loc(50, 0))
	c.Connect(circuit.Loc(80, 0), circuit.Loc(80, 30))
	c.Connect(circuit.Loc(80, 30), circuit.Loc(10, 30))
	c.Connect(circuit.Loc(10, 30), circuit.Loc(10, 0))

	return c
}

func demuxCircuit(cfg plexers.Config) *circuit.Circuit {
	c := circuit.NewCircuit("demux")
	c.MustAdd("sel", circuit.Loc(120, 120), circuit.NewInputPin("sel", 2))
	c.MustAdd("en", circuit.Loc(110, 120), circuit.NewInputPin("en", 1))
	c.MustAdd("data", circuit.Loc(100, 100), circuit.NewInputPin("data", 8))
	c.MustAdd("demux", circuit.Loc(100, 100), plexers.MustNew(plexers.FanOut, cfg))

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("o%d", i)
		c.MustAdd(name, circuit.Loc(140, 80+10*i), circuit.NewOutputPin(name, 8))
	}

	return c
}

func demuxConfig() plexers.Config {
	cfg := plexers.DefaultConfig()
	cfg.SelectWidth = 2
	cfg.DataWidth = 8
	cfg.Disabled = plexers.Zero

	return cfg
}

func mustValue(sim *circuit.Simulator, path string) signal.Value {
	v, err := sim.PortValue(path, 0)
	Expect(err).NotTo(HaveOccurred())

	return v
}

var _ = Describe("Simulator", func() {
	It("should propagate through a gate", func() {
		sim, err := circuit.NewSimulator(inverterCircuit())
		Expect(err).NotTo(HaveOccurred())

		Expect(sim.Drive("in", signal.True)).To(Succeed())
		Expect(sim.Settle()).To(Succeed())

		Expect(mustValue(sim, "out")).To(Equal(signal.False))
		Expect(sim.Now()).To(Equal(timing.VTimeInCycle(1)))
		Expect(sim.Engine().Pending()).To(Equal(0))

		Expect(sim.Drive("in", signal.False)).To(Succeed())
		Expect(sim.Settle()).To(Succeed())

		Expect(mustValue(sim, "out")).To(Equal(signal.True))
		Expect(sim.Now()).To(Equal(timing.VTimeInCycle(2)))
	})

	It("should commit drives made while settling", func() {
		sim, err := circuit.NewSimulator(inverterCircuit())
		Expect(err).NotTo(HaveOccurred())

		driven := false
		sim.Engine().AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if driven || ctx.Pos != timing.HookPosAfterEvent {
				return
			}

			driven = true
			Expect(sim.Drive("in", signal.True)).To(Succeed())
		}))

		Expect(sim.Settle()).To(Succeed())

		Expect(driven).To(BeTrue())
		Expect(mustValue(sim, "inv")).To(Equal(signal.False))
		Expect(sim.Engine().Pending()).To(Equal(0))
	})

	It("should name nets after their first port", func() {
		sim, err := circuit.NewSimulator(inverterCircuit())
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Settle()).To(Succeed())

		nets := sim.Nets()

		Expect(nets).To(HaveLen(2))
		Expect(nets[0].Name).To(Equal("in[0]"))
		Expect(nets[0].Value).To(Equal(signal.Unknown))
		Expect(nets[1].Name).To(Equal("inv[0]"))
		Expect(nets[1].Value).To(Equal(signal.Error))
		Expect(sim.InstancePaths()).To(Equal([]string{"in", "inv", "out"}))
	})

	It("should join locations connected by wires", func() {
		c := circuit.NewCircuit("wired")
		c.MustAdd("k", circuit.Loc(0, 0), gates.NewConstant(signal.Known(4, 9)))
		c.MustAdd("y", circuit.Loc(100, 50), circuit.NewOutputPin("y", 4))
		c.Connect(circuit.Loc(0, 0), circuit.Loc(100, 0))
		c.Connect(circuit.Loc(100, 0), circuit.Loc(100, 50))

		sim, err := circuit.NewSimulator(c)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Settle()).To(Succeed())

		Expect(mustValue(sim, "y")).To(Equal(signal.Known(4, 9)))
	})

	It("should resolve disagreeing drivers to an error", func() {
		c := circuit.NewCircuit("conflict")
		c.MustAdd("one", circuit.Loc(0, 0), gates.NewConstant(signal.MustParse("1x1")))
		c.MustAdd("zero", circuit.Loc(0, 0), gates.NewConstant(signal.MustParse("00x")))
		c.MustAdd("y", circuit.Loc(0, 0), circuit.NewOutputPin("y", 3))

		sim, err := circuit.NewSimulator(c)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Settle()).To(Succeed())

		Expect(mustValue(sim, "y")).To(Equal(signal.MustParse("E01")))
	})

	It("should read undriven nets as unknown", func() {
		c := circuit.NewCircuit("floating")
		c.MustAdd("y", circuit.Loc(0, 0), circuit.NewOutputPin("y", 5))

		sim, err := circuit.NewSimulator(c)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Settle()).To(Succeed())

		Expect(mustValue(sim, "y")).To(Equal(signal.UnknownOf(5)))
	})

	It("should reject ports of different widths on one net", func() {
		c := circuit.NewCircuit("mismatch")
		c.MustAdd("k", circuit.Loc(0, 0), gates.NewConstant(signal.Known(4, 1)))
		c.MustAdd("y", circuit.Loc(0, 0), circuit.NewOutputPin("y", 1))

		_, err := circuit.NewSimulator(c)

		Expect(errors.Is(err, circuit.ErrWidthMismatch)).To(BeTrue())
	})

	It("should refuse bad drives", func() {
		sim, err := circuit.NewSimulator(inverterCircuit())
		Expect(err).NotTo(HaveOccurred())

		err = sim.Drive("nope", signal.True)
		Expect(errors.Is(err, circuit.ErrUnknownInstance)).To(BeTrue())

		err = sim.Drive("in", signal.Known(2, 1))
		Expect(errors.Is(err, circuit.ErrWidthMismatch)).To(BeTrue())

		Expect(sim.Drive("out", signal.True)).NotTo(Succeed())
		Expect(sim.Drive("inv", signal.True)).NotTo(Succeed())

		_, err = sim.PortValue("inv", 7)
		Expect(err).To(HaveOccurred())
	})

	Context("when the circuit oscillates", func() {
		var sim *circuit.Simulator

		BeforeEach(func() {
			var err error
			sim, err = circuit.NewSimulator(oscillatorCircuit(),
				circuit.WithStepLimit(50))
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.Drive("en", signal.False)).To(Succeed())
			Expect(sim.Settle()).To(Succeed())
			Expect(mustValue(sim, "out")).To(Equal(signal.True))
		})

		It("should stop at the step limit", func() {
			Expect(sim.Drive("en", signal.True)).To(Succeed())

			err := sim.Settle()

			Expect(errors.Is(err, circuit.ErrOscillation)).To(BeTrue())
			Expect(sim.Engine().Pending()).To(Equal(0))
			Expect(mustValue(sim, "out").IsFullyDefined()).To(BeTrue())
		})

		It("should settle again once the loop is broken", func() {
			Expect(sim.Drive("en", signal.True)).To(Succeed())
			Expect(sim.Settle()).NotTo(Succeed())

			Expect(sim.Drive("en", signal.False)).To(Succeed())
			Expect(sim.Settle()).To(Succeed())
			Expect(mustValue(sim, "out")).To(Equal(signal.True))
		})

		It("should accept drives from another goroutine while settling", func() {
			long, err := circuit.NewSimulator(oscillatorCircuit(),
				circuit.WithStepLimit(20000))
			Expect(err).NotTo(HaveOccurred())

			Expect(long.Drive("en", signal.False)).To(Succeed())
			Expect(long.Settle()).To(Succeed())
			Expect(long.Drive("en", signal.True)).To(Succeed())

			done := make(chan struct{})
			stopped := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(stopped)

				for {
					select {
					case <-done:
						return
					default:
					}

					Expect(long.Drive("en", signal.True)).To(Succeed())
				}
			}()

			err = long.Settle()
			close(done)
			<-stopped

			Expect(errors.Is(err, circuit.ErrOscillation)).To(BeTrue())

			Expect(long.Drive("en", signal.False)).To(Succeed())
			Expect(long.Settle()).To(Succeed())
			Expect(mustValue(long, "out")).To(Equal(signal.True))
		})
	})

	Context("with sub-circuits", func() {
		It("should simulate the inner components", func() {
			inner := circuit.NewCircuit("inv")
			inner.MustAdd("in", circuit.Loc(0, 0), circuit.NewInputPin("in", 1))
			inner.MustAdd("not", circuit.Loc(30, 0), gates.MustNew(gates.Not, gates.DefaultConfig()))
			inner.MustAdd("out", circuit.Loc(30, 0), circuit.NewOutputPin("out", 1))

			top := circuit.NewCircuit("top")
			top.MustAdd("a", circuit.Loc(0, 0), circuit.NewInputPin("a", 1))
			top.MustAdd("u1", circuit.Loc(100, 0), circuit.NewSubCircuit(inner))
			top.MustAdd("u2", circuit.Loc(200, 0), circuit.NewSubCircuit(inner))
			top.MustAdd("y", circuit.Loc(240, 0), circuit.NewOutputPin("y", 1))
			top.Connect(circuit.Loc(0, 0), circuit.Loc(100, 0))
			top.Connect(circuit.Loc(140, 0), circuit.Loc(200, 0))

			sim, err := circuit.NewSimulator(top)
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.Drive("a", signal.False)).To(Succeed())
			Expect(sim.Settle()).To(Succeed())

			Expect(mustValue(sim, "y")).To(Equal(signal.False))
			Expect(mustValue(sim, "u1/out")).To(Equal(signal.True))
			Expect(sim.InstancePaths()).To(Equal([]string{
				"a", "u1/in", "u1/not", "u1/out", "u2/in", "u2/not", "u2/out", "y",
			}))
		})

		It("should reject a circuit that contains itself", func() {
			a := circuit.NewCircuit("a")
			b := circuit.NewCircuit("b")
			a.MustAdd("b", circuit.Loc(0, 0), circuit.NewSubCircuit(b))
			b.MustAdd("a", circuit.Loc(0, 0), circuit.NewSubCircuit(a))

			_, err := circuit.NewSimulator(a)

			Expect(errors.Is(err, circuit.ErrRecursiveCircuit)).To(BeTrue())
		})
	})

	Context("with a demultiplexer", func() {
		var sim *circuit.Simulator

		BeforeEach(func() {
			var err error
			sim, err = circuit.NewSimulator(demuxCircuit(demuxConfig()))
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.Drive("sel", signal.Known(2, 2))).To(Succeed())
			Expect(sim.Drive("en", signal.True)).To(Succeed())
			Expect(sim.Drive("data", signal.Known(8, 0xAB))).To(Succeed())
		})

		It("should route the data after the plexer delay", func() {
			Expect(sim.Settle()).To(Succeed())

			Expect(mustValue(sim, "o0")).To(Equal(signal.Known(8, 0)))
			Expect(mustValue(sim, "o1")).To(Equal(signal.Known(8, 0)))
			Expect(mustValue(sim, "o2")).To(Equal(signal.Known(8, 0xAB)))
			Expect(mustValue(sim, "o3")).To(Equal(signal.Known(8, 0)))
			Expect(sim.Now()).To(Equal(plexers.DefaultDelay))
		})

		It("should zero every output when disabled", func() {
			Expect(sim.Drive("en", signal.False)).To(Succeed())
			Expect(sim.Settle()).To(Succeed())

			for i := 0; i < 4; i++ {
				Expect(mustValue(sim, fmt.Sprintf("o%d", i))).
					To(Equal(signal.Known(8, 0)))
			}
		})

		It("should re-evaluate after a behaviour change", func() {
			Expect(sim.Settle()).To(Succeed())

			cfg := demuxConfig()
			cfg.TriState = true
			change, err := sim.Reconfigure("demux", plexers.MustNew(plexers.FanOut, cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(change).To(Equal(circuit.BehaviorChanged))

			Expect(sim.Settle()).To(Succeed())
			Expect(mustValue(sim, "o0")).To(Equal(signal.UnknownOf(8)))
			Expect(mustValue(sim, "o2")).To(Equal(signal.Known(8, 0xAB)))
		})

		It("should drop values computed for the old ports", func() {
			var changes []circuit.SignalChange
			sim.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				changes = append(changes, ctx.Item.(circuit.SignalChange))
			}))

			turned := false
			sim.Engine().AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				evt := ctx.Item.(*timing.ScheduledEvent)
				if turned || ctx.Pos != timing.HookPosAfterEvent || !evt.IsSecondary {
					return
				}

				turned = true
				cfg := demuxConfig()
				cfg.Facing = circuit.West
				change, err := sim.Reconfigure("demux", plexers.MustNew(plexers.FanOut, cfg))
				Expect(err).NotTo(HaveOccurred())
				Expect(change).To(Equal(circuit.ShapeChanged))
			}))

			Expect(sim.Settle()).To(Succeed())

			Expect(turned).To(BeTrue())
			for _, ch := range changes {
				if ch.Time > 0 {
					Expect(ch.Value).NotTo(Equal(signal.Known(8, 0xAB)), ch.Net)
				}
			}
			Expect(mustValue(sim, "o2")).To(Equal(signal.UnknownOf(8)))

			v, err := sim.PortValue("demux", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(signal.UnknownOf(8)))
		})

		It("should keep the old shape when the new one does not fit", func() {
			cfg := demuxConfig()
			cfg.DataWidth = 4

			_, err := sim.Reconfigure("demux", plexers.MustNew(plexers.FanOut, cfg))
			Expect(errors.Is(err, circuit.ErrWidthMismatch)).To(BeTrue())

			Expect(sim.Settle()).To(Succeed())
			Expect(mustValue(sim, "o2")).To(Equal(signal.Known(8, 0xAB)))

			comp, err := sim.Component("demux")
			Expect(err).NotTo(HaveOccurred())
			Expect(comp.(*plexers.Plexer).Config().DataWidth).To(Equal(8))
		})
	})

	It("should report every net change to its hooks", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		hook := NewMockHook(mockCtrl)

		sim, err := circuit.NewSimulator(inverterCircuit())
		Expect(err).NotTo(HaveOccurred())
		sim.AcceptHook(hook)

		gomock.InOrder(
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Pos).To(Equal(circuit.HookPosSignalCommit))
				Expect(ctx.Item).To(Equal(circuit.SignalChange{
					Time: 0, Net: "in[0]", Value: signal.True,
				}))
			}),
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Item).To(Equal(circuit.SignalChange{
					Time: 1, Net: "inv[0]", Value: signal.False,
				}))
			}),
		)

		Expect(sim.Drive("in", signal.True)).To(Succeed())
		Expect(sim.Settle()).To(Succeed())
		mockCtrl.Finish()
	})

	It("should give the same result with parallel workers", func() {
		build := func() *circuit.Circuit {
			c := circuit.NewCircuit("chain")
			c.MustAdd("in", circuit.Loc(0, 0), circuit.NewInputPin("in", 4))
			for i := 0; i < 16; i++ {
				x, y := 30*(i+1), 100*(i+1)
				c.MustAdd(fmt.Sprintf("n%d", i), circuit.Loc(x, 0),
					gates.MustNew(gates.Not, gates.Config{Width: 4, Delay: 1}))
				c.MustAdd(fmt.Sprintf("k%d", i), circuit.Loc(970, y),
					gates.NewConstant(signal.Known(4, uint32(i))))
				c.MustAdd(fmt.Sprintf("x%d", i), circuit.Loc(1000, y),
					gates.MustNew(gates.Xor, gates.Config{Width: 4, Inputs: 2, Delay: 2}))
				c.Connect(circuit.Loc(x, 0), circuit.Loc(970, y-10))
			}

			return c
		}

		run := func(workers int) []circuit.NetValue {
			sim, err := circuit.NewSimulator(build(), circuit.WithWorkers(workers))
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Drive("in", signal.Known(4, 5))).To(Succeed())
			Expect(sim.Settle()).To(Succeed())

			return sim.Nets()
		}

		serial := run(1)
		Expect(run(4)).To(Equal(serial))
		Expect(serial[0].Value).To(Equal(signal.Known(4, 5)))
	})

	It("should schedule on a given engine", func() {
		engine := timing.NewSerialEngine()

		sim, err := circuit.NewSimulator(inverterCircuit(), circuit.WithEngine(engine))
		Expect(err).NotTo(HaveOccurred())

		Expect(sim.Engine()).To(BeIdenticalTo(engine))
		Expect(engine.Pending()).To(Equal(1))
		Expect(sim.Name()).To(Equal("inverter"))
	})
})
