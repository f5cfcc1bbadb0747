package plexers_test

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/plexers"
)

var _ = Describe("Config", func() {
	It("should have sensible defaults", func() {
		cfg := plexers.DefaultConfig()

		Expect(cfg.Facing).To(Equal(circuit.East))
		Expect(cfg.SelectWidth).To(Equal(1))
		Expect(cfg.DataWidth).To(Equal(1))
		Expect(cfg.TriState).To(BeFalse())
		Expect(cfg.Disabled).To(Equal(plexers.Floating))
		Expect(cfg.Delay).To(Equal(plexers.DefaultDelay))
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Ways()).To(Equal(2))
	})

	DescribeTable("should reject unsupported attributes",
		func(mutate func(c *plexers.Config)) {
			cfg := plexers.DefaultConfig()
			mutate(&cfg)

			err := cfg.Validate()
			Expect(errors.Is(err, circuit.ErrInvalidConfiguration)).To(BeTrue())

			_, err = plexers.New(plexers.FanOut, cfg)
			Expect(errors.Is(err, circuit.ErrInvalidConfiguration)).To(BeTrue())
		},
		Entry("select width 0", func(c *plexers.Config) { c.SelectWidth = 0 }),
		Entry("select width 6", func(c *plexers.Config) { c.SelectWidth = 6 }),
		Entry("data width 0", func(c *plexers.Config) { c.DataWidth = 0 }),
		Entry("data width 33", func(c *plexers.Config) { c.DataWidth = 33 }),
		Entry("no delay", func(c *plexers.Config) { c.Delay = 0 }),
		Entry("bad facing", func(c *plexers.Config) { c.Facing = circuit.Direction(7) }),
		Entry("bad policy", func(c *plexers.Config) { c.Disabled = plexers.DisabledPolicy(5) }),
	)

	It("should accept the widest supported plexer", func() {
		cfg := plexers.DefaultConfig()
		cfg.SelectWidth = 5
		cfg.DataWidth = 32

		p, err := plexers.New(plexers.FanOut, cfg)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Ports()).To(HaveLen(32 + 3))
	})

	It("should parse disabled policies", func() {
		for _, p := range []plexers.DisabledPolicy{plexers.Floating, plexers.Zero} {
			parsed, err := plexers.ParseDisabledPolicy(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(p))
		}

		_, err := plexers.ParseDisabledPolicy("high")
		Expect(errors.Is(err, circuit.ErrInvalidConfiguration)).To(BeTrue())
	})

	DescribeTable("should classify attribute changes",
		func(mutate func(c *plexers.Config), want circuit.Change) {
			old := plexers.DefaultConfig()
			next := old
			mutate(&next)

			Expect(plexers.Classify(old, next)).To(Equal(want))
		},
		Entry("nothing", func(c *plexers.Config) {}, circuit.NoChange),
		Entry("facing", func(c *plexers.Config) { c.Facing = circuit.North }, circuit.ShapeChanged),
		Entry("select width", func(c *plexers.Config) { c.SelectWidth = 3 }, circuit.ShapeChanged),
		Entry("data width", func(c *plexers.Config) { c.DataWidth = 8 }, circuit.ShapeChanged),
		Entry("tri-state", func(c *plexers.Config) { c.TriState = true }, circuit.BehaviorChanged),
		Entry("disabled output", func(c *plexers.Config) { c.Disabled = plexers.Zero }, circuit.BehaviorChanged),
		Entry("delay", func(c *plexers.Config) { c.Delay = 5 }, circuit.BehaviorChanged),
	)
})
