package signal_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logicsim/signal"
)

var _ = Describe("Combinators", func() {
	p := signal.MustParse

	DescribeTable("Combine",
		func(a, b, expected string) {
			Expect(p(a).Combine(p(b))).To(Equal(p(expected)))
			Expect(p(b).Combine(p(a))).To(Equal(p(expected)))
		},
		Entry("agreeing drivers", "10", "10", "10"),
		Entry("floating yields", "1x", "x0", "10"),
		Entry("both floating", "xx", "xx", "xx"),
		Entry("conflict becomes error", "10", "01", "EE"),
		Entry("error dominates", "E1", "x1", "E1"),
	)

	It("should treat Nil as the identity of Combine", func() {
		v := signal.Known(4, 5)

		Expect(signal.Nil.Combine(v)).To(Equal(v))
		Expect(v.Combine(signal.Nil)).To(Equal(v))
	})

	It("should give an error when combining different widths", func() {
		Expect(signal.Known(2, 1).Combine(signal.Known(4, 1))).
			To(Equal(signal.ErrorOf(4)))
	})

	DescribeTable("And",
		func(a, b, expected string) {
			Expect(p(a).And(p(b))).To(Equal(p(expected)))
		},
		Entry("defined", "1100", "1010", "1000"),
		Entry("zero forces zero", "0x", "xx", "0E"),
		Entry("one and unknown", "1", "x", "E"),
	)

	DescribeTable("Or",
		func(a, b, expected string) {
			Expect(p(a).Or(p(b))).To(Equal(p(expected)))
		},
		Entry("defined", "1100", "1010", "1110"),
		Entry("one forces one", "1x", "xx", "1E"),
		Entry("zero and error", "0", "E", "E"),
	)

	DescribeTable("Xor",
		func(a, b, expected string) {
			Expect(p(a).Xor(p(b))).To(Equal(p(expected)))
		},
		Entry("defined", "1100", "1010", "0110"),
		Entry("unknown", "1x", "11", "0E"),
	)

	It("should invert", func() {
		Expect(p("10xE").Not()).To(Equal(p("01EE")))
	})

	It("should extend and truncate", func() {
		Expect(p("1x").Extend(4, signal.Zero)).To(Equal(p("001x")))
		Expect(p("1x").Extend(3, signal.X)).To(Equal(p("x1x")))
		Expect(p("E01x").Extend(2, signal.Zero)).To(Equal(p("1x")))
	})
})
