package signal_test

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logicsim/signal"
)

var _ = Describe("Value", func() {
	It("should create known values", func() {
		v := signal.Known(8, 0xAB)

		Expect(v.Width()).To(Equal(8))
		Expect(v.IsFullyDefined()).To(BeTrue())
		Expect(v.IsErrorValue()).To(BeFalse())
		Expect(v.String()).To(Equal("10101011"))

		n, err := v.ToInt()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(uint32(0xAB)))
	})

	It("should drop bits above the width", func() {
		Expect(signal.Known(4, 0xFF)).To(Equal(signal.Known(4, 0xF)))
	})

	It("should support 32-bit buses", func() {
		v := signal.Known(32, 0xDEADBEEF)
		n, err := v.ToInt()

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(uint32(0xDEADBEEF)))
		Expect(signal.UnknownOf(32).IsUnknown()).To(BeTrue())
	})

	It("should create unknown and error values", func() {
		u := signal.UnknownOf(3)
		e := signal.ErrorOf(3)

		Expect(u.String()).To(Equal("xxx"))
		Expect(u.IsUnknown()).To(BeTrue())
		Expect(u.IsFullyDefined()).To(BeFalse())
		Expect(u.IsErrorValue()).To(BeFalse())

		Expect(e.String()).To(Equal("EEE"))
		Expect(e.IsErrorValue()).To(BeTrue())
		Expect(e.IsFullyDefined()).To(BeFalse())
	})

	It("should repeat a bit across the width", func() {
		Expect(signal.Repeat(signal.Zero, 4)).To(Equal(signal.Known(4, 0)))
		Expect(signal.Repeat(signal.One, 4)).To(Equal(signal.Known(4, 0xF)))
		Expect(signal.Repeat(signal.X, 4)).To(Equal(signal.UnknownOf(4)))
		Expect(signal.Repeat(signal.E, 4)).To(Equal(signal.ErrorOf(4)))
	})

	It("should build values from bits, least significant first", func() {
		v := signal.FromBits(signal.One, signal.X, signal.Zero, signal.E)

		Expect(v.String()).To(Equal("E0x1"))
		Expect(v.Get(0)).To(Equal(signal.One))
		Expect(v.Get(1)).To(Equal(signal.X))
		Expect(v.Get(3)).To(Equal(signal.E))
		Expect(v.Bits()).To(Equal(
			[]signal.Bit{signal.One, signal.X, signal.Zero, signal.E}))
	})

	It("should report an error value even when other bits are unknown", func() {
		v := signal.MustParse("xE")

		Expect(v.IsErrorValue()).To(BeTrue())
		Expect(v.IsUnknown()).To(BeFalse())
	})

	It("should refuse to convert partially defined values", func() {
		_, err := signal.MustParse("1x").ToInt()

		Expect(errors.Is(err, signal.ErrInvalidConversion)).To(BeTrue())
	})

	It("should parse and print", func() {
		v, err := signal.Parse("1010_xxE0")

		Expect(err).NotTo(HaveOccurred())
		Expect(v.Width()).To(Equal(8))
		Expect(v.String()).To(Equal("1010xxE0"))
	})

	It("should reject malformed strings", func() {
		_, err := signal.Parse("10q")
		Expect(err).To(HaveOccurred())

		_, err = signal.Parse("")
		Expect(errors.Is(err, signal.ErrInvalidWidth)).To(BeTrue())
	})

	It("should compare structurally", func() {
		Expect(signal.Known(2, 1).Equal(signal.MustParse("01"))).To(BeTrue())
		Expect(signal.Known(2, 1).Equal(signal.Known(3, 1))).To(BeFalse())
		Expect(signal.True == signal.Known(1, 1)).To(BeTrue())
	})

	It("should panic on invalid widths", func() {
		Expect(func() { signal.Known(0, 0) }).To(Panic())
		Expect(func() { signal.UnknownOf(33) }).To(Panic())
	})
})
