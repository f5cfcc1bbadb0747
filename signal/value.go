// Package signal provides the four-state, width-aware values that travel on
// the wires of a circuit.
//
// Every bit of a Value is one of 0, 1, X (unknown) or E (error). Values are
// immutable and comparable with ==, so they can be used as map keys and
// compared directly in tests.
package signal

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest bus a Value can represent.
const MaxWidth = 32

// ErrInvalidConversion is returned when an integer is read from a value that
// is not fully defined.
var ErrInvalidConversion = errors.New("signal: value is not fully defined")

// ErrInvalidWidth is returned when a width is outside [1, MaxWidth].
var ErrInvalidWidth = errors.New("signal: invalid width")

// A Value is a bus of bits, each in one of four states.
type Value struct {
	width   int
	err     uint32
	unknown uint32
	value   uint32
}

var (
	// Nil is the zero-width value. It stands for "no value" and is ignored
	// by Combine.
	Nil = Value{}

	// True is a single driven 1.
	True = Value{width: 1, value: 1}

	// False is a single driven 0.
	False = Value{width: 1}

	// Unknown is a single floating bit.
	Unknown = Value{width: 1, unknown: 1}

	// Error is a single erroneous bit.
	Error = Value{width: 1, err: 1}
)

func mask(width int) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}

	return (uint32(1) << uint(width)) - 1
}

func widthMustBeValid(width int) {
	if width < 1 || width > MaxWidth {
		panic(errors.Wrapf(ErrInvalidWidth, "width %d", width))
	}
}

// Known creates a fully defined value from the low width bits of v.
func Known(width int, v uint32) Value {
	widthMustBeValid(width)

	return Value{width: width, value: v & mask(width)}
}

// UnknownOf creates a value of the given width with every bit X.
func UnknownOf(width int) Value {
	widthMustBeValid(width)

	return Value{width: width, unknown: mask(width)}
}

// ErrorOf creates a value of the given width with every bit E.
func ErrorOf(width int) Value {
	widthMustBeValid(width)

	return Value{width: width, err: mask(width)}
}

// Repeat creates a value that holds the same bit in every position.
func Repeat(b Bit, width int) Value {
	widthMustBeValid(width)

	m := mask(width)
	switch b {
	case Zero:
		return Value{width: width}
	case One:
		return Value{width: width, value: m}
	case X:
		return Value{width: width, unknown: m}
	default:
		return Value{width: width, err: m}
	}
}

// FromBits creates a value from its bits, least significant first.
func FromBits(bits ...Bit) Value {
	widthMustBeValid(len(bits))

	v := Value{width: len(bits)}
	for i, b := range bits {
		v = v.with(i, b)
	}

	return v
}

// Parse reads a value written most significant bit first, such as "10x1".
// Underscores are ignored so that long buses can be grouped.
func Parse(s string) (Value, error) {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) < 1 || len(s) > MaxWidth {
		return Nil, errors.Wrapf(ErrInvalidWidth, "parsing %q", s)
	}

	v := Value{width: len(s)}
	for i, r := range s {
		b, ok := bitFromRune(r)
		if !ok {
			return Nil, errors.Errorf("signal: invalid bit %q in %q", r, s)
		}

		v = v.with(len(s)-1-i, b)
	}

	return v, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Value {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return v
}

func (v Value) with(i int, b Bit) Value {
	bit := uint32(1) << uint(i)
	v.err &^= bit
	v.unknown &^= bit
	v.value &^= bit

	switch b {
	case One:
		v.value |= bit
	case X:
		v.unknown |= bit
	case E:
		v.err |= bit
	}

	return v
}

// Width returns the number of bits in the value.
func (v Value) Width() int {
	return v.width
}

// Get returns the i-th bit, counting from the least significant one.
func (v Value) Get(i int) Bit {
	if i < 0 || i >= v.width {
		panic(errors.Errorf("signal: bit %d out of range for width %d",
			i, v.width))
	}

	bit := uint32(1) << uint(i)
	switch {
	case v.err&bit != 0:
		return E
	case v.unknown&bit != 0:
		return X
	case v.value&bit != 0:
		return One
	default:
		return Zero
	}
}

// Bits returns all the bits, least significant first.
func (v Value) Bits() []Bit {
	bits := make([]Bit, v.width)
	for i := range bits {
		bits[i] = v.Get(i)
	}

	return bits
}

// IsFullyDefined tells if every bit is 0 or 1.
func (v Value) IsFullyDefined() bool {
	return v.width > 0 && v.err == 0 && v.unknown == 0
}

// IsErrorValue tells if at least one bit is E.
func (v Value) IsErrorValue() bool {
	return v.err != 0
}

// IsUnknown tells if every bit is X.
func (v Value) IsUnknown() bool {
	return v.width > 0 && v.unknown == mask(v.width)
}

// ToInt returns the value as an unsigned integer. It fails with
// ErrInvalidConversion if any bit is X or E.
func (v Value) ToInt() (uint32, error) {
	if !v.IsFullyDefined() {
		return 0, errors.Wrapf(ErrInvalidConversion, "reading %s", v)
	}

	return v.value, nil
}

// Equal tells if both values have the same width and the same bits.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String prints the value most significant bit first.
func (v Value) String() string {
	if v.width == 0 {
		return "-"
	}

	var sb strings.Builder
	for i := v.width - 1; i >= 0; i-- {
		sb.WriteRune(v.Get(i).Rune())
	}

	return sb.String()
}
