package signal

// A Bit is the state of a single wire.
type Bit uint8

const (
	// Zero is a driven logic low.
	Zero Bit = iota

	// One is a driven logic high.
	One

	// X is an unknown or floating level.
	X

	// E is an error level, typically produced by two drivers that disagree.
	E
)

// Rune returns the character used to print the bit.
func (b Bit) Rune() rune {
	switch b {
	case Zero:
		return '0'
	case One:
		return '1'
	case X:
		return 'x'
	default:
		return 'E'
	}
}

// String returns the bit as a one-character string.
func (b Bit) String() string {
	return string(b.Rune())
}

func bitFromRune(r rune) (Bit, bool) {
	switch r {
	case '0':
		return Zero, true
	case '1':
		return One, true
	case 'x', 'X', 'z', 'Z':
		return X, true
	case 'e', 'E':
		return E, true
	}

	return X, false
}
