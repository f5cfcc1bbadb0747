package signal

func (v Value) defined() uint32 {
	return mask(v.width) &^ (v.err | v.unknown)
}

func (v Value) ones() uint32 {
	return v.defined() & v.value
}

func (v Value) zeros() uint32 {
	return v.defined() &^ v.value
}

func widest(a, b Value) int {
	if a.width > b.width {
		return a.width
	}

	return b.width
}

// Combine resolves two drivers of the same wire. A floating bit yields to the
// other driver, two driven bits that disagree become E, and E wins over
// everything. Nil is the identity.
func (v Value) Combine(o Value) Value {
	if v.width == 0 {
		return o
	}

	if o.width == 0 {
		return v
	}

	if v.width != o.width {
		return ErrorOf(widest(v, o))
	}

	m := mask(v.width)
	conflict := v.defined() & o.defined() & (v.value ^ o.value)
	err := (v.err | o.err | conflict) & m
	unknown := v.unknown & o.unknown &^ err
	value := (v.ones() | o.ones()) &^ err &^ unknown

	return Value{width: v.width, err: err, unknown: unknown, value: value}
}

// Not inverts every defined bit. Undefined bits become E.
func (v Value) Not() Value {
	m := mask(v.width)
	undef := (v.err | v.unknown) & m

	return Value{width: v.width, err: undef, value: ^v.value & m &^ undef}
}

// And computes the bitwise AND. A 0 on either side forces 0; otherwise any
// undefined input gives E.
func (v Value) And(o Value) Value {
	if v.width != o.width {
		return ErrorOf(widest(v, o))
	}

	m := mask(v.width)
	zeros := v.zeros() | o.zeros()
	ones := v.ones() & o.ones()

	return Value{width: v.width, err: m &^ (zeros | ones), value: ones}
}

// Or computes the bitwise OR. A 1 on either side forces 1; otherwise any
// undefined input gives E.
func (v Value) Or(o Value) Value {
	if v.width != o.width {
		return ErrorOf(widest(v, o))
	}

	m := mask(v.width)
	ones := v.ones() | o.ones()
	zeros := v.zeros() & o.zeros()

	return Value{width: v.width, err: m &^ (zeros | ones), value: ones}
}

// Xor computes the bitwise exclusive OR. Any undefined input gives E.
func (v Value) Xor(o Value) Value {
	if v.width != o.width {
		return ErrorOf(widest(v, o))
	}

	m := mask(v.width)
	def := v.defined() & o.defined()

	return Value{
		width: v.width,
		err:   m &^ def,
		value: (v.value ^ o.value) & def,
	}
}

// Extend adapts the value to another width, dropping high bits or filling
// the new ones with fill.
func (v Value) Extend(width int, fill Bit) Value {
	widthMustBeValid(width)

	if width <= v.width {
		m := mask(width)
		return Value{
			width:   width,
			err:     v.err & m,
			unknown: v.unknown & m,
			value:   v.value & m,
		}
	}

	r := v
	r.width = width
	for i := v.width; i < width; i++ {
		r = r.with(i, fill)
	}

	return r
}
