package circuit

// A Library is an ordered collection of factories. A project file is a
// library whose factories are its circuits and whose Libraries are the
// libraries it references.
type Library struct {
	Name      string
	Factories []Factory
	Libraries []*Library
}

// Circuits returns the factories of the library that are circuits, in
// declaration order.
func (l *Library) Circuits() []*Circuit {
	var circuits []*Circuit

	for _, f := range l.Factories {
		if c, ok := f.(*Circuit); ok {
			circuits = append(circuits, c)
		}
	}

	return circuits
}

// Wiring returns the library holding the pin factory.
func Wiring() *Library {
	return &Library{Name: "Wiring", Factories: []Factory{PinFactory}}
}
