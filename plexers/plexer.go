package plexers

import (
	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/signal"
)

type factory struct {
	name string
}

func (f *factory) Name() string { return f.name }

// Factories of the plexers library.
var (
	DemultiplexerFactory circuit.Factory = &factory{name: "Demultiplexer"}
	MultiplexerFactory   circuit.Factory = &factory{name: "Multiplexer"}
)

// Library returns the plexers library.
func Library() *circuit.Library {
	return &circuit.Library{
		Name:      "Plexers",
		Factories: []circuit.Factory{MultiplexerFactory, DemultiplexerFactory},
	}
}

// A Plexer is a configured multiplexer or demultiplexer.
type Plexer struct {
	kind  Kind
	cfg   Config
	ports []circuit.Port
}

// New creates a plexer of kind k.
func New(k Kind, cfg Config) (*Plexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Plexer{kind: k, cfg: cfg, ports: Ports(k, cfg)}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(k Kind, cfg Config) *Plexer {
	p, err := New(k, cfg)
	if err != nil {
		panic(err)
	}

	return p
}

// NewDemultiplexer creates a demultiplexer.
func NewDemultiplexer(cfg Config) (*Plexer, error) {
	return New(FanOut, cfg)
}

// NewMultiplexer creates a multiplexer.
func NewMultiplexer(cfg Config) (*Plexer, error) {
	return New(FanIn, cfg)
}

// Kind returns whether the plexer fans out or fans in.
func (p *Plexer) Kind() Kind {
	return p.kind
}

// Config returns the attributes the plexer was built from.
func (p *Plexer) Config() Config {
	return p.cfg
}

// Factory returns the factory matching the plexer kind.
func (p *Plexer) Factory() circuit.Factory {
	if p.kind == FanIn {
		return MultiplexerFactory
	}

	return DemultiplexerFactory
}

// Ports returns a copy of the port set.
func (p *Plexer) Ports() []circuit.Port {
	ports := make([]circuit.Port, len(p.ports))
	copy(ports, p.ports)

	return ports
}

// ChangeFrom compares the plexer with the component it replaces.
func (p *Plexer) ChangeFrom(prev circuit.Component) circuit.Change {
	old, ok := prev.(*Plexer)
	if !ok || old.kind != p.kind {
		return circuit.ShapeChanged
	}

	return Classify(old.cfg, p.cfg)
}

// decision is the outcome of reading the control inputs. When selected is
// negative every wide-side port gets others; otherwise the selected port
// carries data and the remaining ones get others.
type decision struct {
	others   signal.Value
	selected int
}

func decide(cfg Config, s circuit.State) decision {
	width := cfg.DataWidth

	others := signal.Repeat(signal.Zero, width)
	if cfg.TriState {
		others = signal.UnknownOf(width)
	}

	en := EnablePort(cfg)
	switch enable := s.Port(en); {
	case enable == signal.False:
		if cfg.Disabled == Zero {
			return decision{others: signal.Repeat(signal.Zero, width), selected: -1}
		}

		return decision{others: signal.UnknownOf(width), selected: -1}
	case enable == signal.Error && s.IsPortConnected(en):
		return decision{others: signal.ErrorOf(width), selected: -1}
	}

	sel := s.Port(SelectPort(cfg))
	switch {
	case sel.IsFullyDefined():
		index, _ := sel.ToInt()
		return decision{others: others, selected: int(index)}
	case sel.IsErrorValue():
		return decision{others: signal.ErrorOf(width), selected: -1}
	default:
		return decision{others: signal.UnknownOf(width), selected: -1}
	}
}

// Propagate computes the data ports from the selector, the enable input and
// the data inputs. A demultiplexer writes every output; a multiplexer writes
// its single output.
func (p *Plexer) Propagate(s circuit.State) circuit.Result {
	d := decide(p.cfg, s)
	shared := SharedPort(p.cfg)

	if p.kind == FanIn {
		out := d.others
		if d.selected >= 0 {
			out = s.Port(d.selected)
		}

		return circuit.Result{
			Writes: []circuit.Write{{Port: shared, Value: out}},
			Delay:  p.cfg.Delay,
		}
	}

	n := p.cfg.Ways()
	writes := make([]circuit.Write, n)
	for i := 0; i < n; i++ {
		v := d.others
		if i == d.selected {
			v = s.Port(shared)
		}

		writes[i] = circuit.Write{Port: i, Value: v}
	}

	return circuit.Result{Writes: writes, Delay: p.cfg.Delay}
}
