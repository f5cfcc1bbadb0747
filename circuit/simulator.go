package circuit

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/sarchlab/logicsim/hooking"
	"github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/timing"
)

// DefaultStepLimit is the number of propagation rounds a Settle may take
// before the circuit is declared oscillating.
const DefaultStepLimit = 1000

// HookPosSignalCommit marks a net taking a new value. The hook item is a
// SignalChange.
var HookPosSignalCommit = &hooking.HookPos{Name: "SignalCommit"}

// SignalChange describes a net taking a new value.
type SignalChange struct {
	Time  timing.VTimeInCycle
	Net   string
	Value signal.Value
}

// NetValue is a snapshot of a net.
type NetValue struct {
	Name  string
	Width int
	Value signal.Value
}

// commitEvent applies a value requested by a component to one of its ports.
type commitEvent struct {
	inst  *simInstance
	gen   uint64
	port  int
	value signal.Value
}

// evaluateEvent re-runs every component whose inputs changed at the current
// time. It is secondary, so it sees the result of every commit of that time.
type evaluateEvent struct{}

// A Simulator runs a circuit. It owns a flattened copy of the circuit
// hierarchy: reconfiguring instances through the simulator does not touch
// the circuit definitions.
//
// The methods are safe to call from several goroutines. The engine is only
// run by Settle; a simulator built on a shared engine expects nobody else to
// run it.
type Simulator struct {
	*hooking.HookableBase

	lock       sync.Mutex
	settleLock sync.Mutex
	engine     timing.Engine
	root   *Circuit
	flat   *flatCircuit
	byPath map[string]*simInstance
	nets   []*net

	dirty       []bool
	evalPending bool

	// running is set while Settle runs the engine. Reconfigurations made
	// meanwhile wait in dirty until the engine drains, since the engine time
	// may move under them. Drives always wait in drives for Settle.
	running bool
	drives  []*commitEvent

	stepLimit int
	steps     int
	workers   int
}

// An Option configures a Simulator.
type Option func(s *Simulator)

// WithEngine makes the simulator schedule its events on e instead of a new
// SerialEngine.
func WithEngine(e timing.Engine) Option {
	return func(s *Simulator) {
		s.engine = e
	}
}

// WithStepLimit sets how many propagation rounds Settle allows. A limit of 0
// disables oscillation detection.
func WithStepLimit(n int) Option {
	return func(s *Simulator) {
		s.stepLimit = n
	}
}

// WithWorkers sets how many goroutines evaluate the components of one
// propagation round.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		s.workers = n
	}
}

// NewSimulator flattens root and prepares it for simulation. Every component
// is evaluated once at the current engine time when Settle is first called.
func NewSimulator(root *Circuit, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		HookableBase: hooking.NewHookableBase(),
		root:         root,
		stepLimit:    DefaultStepLimit,
		workers:      1,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.engine == nil {
		s.engine = timing.NewSerialEngine()
	}

	flat, err := flatten(root)
	if err != nil {
		return nil, err
	}

	nets, err := flat.buildNets()
	if err != nil {
		return nil, err
	}

	s.flat = flat
	s.nets = nets
	s.byPath = make(map[string]*simInstance, len(flat.instances))
	s.dirty = make([]bool, len(flat.instances))

	for _, inst := range flat.instances {
		s.byPath[inst.path] = inst
		s.dirty[inst.index] = true
	}

	s.scheduleEvaluation()

	return s, nil
}

// Name returns the name of the simulated circuit.
func (s *Simulator) Name() string {
	return s.root.Name()
}

// Circuit returns the simulated root circuit.
func (s *Simulator) Circuit() *Circuit {
	return s.root
}

// Engine returns the engine the simulator schedules on.
func (s *Simulator) Engine() timing.Engine {
	return s.engine
}

// Now returns the current simulation time.
func (s *Simulator) Now() timing.VTimeInCycle {
	return s.engine.CurrentTime()
}

// Handle processes the simulator's own events.
func (s *Simulator) Handle(event any) error {
	switch e := event.(type) {
	case *commitEvent:
		s.commit(e)
		return nil
	case *evaluateEvent:
		return s.evaluate()
	default:
		return errors.Errorf("circuit: unknown event type %T", event)
	}
}

func (s *Simulator) scheduleEvaluation() {
	if s.evalPending {
		return
	}

	s.evalPending = true
	s.engine.Schedule(timing.ScheduledEvent{
		Event:       &evaluateEvent{},
		Time:        s.engine.CurrentTime(),
		Handler:     s,
		IsSecondary: true,
	})
}

// requestEvaluation schedules an evaluation unless Settle is running, in
// which case the dirty instances are picked up when the engine drains.
func (s *Simulator) requestEvaluation() {
	if !s.running {
		s.scheduleEvaluation()
	}
}

func (s *Simulator) commit(e *commitEvent) {
	s.lock.Lock()
	defer s.lock.Unlock()

	inst := e.inst
	if e.gen != inst.gen {
		return
	}

	v := e.value
	if v != signal.Nil && v.Width() != inst.ports[e.port].Width {
		v = signal.ErrorOf(inst.ports[e.port].Width)
	}

	if inst.drivers[e.port] == v {
		return
	}

	inst.drivers[e.port] = v
	s.updateNet(s.nets[inst.nets[e.port]])
}

func (s *Simulator) updateNet(n *net) {
	v := n.resolve()
	if v == n.value {
		return
	}

	n.value = v

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosSignalCommit,
		Item: SignalChange{
			Time:  s.engine.CurrentTime(),
			Net:   n.name,
			Value: v,
		},
	})

	for _, r := range n.readers {
		s.dirty[r.index] = true
	}

	s.scheduleEvaluation()
}

func (s *Simulator) evaluate() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.evalPending = false

	s.steps++
	if err := s.checkSteps(); err != nil {
		return err
	}

	var todo []*simInstance
	for _, inst := range s.flat.instances {
		if s.dirty[inst.index] {
			s.dirty[inst.index] = false
			todo = append(todo, inst)
		}
	}

	results := s.propagateAll(todo)

	now := s.engine.CurrentTime()
	for i, inst := range todo {
		delay := results[i].Delay
		if delay < 1 {
			delay = 1
		}

		for _, w := range results[i].Writes {
			s.scheduleCommit(&commitEvent{
				inst:  inst,
				gen:   inst.gen,
				port:  w.Port,
				value: w.Value,
			}, now+delay)
		}
	}

	return nil
}

// propagateAll runs the components against the current net values. The nets
// are not modified while this runs, so the components may run in parallel.
func (s *Simulator) propagateAll(todo []*simInstance) []Result {
	results := make([]Result, len(todo))

	workers := s.workers
	if workers > len(todo) {
		workers = len(todo)
	}

	if workers <= 1 {
		for i, inst := range todo {
			results[i] = inst.comp.Propagate(instanceState{s: s, inst: inst})
		}

		return results
	}

	var wg sync.WaitGroup
	size := (len(todo) + workers - 1) / workers
	for start := 0; start < len(todo); start += size {
		end := start + size
		if end > len(todo) {
			end = len(todo)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				inst := todo[i]
				results[i] = inst.comp.Propagate(instanceState{s: s, inst: inst})
			}
		}(start, end)
	}
	wg.Wait()

	return results
}

type instanceState struct {
	s    *Simulator
	inst *simInstance
}

func (st instanceState) Port(i int) signal.Value {
	return st.s.nets[st.inst.nets[i]].value
}

func (st instanceState) IsPortConnected(i int) bool {
	return st.s.nets[st.inst.nets[i]].connected()
}

// Settle runs the simulation until no more events are pending. Values
// driven while it runs are committed once the pending events drain, and
// Settle goes on until those settle too. If the circuit keeps changing for
// more rounds than the step limit, Settle drops the pending events and
// returns an error wrapping ErrOscillation; the values reached so far stay
// readable. Every component is evaluated again on the next Settle, since the
// dropped events left the nets half updated.
func (s *Simulator) Settle() error {
	s.settleLock.Lock()
	defer s.settleLock.Unlock()

	s.lock.Lock()
	s.steps = 0
	s.running = true
	s.startRound()
	s.lock.Unlock()

	for {
		err := s.engine.Run()
		if err != nil {
			s.stop(err)
			return err
		}

		s.lock.Lock()
		if !s.startRound() {
			s.running = false
			s.lock.Unlock()

			return nil
		}

		s.steps++
		err = s.checkSteps()
		s.lock.Unlock()

		if err != nil {
			s.stop(err)
			return err
		}
	}
}

// startRound schedules the drives that arrived while the engine was running
// and an evaluation if any instance waits for one. It reports whether
// anything was scheduled.
func (s *Simulator) startRound() bool {
	scheduled := len(s.drives) > 0
	for _, c := range s.drives {
		s.scheduleCommit(c, s.engine.CurrentTime())
	}
	s.drives = nil

	for _, d := range s.dirty {
		if d {
			s.scheduleEvaluation()
			scheduled = true

			break
		}
	}

	return scheduled
}

func (s *Simulator) checkSteps() error {
	if s.stepLimit > 0 && s.steps > s.stepLimit {
		return errors.Wrapf(ErrOscillation,
			"circuit %s did not settle after %d steps at time %d",
			s.root.Name(), s.stepLimit, s.engine.CurrentTime())
	}

	return nil
}

// stop leaves the running state after a failed run.
func (s *Simulator) stop(err error) {
	if errors.Is(err, ErrOscillation) {
		s.engine.Clear()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.running = false

	if errors.Is(err, ErrOscillation) {
		s.evalPending = false
		for i := range s.dirty {
			s.dirty[i] = true
		}
	}
}

func (s *Simulator) scheduleCommit(c *commitEvent, t timing.VTimeInCycle) {
	s.engine.Schedule(timing.ScheduledEvent{
		Event:   c,
		Time:    t,
		Handler: s,
	})
}

func (s *Simulator) instance(path string) (*simInstance, error) {
	inst, found := s.byPath[path]
	if !found {
		return nil, errors.Wrapf(ErrUnknownInstance, "%s in %s", path, s.root.Name())
	}

	return inst, nil
}

// Drive sets the value of an input pin. The value waits until Settle
// commits it at the engine time of that moment; drives are committed in the
// order they were made. A drive made while Settle runs is committed when the
// running events drain.
func (s *Simulator) Drive(path string, v signal.Value) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	inst, err := s.instance(path)
	if err != nil {
		return err
	}

	pin, ok := inst.comp.(*Pin)
	if !ok || !pin.IsInput() {
		return errors.Errorf("circuit: %s is not an input pin", path)
	}

	if v.Width() != pin.Width() {
		return errors.Wrapf(ErrWidthMismatch,
			"driving %d-bit pin %s with %s", pin.Width(), path, v)
	}

	s.drives = append(s.drives, &commitEvent{inst: inst, gen: inst.gen, port: 0, value: v})

	return nil
}

// Reconfigure replaces the behaviour of a simulated instance. A behaviour
// change re-evaluates the instance; during Settle, after the events already
// scheduled have run. A shape change also rebuilds the nets and
// invalidates every value the instance still has in flight, so that no value
// computed for an old port lands on a new one.
func (s *Simulator) Reconfigure(path string, comp Component) (Change, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	inst, err := s.instance(path)
	if err != nil {
		return NoChange, err
	}

	if _, ok := comp.(*SubCircuit); ok {
		return NoChange, errors.Errorf(
			"circuit: cannot turn %s into a sub-circuit while simulating", path)
	}

	change := Classify(inst.comp, comp)

	switch change {
	case NoChange:
		return NoChange, nil
	case BehaviorChanged:
		inst.comp = comp
		s.dirty[inst.index] = true
		s.requestEvaluation()

		return change, nil
	}

	old := *inst
	inst.setComponent(comp)
	inst.gen++

	nets, err := s.flat.buildNets()
	if err != nil {
		*inst = old
		s.nets, _ = s.flat.buildNets()

		return NoChange, err
	}

	s.nets = nets
	for i := range s.dirty {
		s.dirty[i] = true
	}
	s.requestEvaluation()

	return change, nil
}

// PortValue returns the value of the net attached to a port.
func (s *Simulator) PortValue(path string, port int) (signal.Value, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	inst, err := s.instance(path)
	if err != nil {
		return signal.Nil, err
	}

	if port < 0 || port >= len(inst.ports) {
		return signal.Nil, errors.Errorf(
			"circuit: %s has no port %d", path, port)
	}

	return s.nets[inst.nets[port]].value, nil
}

// Nets returns the value of every net, in net order.
func (s *Simulator) Nets() []NetValue {
	s.lock.Lock()
	defer s.lock.Unlock()

	values := make([]NetValue, len(s.nets))
	for i, n := range s.nets {
		values[i] = NetValue{Name: n.name, Width: n.width, Value: n.value}
	}

	return values
}

// InstancePaths returns the paths of the simulated leaf instances, sorted.
func (s *Simulator) InstancePaths() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

// Component returns the current behaviour of a simulated instance.
func (s *Simulator) Component(path string) (Component, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	inst, err := s.instance(path)
	if err != nil {
		return nil, err
	}

	return inst.comp, nil
}
