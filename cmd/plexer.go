package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/plexers"
	"github.com/sarchlab/logicsim/signal"
)

type plexerCommand struct {
	kind  plexers.Kind
	use   string
	short string
}

var (
	demuxCommand = plexerCommand{
		kind:  plexers.FanOut,
		use:   "demux",
		short: "Route a data value to the selected output of a demultiplexer.",
	}
	muxCommand = plexerCommand{
		kind:  plexers.FanIn,
		use:   "mux",
		short: "Pass the selected input of a multiplexer to its output.",
	}
)

type plexerRun struct {
	cfg      plexers.Config
	facing   string
	disabled string
	sel      uint
	enable   string
	data     uint
	inputs   []uint
}

func newPlexerCmd(opts *options, def plexerCommand) *cobra.Command {
	run := &plexerRun{cfg: plexers.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run.execute(cmd.OutOrStdout(), opts, def.kind)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&run.facing, "facing", "east", "Direction the plexer faces.")
	flags.IntVar(&run.cfg.SelectWidth, "select-width", 1, "Bits of the selector.")
	flags.IntVar(&run.cfg.DataWidth, "width", 1, "Bits of the data ports.")
	flags.BoolVar(&run.cfg.TriState, "tri-state", false,
		"Leave the ports that are not selected floating.")
	flags.StringVar(&run.disabled, "disabled", "floating",
		"What a disabled plexer outputs: floating or zero.")
	flags.Uint64Var((*uint64)(&run.cfg.Delay), "delay",
		uint64(plexers.DefaultDelay), "Propagation delay.")
	flags.UintVar(&run.sel, "sel", 0, "Selector value.")
	flags.StringVar(&run.enable, "enable", "1",
		"Value of the enable input: 1, 0, x or E.")

	if def.kind == plexers.FanOut {
		flags.UintVar(&run.data, "data", 1, "Value of the data input.")
	} else {
		flags.UintSliceVar(&run.inputs, "inputs", nil,
			"Values of the data inputs. Input i defaults to i.")
	}

	return cmd
}

func (r *plexerRun) execute(out io.Writer, opts *options, k plexers.Kind) error {
	var err error

	r.cfg.Facing, err = circuit.ParseDirection(r.facing)
	if err != nil {
		return err
	}

	r.cfg.Disabled, err = plexers.ParseDisabledPolicy(r.disabled)
	if err != nil {
		return err
	}

	if err := r.cfg.Validate(); err != nil {
		return err
	}

	if r.sel >= uint(r.cfg.Ways()) {
		return errors.Errorf("selector %d does not fit in %d bits",
			r.sel, r.cfg.SelectWidth)
	}

	enable, err := signal.Parse(r.enable)
	if err != nil {
		return err
	}

	c, err := PlexerCircuit(k, r.cfg)
	if err != nil {
		return err
	}

	sim, closeTrace, err := opts.newSimulator(c)
	if err != nil {
		return err
	}

	err = r.drive(sim, k, enable)
	if err == nil {
		err = sim.Settle()
	}

	if err == nil {
		err = printPins(out, sim, c)
	}

	if cerr := closeTrace(); err == nil {
		err = cerr
	}

	return err
}

func (r *plexerRun) drive(
	sim *circuit.Simulator,
	k plexers.Kind,
	enable signal.Value,
) error {
	width := r.cfg.DataWidth

	values := map[string]signal.Value{
		"sel": signal.Known(r.cfg.SelectWidth, uint32(r.sel)),
		"en":  enable,
	}

	if k == plexers.FanOut {
		values["data"] = signal.Known(width, uint32(r.data))
	} else {
		for i := 0; i < r.cfg.Ways(); i++ {
			v := uint32(i)
			if i < len(r.inputs) {
				v = uint32(r.inputs[i])
			}

			values[fmt.Sprintf("in%d", i)] = signal.Known(width, v)
		}
	}

	for _, name := range sim.InstancePaths() {
		v, found := values[name]
		if !found {
			continue
		}

		if err := sim.Drive(name, v); err != nil {
			return err
		}
	}

	return nil
}

// printPins writes the value of every output pin of c, in placement order.
func printPins(out io.Writer, sim *circuit.Simulator, c *circuit.Circuit) error {
	fmt.Fprintf(out, "settled at time %d\n", sim.Now())

	for _, inst := range c.Pins() {
		pin := inst.Component().(*circuit.Pin)
		if pin.IsInput() {
			continue
		}

		v, err := sim.PortValue(inst.Name(), 0)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s = %s\n", inst.Name(), v)
	}

	return nil
}
