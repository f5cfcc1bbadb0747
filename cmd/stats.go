package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/stats"
)

func newStatsCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count the components used by the demo adder circuits.",
		Long: `Count the components used by one of the demo adder circuits: ` +
			`placed directly, counted once per sub-circuit, and counted ` +
			`through every instantiation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printStats(cmd.OutOrStdout(), AdderFile(), root)
		},
	}

	cmd.Flags().StringVar(&root, "root", "adder2", "Circuit to count.")

	return cmd
}

func findCircuit(file *circuit.Library, name string) (*circuit.Circuit, error) {
	for _, c := range file.Circuits() {
		if c.Name() == name {
			return c, nil
		}
	}

	return nil, errors.Errorf("no circuit %q in %s", name, file.Name)
}

func printStats(out io.Writer, file *circuit.Library, rootName string) error {
	root, err := findCircuit(file, rootName)
	if err != nil {
		return err
	}

	s := stats.Compute(file, root)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LIBRARY\tCOMPONENT\tDIRECT\tFLAT\tRECURSIVE")

	for _, c := range s.Counts() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			c.Library.Name, c.Factory.Name(),
			c.DirectCount, c.FlatCount, c.RecursiveCount)
	}

	total := s.Totals()
	fmt.Fprintf(w, "\tTOTAL\t%d\t%d\t%d\n",
		total.DirectCount, total.FlatCount, total.RecursiveCount)

	return w.Flush()
}
