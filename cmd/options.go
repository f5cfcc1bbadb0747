package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/datarecording"
	"github.com/sarchlab/logicsim/tracing"
)

// Environment variables read when the matching flag is not given. They can
// also be set in a .env file in the working directory.
const (
	EnvStepLimit   = "LOGICSIM_STEP_LIMIT"
	EnvWorkers     = "LOGICSIM_WORKERS"
	EnvTrace       = "LOGICSIM_TRACE"
	EnvMonitorPort = "LOGICSIM_MONITOR_PORT"
)

type options struct {
	stepLimit int
	workers   int
	trace     string
}

func (o *options) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.IntVar(&o.stepLimit, "step-limit", circuit.DefaultStepLimit,
		"Number of propagation rounds after which a circuit is considered "+
			"oscillating. 0 disables the check.")
	flags.IntVar(&o.workers, "workers", 1,
		"Number of goroutines evaluating the components.")
	flags.StringVar(&o.trace, "trace", "",
		"Record every net change into the given SQLite database "+
			"(.sqlite3 is appended).")
}

// load fills the options that were not given on the command line from the
// environment.
func (o *options) load(cmd *cobra.Command) error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "loading .env")
	}

	flags := cmd.Flags()

	if !flags.Changed("step-limit") {
		if err := envInt(EnvStepLimit, &o.stepLimit); err != nil {
			return err
		}
	}

	if !flags.Changed("workers") {
		if err := envInt(EnvWorkers, &o.workers); err != nil {
			return err
		}
	}

	if !flags.Changed("trace") {
		if v, found := os.LookupEnv(EnvTrace); found {
			o.trace = v
		}
	}

	if o.stepLimit < 0 {
		return errors.Errorf("step limit %d must not be negative", o.stepLimit)
	}

	if o.workers < 1 {
		return errors.Errorf("workers %d must be at least 1", o.workers)
	}

	return nil
}

// envInt overwrites *v with the variable name when it is set.
func envInt(name string, v *int) error {
	s, found := os.LookupEnv(name)
	if !found || s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.Wrapf(err, "environment variable %s", name)
	}

	*v = n

	return nil
}

// newSimulator builds a simulator with the options and, when requested, a
// tracer recording into a database. The returned function flushes and
// closes the database.
func (o *options) newSimulator(c *circuit.Circuit) (*circuit.Simulator, func() error, error) {
	sim, err := circuit.NewSimulator(c,
		circuit.WithStepLimit(o.stepLimit),
		circuit.WithWorkers(o.workers),
	)
	if err != nil {
		return nil, nil, err
	}

	if o.trace == "" {
		return sim, func() error { return nil }, nil
	}

	recorder := datarecording.New(o.trace)
	tracing.CollectTrace(sim, tracing.NewDBTracer(c.Name(), recorder))

	return sim, recorder.Close, nil
}
