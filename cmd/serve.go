package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/logicsim/circuit"
	"github.com/sarchlab/logicsim/monitoring"
	"github.com/sarchlab/logicsim/plexers"
	logicsignal "github.com/sarchlab/logicsim/signal"
	"github.com/sarchlab/logicsim/tracing"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port        int
		openBrowser bool
		cfg         = plexers.DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sweep a demultiplexer and serve a monitoring page for it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("port") {
				if err := envInt(EnvMonitorPort, &port); err != nil {
					return err
				}
			}

			return serve(cmd.Context(), opts, cfg, port, openBrowser)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&port, "port", 0, "Port of the monitoring server. "+
		"0 picks a free port.")
	flags.BoolVar(&openBrowser, "open", false,
		"Open the monitoring page in a browser.")
	flags.IntVar(&cfg.SelectWidth, "select-width", 3, "Bits of the selector.")
	flags.IntVar(&cfg.DataWidth, "width", 8, "Bits of the data ports.")

	return cmd
}

func serve(
	ctx context.Context,
	opts *options,
	cfg plexers.Config,
	port int,
	openBrowser bool,
) error {
	c, err := PlexerCircuit(plexers.FanOut, cfg)
	if err != nil {
		return err
	}

	sim, closeTrace, err := opts.newSimulator(c)
	if err != nil {
		return err
	}

	atexit.Register(func() {
		if err := closeTrace(); err != nil {
			log.Print(err)
		}
	})

	monitor := monitoring.NewMonitor().WithPortNumber(port)
	monitor.RegisterSimulator(sim)
	monitor.RegisterFile(&circuit.Library{
		Name:      "demo",
		Factories: []circuit.Factory{c},
		Libraries: []*circuit.Library{circuit.Wiring(), plexers.Library()},
	})
	monitor.RegisterActivityTracer(tracing.NewActivityTracer(nil))

	url := monitor.StartServer()

	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	if err := sweep(sim, monitor, cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Sweep done, press Ctrl+C to stop.\n")

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	<-ctx.Done()

	atexit.Exit(0)

	return nil
}

// sweep routes a distinct value to every output of the demultiplexer in
// turn. Each settled selector value counts as one step of the progress bar.
func sweep(
	sim *circuit.Simulator,
	monitor *monitoring.Monitor,
	cfg plexers.Config,
) error {
	bar := monitor.CreateProgressBar("sweep", uint64(cfg.Ways()))
	defer monitor.CompleteProgressBar(bar)

	if err := sim.Drive("en", logicsignal.True); err != nil {
		return err
	}

	for i := 0; i < cfg.Ways(); i++ {
		bar.Begin()

		err := sim.Drive("sel", logicsignal.Known(cfg.SelectWidth, uint32(i)))
		if err == nil {
			err = sim.Drive("data", logicsignal.Known(cfg.DataWidth, uint32(i+1)))
		}

		if err == nil {
			err = sim.Settle()
		}

		bar.Finish(err)

		if err != nil {
			return err
		}
	}

	return nil
}
