package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tskovgaard/vcs6507/cart"
	"github.com/tskovgaard/vcs6507/console"
)

func newRunCmd() *cobra.Command {
	var debug bool
	var watch bool
	var ticks int64

	cmd := &cobra.Command{
		Use:   "run <mapper-kind> <program-path>",
		Short: "Load a cartridge image and free-run the console",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := cart.ParseKind(args[0])
			if err != nil {
				return err
			}
			rom, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("vcsrun: reading %s: %w", args[1], err)
			}
			c, err := cart.New(kind, rom)
			if err != nil {
				return err
			}

			con := console.New(debug)
			con.Plug(c)
			if err := con.PowerReset(); err != nil {
				return fmt.Errorf("vcsrun: power reset: %w", err)
			}

			if watch {
				return runWatch(con, ticks)
			}
			return runHeadless(con, ticks, debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "emit full CPU debugging while running")
	cmd.Flags().BoolVar(&watch, "watch", false, "open an interactive terminal UI showing live bus/register state")
	cmd.Flags().Int64Var(&ticks, "ticks", 0, "stop after this many clock ticks (0 = run forever)")
	return cmd
}

// runHeadless ticks the console until ticks is reached (or forever, per
// spec.md's "exit 0 on normal termination (none, in practice — the
// loop is infinite)" CLI contract, when ticks is 0). With debug set it
// prints the CPU's Debug() snapshot to stderr after every tick.
func runHeadless(con *console.Console, ticks int64, debug bool) error {
	var n int64
	for ticks == 0 || n < ticks {
		if err := con.Tick(); err != nil {
			return fmt.Errorf("vcsrun: tick %d: %w", n, err)
		}
		if debug {
			fmt.Fprintln(os.Stderr, con.CPU.Debug())
		}
		n++
	}
	return nil
}
