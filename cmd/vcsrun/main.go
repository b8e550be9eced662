// Command vcsrun loads a cartridge image and free-runs the console, or
// disassembles a cartridge image to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "vcsrun",
		Short: "Run or disassemble an Atari 2600 cartridge image against the console model",
	}
	root.AddCommand(newRunCmd(), newDisasmCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
