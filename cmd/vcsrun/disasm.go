package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tskovgaard/vcs6507/cart"
	"github.com/tskovgaard/vcs6507/disasm"
)

func newDisasmCmd() *cobra.Command {
	var startPC int

	cmd := &cobra.Command{
		Use:   "disasm <mapper-kind> <program-path>",
		Short: "Disassemble a cartridge image to stdout",
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
			if len(rom) != kind.Size() {
				return cart.InvalidProgramSizeError{Mapper: kind, Expected: kind.Size(), Actual: len(rom)}
			}

			pc := uint16(startPC)
			if startPC == 0 {
				// Default to the reset vector baked into the image itself.
				pc = uint16(rom[len(rom)-4]) | uint16(rom[len(rom)-3])<<8
			}
			for _, line := range disasm.All(rom, pc) {
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&startPC, "start-pc", 0, "address to start disassembling from (default: the image's reset vector)")
	return cmd
}
