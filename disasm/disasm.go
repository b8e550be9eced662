// Package disasm disassembles a cartridge ROM image one instruction at
// a time, reusing the cpu package's own opcode table so the mnemonics
// and addressing modes shown here can never drift from what the
// engine actually executes.
package disasm

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/cpu"
)

// Step disassembles the instruction at pc within rom (rom indices wrap
// modulo len(rom), matching the cartridge's own address-mirroring
// rule) and returns a formatted line plus the byte count to advance pc
// by to reach the next instruction. This does not follow control flow
// — JMP/JSR targets are printed, not traced into.
func Step(pc uint16, rom []uint8) (string, int) {
	at := func(off uint16) uint8 { return rom[int(pc+off)%len(rom)] }

	op := at(0)
	b1 := at(1)
	b2 := at(2)
	instr, mode := cpu.Decode(op)

	count := 2
	line := fmt.Sprintf("%.4X %.2X ", pc, op)
	switch mode {
	case cpu.ModeImm:
		line += fmt.Sprintf("%.2X      %s #%.2X       ", b1, instr, b1)
	case cpu.ModeZpg:
		line += fmt.Sprintf("%.2X      %s %.2X        ", b1, instr, b1)
	case cpu.ModeZpgX:
		line += fmt.Sprintf("%.2X      %s %.2X,X      ", b1, instr, b1)
	case cpu.ModeZpgY:
		line += fmt.Sprintf("%.2X      %s %.2X,Y      ", b1, instr, b1)
	case cpu.ModeXInd:
		line += fmt.Sprintf("%.2X      %s (%.2X,X)    ", b1, instr, b1)
	case cpu.ModeIndY:
		line += fmt.Sprintf("%.2X      %s (%.2X),Y    ", b1, instr, b1)
	case cpu.ModeAbs:
		line += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", b1, b2, instr, b2, b1)
		count++
	case cpu.ModeAbsX:
		line += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X    ", b1, b2, instr, b2, b1)
		count++
	case cpu.ModeAbsY:
		line += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y    ", b1, b2, instr, b2, b1)
		count++
	case cpu.ModeInd:
		line += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)    ", b1, b2, instr, b2, b1)
		count++
	case cpu.ModeA:
		line += fmt.Sprintf("        %s A         ", instr)
		count--
	case cpu.ModeImpl:
		line += fmt.Sprintf("        %s           ", instr)
		count--
	case cpu.ModeRel:
		target := pc + 2 + uint16(int16(int8(b1)))
		line += fmt.Sprintf("%.2X      %s %.2X (%.4X) ", b1, instr, b1, target)
	default:
		line += fmt.Sprintf("        %s           ", instr)
		count--
	}
	return line, count
}

// All disassembles the entire ROM in program order starting at start,
// returning one formatted line per instruction.
func All(rom []uint8, start uint16) []string {
	lines := make([]string, 0, len(rom)/2)
	pc := start
	seen := 0
	for seen < len(rom) {
		line, n := Step(pc, rom)
		lines = append(lines, line)
		pc += uint16(n)
		seen += n
	}
	return lines
}
