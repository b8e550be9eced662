// Package cart implements the 2K/4K cartridge ROM mappers: the
// simplest Atari cartridge shape, where the upper half of a 4K address
// window is either distinct ROM (4K cart) or a mirror of the lower
// half (2K cart). Bank-switching mappers are out of scope per
// spec.md's cartridge contract in §6.
package cart

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/bus"
)

// Kind names a supported mapper shape.
type Kind int

const (
	// Kind2K is a 2048-byte ROM, mirrored across the full 4K window.
	Kind2K Kind = iota
	// Kind4K is a 4096-byte ROM occupying the full window directly.
	Kind4K
)

func (k Kind) String() string {
	switch k {
	case Kind2K:
		return "2k"
	case Kind4K:
		return "4k"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Size returns the exact ROM size this Kind requires.
func (k Kind) Size() int {
	switch k {
	case Kind2K:
		return 2048
	case Kind4K:
		return 4096
	default:
		return 0
	}
}

// InvalidProgramSizeError is returned by New when rom's length does
// not match the mapper kind's declared size exactly.
type InvalidProgramSizeError struct {
	Mapper   Kind
	Expected int
	Actual   int
}

func (e InvalidProgramSizeError) Error() string {
	return fmt.Sprintf("cart: mapper %s expects %d bytes, got %d", e.Mapper, e.Expected, e.Actual)
}

// UnknownMapperKindError is returned by ParseKind for any string other
// than "2k" or "4k".
type UnknownMapperKindError struct {
	Given string
}

func (e UnknownMapperKindError) Error() string {
	return fmt.Sprintf("cart: unknown mapper kind %q (want \"2k\" or \"4k\")", e.Given)
}

// ParseKind maps the CLI's positional mapper-kind argument to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "2k":
		return Kind2K, nil
	case "4k":
		return Kind4K, nil
	default:
		return 0, UnknownMapperKindError{Given: s}
	}
}

// enableBit is the address line a cartridge watches to decide whether
// it owns the data bus this tick: on the real console this is A12,
// selecting the upper 4K of the 6507's 13-bit address space.
const enableBit = 12

// Cartridge is the narrow capability the console shell needs from any
// plugged-in mapper: observe the address bus and, if selected, drive
// the data bus; and respond to a reset pulse. This is the one
// trait-object-shaped interface spec.md requires the core to preserve.
type Cartridge interface {
	Tick(addr, data *bus.Bus) error
	PowerReset()
}

// ROM is the 2K/4K mapper: the only cartridge shape spec.md names.
type ROM struct {
	kind Kind
	rom  []uint8
	mask uint16
}

var _ Cartridge = (*ROM)(nil)

// New returns a ROM cartridge of the given kind. rom's length must
// equal kind.Size() exactly.
func New(kind Kind, rom []uint8) (*ROM, error) {
	if len(rom) != kind.Size() {
		return nil, InvalidProgramSizeError{Mapper: kind, Expected: kind.Size(), Actual: len(rom)}
	}
	return &ROM{
		kind: kind,
		rom:  rom,
		mask: uint16(kind.Size() - 1),
	}, nil
}

// Tick observes the address bus and, if the chip-enable line (A12) is
// high, drives the addressed ROM byte onto the data bus; otherwise it
// releases (tri-states) the out side of the data bus so another peer
// (or nobody) may drive it this cycle.
func (r *ROM) Tick(addr, data *bus.Bus) error {
	enabled, err := addr.ReadBit(enableBit)
	if err != nil {
		return fmt.Errorf("cart: chip-enable bit: %w", err)
	}
	if !enabled {
		data.TriStateOut()
		return nil
	}
	av, err := addr.Read()
	if err != nil {
		return fmt.Errorf("cart: address: %w", err)
	}
	val := r.rom[uint16(av)&r.mask]
	if err := data.DriveOutValue(uint32(val)); err != nil {
		return fmt.Errorf("cart: drive data: %w", err)
	}
	return nil
}

// PowerReset is a no-op for a plain ROM mapper: there is no internal
// state (bank register, onboard RAM) to clear.
func (r *ROM) PowerReset() {}
