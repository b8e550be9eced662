// Package bus implements a fixed-width ordered collection of pin.Pin
// lines that is semantically an N-bit integer: the address bus,
// data bus, and R/W line of the console's shared fabric are all
// instances of this type.
package bus

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/pin"
)

// BitOutOfRangeError is returned by any per-bit accessor given an
// index >= the bus width.
type BitOutOfRangeError struct {
	Name  string
	Index int
	Width int
}

func (e BitOutOfRangeError) Error() string {
	return fmt.Sprintf("bus %q: bit %d out of range (width %d)", e.Name, e.Index, e.Width)
}

// DriveValueTooLargeError is returned by the combined-write operations
// when the value cannot be represented in the bus width.
type DriveValueTooLargeError struct {
	Name  string
	Value uint32
	Width int
}

func (e DriveValueTooLargeError) Error() string {
	return fmt.Sprintf("bus %q: value %#x does not fit in %d bits", e.Name, e.Value, e.Width)
}

// Bus is an ordered collection of pin.Pin, addressed by bit index
// 0 (LSB) through Width()-1 (MSB).
type Bus struct {
	name  string
	lines []*pin.Pin
}

// New returns a Bus of the given width, with every line freshly
// constructed (Undefined).
func New(name string, width int) *Bus {
	b := &Bus{name: name, lines: make([]*pin.Pin, width)}
	for i := range b.lines {
		b.lines[i] = pin.New(fmt.Sprintf("%s[%d]", name, i))
	}
	return b
}

// Name returns the bus's diagnostic name.
func (b *Bus) Name() string { return b.name }

// Width returns the number of lines in the bus.
func (b *Bus) Width() int { return len(b.lines) }

// Pin returns the underlying pin.Pin for bit index i, so a peer can
// drive/read it directly with the full pin.Pin contention API.
func (b *Bus) Pin(i int) (*pin.Pin, error) {
	if i < 0 || i >= len(b.lines) {
		return nil, BitOutOfRangeError{Name: b.name, Index: i, Width: len(b.lines)}
	}
	return b.lines[i], nil
}

// Read returns the combined integer value of the bus. It fails unless
// every line is currently High or Low.
func (b *Bus) Read() (uint32, error) {
	var v uint32
	for i, p := range b.lines {
		bit, err := p.Read()
		if err != nil {
			return 0, fmt.Errorf("bus %q: %w", b.name, err)
		}
		if bit {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// ReadBit returns the boolean value of line i.
func (b *Bus) ReadBit(i int) (bool, error) {
	p, err := b.Pin(i)
	if err != nil {
		return false, err
	}
	return p.Read()
}

// driveDir picks which pin.Pin method family to use for a combined
// drive: "in" models a peer presenting a value onto the bus from its
// input side, "out" models the peer that owns/decodes the bus driving
// it from its output side. Both the CPU (driving address/R-W as the
// bus owner) and peripherals (driving the data bus back) use this; the
// direction only matters for contention bookkeeping in the underlying
// pin.Pin.
type driveDir int

const (
	// DriveIn drives from the "in" side of each line.
	DriveIn driveDir = iota
	// DriveOut drives from the "out" side of each line.
	DriveOut
)

func (b *Bus) driveBit(i int, level bool, dir driveDir) error {
	p, err := b.Pin(i)
	if err != nil {
		return err
	}
	if dir == DriveIn {
		return p.DriveIn(level)
	}
	return p.DriveOut(level)
}

// DriveBit drives a single line to a defined level from the "in"
// side.
func (b *Bus) DriveBit(i int, level bool) error { return b.driveBit(i, level, DriveIn) }

// DriveOutBit drives a single line to a defined level from the "out"
// side.
func (b *Bus) DriveOutBit(i int, level bool) error { return b.driveBit(i, level, DriveOut) }

func (b *Bus) drive(value uint32, dir driveDir) error {
	if b.Width() < 32 && value >= (1<<uint(b.Width())) {
		return DriveValueTooLargeError{Name: b.name, Value: value, Width: b.Width()}
	}
	return b.driveWrapping(value, dir)
}

// driveWrapping truncates value to the bus width before driving every
// line; it never fails on overflow.
func (b *Bus) driveWrapping(value uint32, dir driveDir) error {
	for i := range b.lines {
		bit := (value>>uint(i))&0x1 != 0
		if err := b.driveBit(i, bit, dir); err != nil {
			return err
		}
	}
	return nil
}

// Drive sets the combined value of the bus from the "in" side. It
// fails if value does not fit in Width() bits.
func (b *Bus) Drive(value uint32) error { return b.drive(value, DriveIn) }

// DriveOutValue sets the combined value of the bus from the "out"
// side. It fails if value does not fit in Width() bits.
func (b *Bus) DriveOutValue(value uint32) error { return b.drive(value, DriveOut) }

// DriveWrapping sets the combined value of the bus from the "in" side,
// silently truncating value to Width() bits instead of failing.
func (b *Bus) DriveWrapping(value uint32) error { return b.driveWrapping(value, DriveIn) }

// TriStateIn releases every line's "in" driver.
func (b *Bus) TriStateIn() {
	for _, p := range b.lines {
		p.TriStateIn()
	}
}

// TriStateOut releases every line's "out" driver.
func (b *Bus) TriStateOut() {
	for _, p := range b.lines {
		p.TriStateOut()
	}
}

// UndefineIn marks every line's "in" driver as Undefined, used to
// model power-on/reset of a bus nobody has driven yet.
func (b *Bus) UndefineIn() error {
	for _, p := range b.lines {
		if err := p.UndefineIn(); err != nil {
			return err
		}
	}
	return nil
}
