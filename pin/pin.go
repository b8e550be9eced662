// Package pin implements tri-state-aware signal lines as used to wire
// together the CPU, RIOT, and cartridge on a shared bus. A Pin carries
// a current and previous Signal and enforces the contention rules a
// real wired-OR bus would: two drivers may coexist only if they agree,
// and driving against an Undefined level is always suspect.
package pin

import "fmt"

// Signal is the level carried by a pin at a given instant.
type Signal int

const (
	// Undefined marks a line that has never been driven to a known
	// level. Reading it is always an error; so is driving a defined
	// level against it from the other side (PotentialShortCircuit).
	Undefined Signal = iota
	// Low is a driven 0.
	Low
	// High is a driven 1.
	High
	// TriState is a driver releasing the line to high-impedance. It
	// is a legitimate output state, unlike Undefined.
	TriState
)

// String implements fmt.Stringer for diagnostics.
func (s Signal) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Low:
		return "low"
	case High:
		return "high"
	case TriState:
		return "tri-state"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

func fromBool(b bool) Signal {
	if b {
		return High
	}
	return Low
}

// ShortCircuitError is returned when two drivers assert different
// defined levels on the same pin at the same instant.
type ShortCircuitError struct {
	Name    string
	Current Signal
	Next    Signal
}

func (e ShortCircuitError) Error() string {
	return fmt.Sprintf("pin %q: short circuit: current=%s next=%s", e.Name, e.Current, e.Next)
}

// PotentialShortCircuitError is returned when a defined level is
// driven against a side that is presently Undefined: real hardware
// might handle it, might not, so this implementation always surfaces
// it rather than guessing.
type PotentialShortCircuitError struct {
	Name string
}

func (e PotentialShortCircuitError) Error() string {
	return fmt.Sprintf("pin %q: potential short circuit driving against undefined line", e.Name)
}

// ReadTriStateError is returned by Read when the pin is currently
// high-impedance.
type ReadTriStateError struct {
	Name string
}

func (e ReadTriStateError) Error() string {
	return fmt.Sprintf("pin %q: read of tri-stated line", e.Name)
}

// ReadUndefinedError is returned by Read when the pin has never been
// driven to a known level.
type ReadUndefinedError struct {
	Name string
}

func (e ReadUndefinedError) Error() string {
	return fmt.Sprintf("pin %q: read of undefined line", e.Name)
}

// side identifies which of the two drivers on a contention Pin is
// acting.
type side int

const (
	sideIn side = iota
	sideOut
)

// Pin is a single-bit signal line. A fresh Pin behaves as an input pin:
// only SignalIn/DriveIn/TriStateIn ever touch it, so contention never
// arises (there is no second driver). The moment the *Out family is
// used as well, the pin enforces the contention rules in full (that's
// how both an "input pin" and a "contention pin" are represented by a
// single type here: an input pin is simply one nobody ever calls the
// *Out methods on).
type Pin struct {
	name string
	cur  Signal
	prev Signal

	drivingIn  bool
	drivingOut bool
}

// New returns a fresh Pin in the Undefined state, named for
// diagnostics.
func New(name string) *Pin {
	return &Pin{name: name, cur: Undefined, prev: Undefined}
}

// Name returns the diagnostic name given at construction.
func (p *Pin) Name() string { return p.name }

// State returns the pin's current level.
func (p *Pin) State() Signal { return p.cur }

// PrevState returns the level latched before the most recent
// transition, for edge detection.
func (p *Pin) PrevState() Signal { return p.prev }

// Read returns the boolean value of the pin. It fails if the pin is
// currently TriState or Undefined.
func (p *Pin) Read() (bool, error) {
	switch p.cur {
	case High:
		return true, nil
	case Low:
		return false, nil
	case TriState:
		return false, ReadTriStateError{Name: p.name}
	default:
		return false, ReadUndefinedError{Name: p.name}
	}
}

// ReadPrev is Read but against the previously-latched level, for edge
// detection that must survive the line tri-stating on the current
// cycle.
func (p *Pin) ReadPrev() (bool, error) {
	switch p.prev {
	case High:
		return true, nil
	case Low:
		return false, nil
	case TriState:
		return false, ReadTriStateError{Name: p.name}
	default:
		return false, ReadUndefinedError{Name: p.name}
	}
}

func (p *Pin) otherDriving(s side) bool {
	if s == sideIn {
		return p.drivingOut
	}
	return p.drivingIn
}

func (p *Pin) setDriving(s side, driving bool) {
	if s == sideIn {
		p.drivingIn = driving
	} else {
		p.drivingOut = driving
	}
}

func (p *Pin) setSignal(next Signal) {
	if next != p.cur {
		p.prev = p.cur
	}
	p.cur = next
}

func (p *Pin) signal(state Signal, s side) error {
	switch state {
	case High:
		return p.drive(true, s)
	case Low:
		return p.drive(false, s)
	case TriState:
		p.triState(s)
		return nil
	default:
		return p.undefine(s)
	}
}

func (p *Pin) drive(level bool, s side) error {
	next := fromBool(level)
	if p.otherDriving(s) {
		if p.cur == Undefined {
			return PotentialShortCircuitError{Name: p.name}
		}
		if p.cur != next {
			return ShortCircuitError{Name: p.name, Current: p.cur, Next: next}
		}
	}
	p.setDriving(s, true)
	p.setSignal(next)
	return nil
}

func (p *Pin) triState(s side) {
	p.setDriving(s, false)
	if !p.otherDriving(s) {
		p.setSignal(TriState)
	}
}

func (p *Pin) undefine(s side) error {
	if p.otherDriving(s) {
		return PotentialShortCircuitError{Name: p.name}
	}
	p.setDriving(s, true)
	p.setSignal(Undefined)
	return nil
}

// SignalIn requests the "in" driver assert state.
func (p *Pin) SignalIn(state Signal) error { return p.signal(state, sideIn) }

// SignalOut requests the "out" driver assert state.
func (p *Pin) SignalOut(state Signal) error { return p.signal(state, sideOut) }

// DriveIn is shorthand for SignalIn(High/Low).
func (p *Pin) DriveIn(level bool) error { return p.drive(level, sideIn) }

// DriveOut is shorthand for SignalOut(High/Low).
func (p *Pin) DriveOut(level bool) error { return p.drive(level, sideOut) }

// TriStateIn releases the "in" driver.
func (p *Pin) TriStateIn() { p.triState(sideIn) }

// TriStateOut releases the "out" driver.
func (p *Pin) TriStateOut() { p.triState(sideOut) }

// UndefineIn marks the "in" driver as asserting Undefined (used on
// power-on/reset to model a line that has never been driven).
func (p *Pin) UndefineIn() error { return p.undefine(sideIn) }

// UndefineOut is UndefineIn for the "out" driver.
func (p *Pin) UndefineOut() error { return p.undefine(sideOut) }
