// Package riot implements the MOS 6532 RIOT (RAM/IO/Timer) support
// chip as a bus peer: 128 bytes of scratch RAM, two 8-bit I/O ports
// each with independent data-direction control, an edge detector on
// port A bit 7, and a prescaled interval timer, all reached through
// the shared pin/bus fabric rather than a direct register interface.
package riot

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/bus"
	"github.com/tskovgaard/vcs6507/pin"
	"github.com/tskovgaard/vcs6507/ram"
)

// Pins groups every line the RIOT reaches out to in one Tick. CS1 is
// active-high, CS2 is active-low (the real part's /CS2), matching the
// two chip-select inputs wired into the console's address decode.
type Pins struct {
	Addr, Data   *bus.Bus
	RW           *pin.Pin
	CS1, CS2     *pin.Pin
	RS           *pin.Pin
	Res          *pin.Pin
	PortA, PortB *bus.Bus
	IRQ          *pin.Pin
}

type timer struct {
	value      uint8
	subCounter uint16
	interval   uint16
	irqEnabled bool
	expired    bool
}

// Chip is a MOS 6532 RIOT.
type Chip struct {
	ram *ram.RAM

	ddra, ddrb uint8
	ora, orb   uint8

	edgePolarityPositive bool
	edgeIRQEnabled       bool
	edgeLatch            bool
	prevPA7              bool
	havePrevPA7          bool

	timer timer
}

// New returns a Chip in the post-reset state.
func New() *Chip {
	c := &Chip{ram: ram.New()}
	c.reset()
	return c
}

func (c *Chip) reset() {
	c.ram.Reset()
	c.ddra, c.ddrb = 0, 0
	c.ora, c.orb = 0, 0
	c.edgePolarityPositive = false
	c.edgeIRQEnabled = false
	c.edgeLatch = false
	c.havePrevPA7 = false
	c.timer = timer{interval: 1, subCounter: 1}
}

// Debug returns a single-line snapshot of register state.
func (c *Chip) Debug() string {
	return fmt.Sprintf("DDRA=%02X DDRB=%02X ORA=%02X ORB=%02X timer=%02X/%d edge=%v(%v) timerExp=%v",
		c.ddra, c.ddrb, c.ora, c.orb, c.timer.value, c.timer.interval,
		c.edgeLatch, c.edgePolarityPositive, c.timer.expired)
}

// Tick runs one full clock cycle: reset sampling, edge detection,
// timer countdown, and (if selected) a single register or RAM access,
// finishing by driving /IRQ to its resolved level.
func (c *Chip) Tick(p Pins) error {
	p.Data.TriStateOut()

	resHigh, err := p.Res.Read()
	if err != nil {
		return fmt.Errorf("riot: res: %w", err)
	}
	if !resHigh {
		c.reset()
		p.PortA.TriStateOut()
		p.PortB.TriStateOut()
		return c.driveIRQ(p.IRQ)
	}

	pa7, err := p.PortA.ReadBit(7)
	if err != nil {
		return fmt.Errorf("riot: port a bit 7: %w", err)
	}
	c.updateEdgeDetector(pa7)
	c.tickTimer()

	selected, err := c.selected(p)
	if err != nil {
		return err
	}
	if selected {
		if err := c.execute(p); err != nil {
			return err
		}
	}

	return c.driveIRQ(p.IRQ)
}

func (c *Chip) selected(p Pins) (bool, error) {
	cs1, err := p.CS1.Read()
	if err != nil {
		return false, fmt.Errorf("riot: cs1: %w", err)
	}
	cs2, err := p.CS2.Read()
	if err != nil {
		return false, fmt.Errorf("riot: cs2: %w", err)
	}
	return cs1 && !cs2, nil
}

func (c *Chip) updateEdgeDetector(curPA7 bool) {
	if c.havePrevPA7 {
		if c.edgePolarityPositive {
			if !c.prevPA7 && curPA7 {
				c.edgeLatch = true
			}
		} else {
			if c.prevPA7 && !curPA7 {
				c.edgeLatch = true
			}
		}
	}
	c.prevPA7 = curPA7
	c.havePrevPA7 = true
}

// tickTimer implements the prescaled countdown: the sub-counter
// decrements every cycle; only when it reaches zero does the main value
// decrement and the sub-counter reload from the programmed interval;
// once the main value underflows from 0 to 0xFF it free
// runs at one decrement per cycle regardless of the programmed
// interval, as real hardware does post-expiry.
func (c *Chip) tickTimer() {
	if c.timer.expired {
		c.timer.value--
		return
	}
	c.timer.subCounter--
	if c.timer.subCounter == 0 {
		c.timer.value--
		c.timer.subCounter = c.timer.interval
		if c.timer.value == 0xFF {
			c.timer.expired = true
		}
	}
}

func (c *Chip) driveIRQ(irq *pin.Pin) error {
	asserted := (c.edgeIRQEnabled && c.edgeLatch) || (c.timer.irqEnabled && c.timer.expired)
	if asserted {
		return irq.DriveOut(false)
	}
	irq.TriStateOut()
	return nil
}

// regAccess is the decoded target of a selected access, per the
// RS/A4/A2/A1/A0/R-W address-decode tree.
type regAccess int

const (
	accRAM regAccess = iota
	accORA
	accDDRA
	accORB
	accDDRB
	accEdgeDetect
	accTimerWrite
	accTimerRead
	accIntFlags
)

type decoded struct {
	kind       regAccess
	a0, a1, a3 bool
}

func decodeAccess(rs, a4, a2, a1, a0 bool, isRead bool) decoded {
	d := decoded{a0: a0, a1: a1}
	if !rs {
		d.kind = accRAM
		return d
	}
	if !a2 {
		switch {
		case !a0 && !a1:
			d.kind = accORA
		case !a0 && a1:
			d.kind = accORB
		case a0 && !a1:
			d.kind = accDDRA
		default:
			d.kind = accDDRB
		}
		return d
	}
	if isRead {
		if !a0 {
			d.kind = accTimerRead
		} else {
			d.kind = accIntFlags
		}
		return d
	}
	if !a4 {
		d.kind = accEdgeDetect
		return d
	}
	d.kind = accTimerWrite
	return d
}

func intervalFor(a1, a0 bool) uint16 {
	switch {
	case !a1 && !a0:
		return 1
	case !a1 && a0:
		return 8
	case a1 && !a0:
		return 64
	default:
		return 1024
	}
}

func (c *Chip) execute(p Pins) error {
	rs, err := p.RS.Read()
	if err != nil {
		return fmt.Errorf("riot: rs: %w", err)
	}
	a4, err := p.Addr.ReadBit(4)
	if err != nil {
		return fmt.Errorf("riot: a4: %w", err)
	}
	a3, err := p.Addr.ReadBit(3)
	if err != nil {
		return fmt.Errorf("riot: a3: %w", err)
	}
	a2, err := p.Addr.ReadBit(2)
	if err != nil {
		return fmt.Errorf("riot: a2: %w", err)
	}
	a1, err := p.Addr.ReadBit(1)
	if err != nil {
		return fmt.Errorf("riot: a1: %w", err)
	}
	a0, err := p.Addr.ReadBit(0)
	if err != nil {
		return fmt.Errorf("riot: a0: %w", err)
	}
	isRead, err := p.RW.Read()
	if err != nil {
		return fmt.Errorf("riot: r/w: %w", err)
	}

	d := decodeAccess(rs, a4, a2, a1, a0, isRead)
	d.a3 = a3

	switch d.kind {
	case accRAM:
		return c.accessRAM(p, isRead)
	case accORA:
		return c.accessOR(p, p.PortA, &c.ora, c.ddra, isRead)
	case accORB:
		return c.accessOR(p, p.PortB, &c.orb, c.ddrb, isRead)
	case accDDRA:
		return c.accessDDR(p, p.PortA, &c.ddra, c.ora, isRead)
	case accDDRB:
		return c.accessDDR(p, p.PortB, &c.ddrb, c.orb, isRead)
	case accEdgeDetect:
		c.edgeIRQEnabled = d.a1
		c.edgePolarityPositive = d.a0
		return nil
	case accTimerWrite:
		v, err := p.Data.Read()
		if err != nil {
			return fmt.Errorf("riot: timer write data: %w", err)
		}
		c.timer.value = uint8(v)
		c.timer.interval = intervalFor(d.a1, d.a0)
		c.timer.subCounter = c.timer.interval
		c.timer.irqEnabled = d.a3
		c.timer.expired = false
		return nil
	case accTimerRead:
		c.timer.irqEnabled = d.a3
		return p.Data.DriveOutValue(uint32(c.timer.value))
	case accIntFlags:
		var v uint8
		if c.edgeLatch {
			v |= 0x80
		}
		if c.timer.expired {
			v |= 0x40
		}
		c.edgeLatch = false
		return p.Data.DriveOutValue(uint32(v))
	default:
		return fmt.Errorf("riot: impossible decode result %d", d.kind)
	}
}

func (c *Chip) accessRAM(p Pins, isRead bool) error {
	av, err := p.Addr.Read()
	if err != nil {
		return fmt.Errorf("riot: ram address: %w", err)
	}
	addr := int(av & 0x7F)
	if isRead {
		v, err := c.ram.Read(addr)
		if err != nil {
			return fmt.Errorf("riot: ram read: %w", err)
		}
		return p.Data.DriveOutValue(uint32(v))
	}
	v, err := p.Data.Read()
	if err != nil {
		return fmt.Errorf("riot: ram write data: %w", err)
	}
	return c.ram.Write(addr, uint8(v))
}

func (c *Chip) accessOR(p Pins, port *bus.Bus, or *uint8, ddr uint8, isRead bool) error {
	if isRead {
		v, err := port.Read()
		if err != nil {
			return fmt.Errorf("riot: port read: %w", err)
		}
		return p.Data.DriveOutValue(v)
	}
	v, err := p.Data.Read()
	if err != nil {
		return fmt.Errorf("riot: port write data: %w", err)
	}
	*or = uint8(v)
	return updatePortPins(port, ddr, *or)
}

func (c *Chip) accessDDR(p Pins, port *bus.Bus, ddr *uint8, or uint8, isRead bool) error {
	if isRead {
		return p.Data.DriveOutValue(uint32(*ddr))
	}
	v, err := p.Data.Read()
	if err != nil {
		return fmt.Errorf("riot: ddr write data: %w", err)
	}
	*ddr = uint8(v)
	return updatePortPins(port, *ddr, or)
}

// updatePortPins drives each bit of port from or where ddr marks it an
// output, and releases (tri-states) this chip's drive on every bit
// ddr marks an input, letting whatever is wired externally present
// that pin's level instead.
func updatePortPins(port *bus.Bus, ddr, or uint8) error {
	for i := 0; i < port.Width(); i++ {
		pn, err := port.Pin(i)
		if err != nil {
			return err
		}
		if ddr&(1<<uint(i)) != 0 {
			if err := port.DriveOutBit(i, or&(1<<uint(i)) != 0); err != nil {
				return err
			}
			continue
		}
		pn.TriStateOut()
	}
	return nil
}
