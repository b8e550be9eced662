package pin

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestInitialState(t *testing.T) {
	p := New("test")
	if got, want := p.State(), Undefined; got != want {
		t.Errorf("State() = %s, want %s", got, want)
	}
	if _, err := p.Read(); err == nil {
		t.Error("Read() of fresh pin succeeded, want error")
	}
}

func TestDriveSingleSide(t *testing.T) {
	tests := []struct {
		name  string
		state Signal
	}{
		{"high", High},
		{"low", Low},
		{"tristate", TriState},
		{"undefined", Undefined},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, signalFunc := range []func(*Pin, Signal) error{
				(*Pin).SignalIn,
				(*Pin).SignalOut,
			} {
				p := New("test")
				if err := signalFunc(p, test.state); err != nil {
					t.Fatalf("signal(%s) failed: %v", test.state, err)
				}
				if got, want := p.State(), test.state; got != want {
					t.Errorf("State() = %s, want %s\n%s", got, want, spew.Sdump(p))
				}
			}
		})
	}
}

func TestSafeTwoWayDriving(t *testing.T) {
	tests := []struct {
		in, out, want Signal
	}{
		{TriState, TriState, TriState},
		{High, TriState, High},
		{Low, TriState, Low},
		{TriState, High, High},
		{TriState, Low, Low},
		{High, High, High},
		{Low, Low, Low},
	}
	for _, test := range tests {
		p := New("test")
		if err := p.SignalIn(test.in); err != nil {
			t.Fatalf("SignalIn(%s): %v", test.in, err)
		}
		if err := p.SignalOut(test.out); err != nil {
			t.Fatalf("SignalOut(%s): %v", test.out, err)
		}
		if got, want := p.State(), test.want; got != want {
			t.Errorf("in=%s out=%s: State() = %s, want %s", test.in, test.out, got, want)
		}
	}
}

func TestContentionSwap(t *testing.T) {
	for _, state := range []bool{true, false} {
		p := New("test")
		if err := p.DriveOut(state); err != nil {
			t.Fatal(err)
		}
		if err := p.DriveIn(state); err != nil {
			t.Fatal(err)
		}
		got, err := p.Read()
		if err != nil {
			t.Fatal(err)
		}
		if got != state {
			t.Errorf("Read() = %v, want %v", got, state)
		}
		p.TriStateOut()
		if err := p.DriveIn(!state); err != nil {
			t.Fatal(err)
		}
		if err := p.DriveOut(!state); err != nil {
			t.Fatal(err)
		}
		got, err = p.Read()
		if err != nil {
			t.Fatal(err)
		}
		if got != !state {
			t.Errorf("Read() after swap = %v, want %v", got, !state)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	for _, state := range []bool{true, false} {
		for _, inFirst := range []bool{true, false} {
			p := New("test")
			p.TriStateOut()
			if inFirst {
				if err := p.DriveIn(state); err != nil {
					t.Fatal(err)
				}
				if err := p.DriveOut(!state); err == nil {
					t.Error("DriveOut of opposite level succeeded, want ShortCircuitError")
				} else if _, ok := err.(ShortCircuitError); !ok {
					t.Errorf("got error %T, want ShortCircuitError", err)
				}
			} else {
				if err := p.DriveOut(state); err != nil {
					t.Fatal(err)
				}
				if err := p.DriveIn(!state); err == nil {
					t.Error("DriveIn of opposite level succeeded, want ShortCircuitError")
				} else if _, ok := err.(ShortCircuitError); !ok {
					t.Errorf("got error %T, want ShortCircuitError", err)
				}
			}
		}
	}
}

func TestPotentialShortCircuit(t *testing.T) {
	tests := []struct {
		in, out Signal
	}{
		{High, Undefined},
		{Low, Undefined},
		{Undefined, High},
		{Undefined, Low},
		{Undefined, Undefined},
	}
	for _, test := range tests {
		for _, inFirst := range []bool{true, false} {
			p := New("test")
			p.TriStateOut()
			var err error
			if inFirst {
				if err = p.SignalIn(test.in); err != nil {
					t.Fatal(err)
				}
				err = p.SignalOut(test.out)
			} else {
				if err = p.SignalOut(test.in); err != nil {
					t.Fatal(err)
				}
				err = p.SignalIn(test.out)
			}
			if err == nil {
				t.Errorf("in=%s out=%s: succeeded, want PotentialShortCircuitError", test.in, test.out)
				continue
			}
			if _, ok := err.(PotentialShortCircuitError); !ok {
				t.Errorf("in=%s out=%s: got error %T, want PotentialShortCircuitError", test.in, test.out, err)
			}
		}
	}
}

func TestPrevState(t *testing.T) {
	p := New("test")
	if err := p.DriveOut(true); err != nil {
		t.Fatal(err)
	}
	if got, want := p.PrevState(), Undefined; got != want {
		t.Errorf("PrevState() = %s, want %s", got, want)
	}
	if err := p.DriveOut(false); err != nil {
		t.Fatal(err)
	}
	if got, want := p.PrevState(), High; got != want {
		t.Errorf("PrevState() = %s, want %s", got, want)
	}
}
