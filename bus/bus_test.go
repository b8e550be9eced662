package bus

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestCombinedRoundTrip(t *testing.T) {
	for _, width := range []int{7, 8, 13} {
		b := New("test", width)
		max := uint32(1) << uint(width)
		for v := uint32(0); v < max; v += max / 64 {
			if err := b.Drive(v); err != nil {
				t.Fatalf("width %d: Drive(%#x): %v", width, v, err)
			}
			got, err := b.Read()
			if err != nil {
				t.Fatalf("width %d: Read(): %v\n%s", width, err, spew.Sdump(b))
			}
			if got != v {
				t.Errorf("width %d: Read() = %#x, want %#x", width, got, v)
			}
		}
	}
}

func TestCombinedMatchesPerBit(t *testing.T) {
	b := New("test", 8)
	for v := uint32(0); v < 256; v++ {
		if err := b.Drive(v); err != nil {
			t.Fatal(err)
		}
		var reconstructed uint32
		for i := 0; i < 8; i++ {
			bit, err := b.ReadBit(i)
			if err != nil {
				t.Fatal(err)
			}
			if bit {
				reconstructed |= 1 << uint(i)
			}
		}
		if reconstructed != v {
			t.Errorf("reconstructed %#x from per-bit reads, want %#x", reconstructed, v)
		}
	}
}

func TestDriveValueTooLarge(t *testing.T) {
	b := New("test", 8)
	if err := b.Drive(256); err == nil {
		t.Error("Drive(256) on 8-bit bus succeeded, want error")
	} else if _, ok := err.(DriveValueTooLargeError); !ok {
		t.Errorf("got error %T, want DriveValueTooLargeError", err)
	}
}

func TestDriveWrappingTruncates(t *testing.T) {
	b := New("test", 8)
	if err := b.DriveWrapping(0x1FF); err != nil {
		t.Fatal(err)
	}
	got, err := b.Read()
	if err != nil {
		t.Fatal(err)
	}
	if want := uint32(0xFF); got != want {
		t.Errorf("Read() = %#x, want %#x", got, want)
	}
}

func TestBitOutOfRange(t *testing.T) {
	b := New("test", 8)
	if _, err := b.Pin(8); err == nil {
		t.Error("Pin(8) on 8-bit bus succeeded, want error")
	} else if _, ok := err.(BitOutOfRangeError); !ok {
		t.Errorf("got error %T, want BitOutOfRangeError", err)
	}
	if err := b.DriveBit(-1, true); err == nil {
		t.Error("DriveBit(-1, ...) succeeded, want error")
	}
}

func TestReadFailsOnUndefined(t *testing.T) {
	b := New("test", 8)
	if _, err := b.Read(); err == nil {
		t.Error("Read() of fresh bus succeeded, want error")
	}
}

func TestReadFailsOnPartialDrive(t *testing.T) {
	b := New("test", 8)
	if err := b.Drive(0xFF); err != nil {
		t.Fatal(err)
	}
	b.TriStateIn()
	if err := b.DriveBit(0, true); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(); err == nil {
		t.Error("Read() with one tri-stated line succeeded, want error")
	}
}
