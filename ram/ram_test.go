package ram

import "testing"

func TestUndefinedOnPowerOn(t *testing.T) {
	r := New()
	for addr := 0; addr < Size; addr++ {
		if _, err := r.Read(addr); err == nil {
			t.Errorf("Read(%#x) on fresh RAM succeeded, want UninitializedByteError", addr)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	r := New()
	for addr := 0; addr < Size; addr++ {
		v := uint8(addr * 7)
		if err := r.Write(addr, v); err != nil {
			t.Fatalf("Write(%#x, %#x): %v", addr, v, err)
		}
		got, err := r.Read(addr)
		if err != nil {
			t.Fatalf("Read(%#x): %v", addr, err)
		}
		if got != v {
			t.Errorf("Read(%#x) = %#x, want %#x", addr, got, v)
		}
	}
}

func TestResetUndefinesEverything(t *testing.T) {
	r := New()
	for addr := 0; addr < Size; addr++ {
		if err := r.Write(addr, 0xAA); err != nil {
			t.Fatal(err)
		}
	}
	r.Reset()
	for addr := 0; addr < Size; addr++ {
		if _, err := r.Read(addr); err == nil {
			t.Errorf("Read(%#x) after Reset succeeded, want UninitializedByteError", addr)
		}
	}
}

func TestAddressOutOfRange(t *testing.T) {
	r := New()
	if err := r.Write(Size, 0x01); err == nil {
		t.Error("Write(Size, ...) succeeded, want AddressOutOfRangeError")
	}
	if _, err := r.Read(Size); err == nil {
		t.Error("Read(Size) succeeded, want AddressOutOfRangeError")
	}
	if _, err := r.Read(-1); err == nil {
		t.Error("Read(-1) succeeded, want AddressOutOfRangeError")
	}
}
