package cart

import "testing"

func minimalROM(cartType byte, ramCode byte, banks int) []byte {
	rom := make([]byte, banks*0x4000)
	rom[0x0147] = cartType
	rom[0x0148] = 0x00
	rom[0x0149] = ramCode
	return rom
}

func TestROMOnlyIgnoresWrites(t *testing.T) {
	rom := minimalROM(0x00, 0x00, 2)
	rom[0x0100] = 0xAB
	c := NewROMOnly(rom)
	c.Write(0x0100, 0xFF)
	if got := c.Read(0x0100); got != 0xAB {
		t.Fatalf("ROM mutated by write: got %#02x, want 0xAB", got)
	}
}

func TestMBC1BankSubstitution(t *testing.T) {
	rom := minimalROM(0x01, 0x00, 128)
	m := NewMBC1(rom, 0, false)
	m.Write(0x2000, 0x00) // bank 0 request
	if m.effectiveROMBank() != 1 {
		t.Fatalf("bank-0 write selected bank %d, want 1", m.effectiveROMBank())
	}
	m.Write(0x2000, 0x1F)
	m.Write(0x4000, 0x01) // high bits -> bank 0x20 would be forbidden
	if bank := m.effectiveROMBank(); bank == 0x20 {
		t.Fatalf("effective bank landed on forbidden value 0x20")
	}
}

func TestMBC1RAMGatedByEnable(t *testing.T) {
	rom := minimalROM(0x03, 0x02, 2)
	m := NewMBC1(rom, 8*1024, true)
	m.Write(0xA000, 0x55) // RAM disabled: write ignored
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM read while disabled = %#02x, want 0xFF", got)
	}
	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x55)
	if got := m.Read(0xA000); got != 0x55 {
		t.Fatalf("RAM read after enable = %#02x, want 0x55", got)
	}
}

func TestMBC1SaveLoadRoundTrip(t *testing.T) {
	rom := minimalROM(0x03, 0x02, 2)
	m := NewMBC1(rom, 8*1024, true)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x7E)
	saved := m.SaveRAM()

	m2 := NewMBC1(rom, 8*1024, true)
	m2.LoadRAM(saved)
	m2.Write(0x0000, 0x0A)
	if got := m2.Read(0xA000); got != 0x7E {
		t.Fatalf("loaded RAM = %#02x, want 0x7E", got)
	}
}

func TestMBC2RAMIsNibbleWide(t *testing.T) {
	m := NewMBC2(minimalROM(0x06, 0x00, 2), true)
	m.Write(0x0000, 0x0A) // enable (bit8 clear)
	m.Write(0xA000, 0xFF)
	if got := m.Read(0xA000); got != 0xFF { // high nibble forced to 1 on read
		t.Fatalf("nibble RAM read = %#02x, want 0xFF", got)
	}
	if m.ram[0] != 0x0F {
		t.Fatalf("stored nibble = %#02x, want 0x0F (masked)", m.ram[0])
	}
}

func TestMBC2BankSelectRequiresAddressBit8(t *testing.T) {
	m := NewMBC2(minimalROM(0x05, 0x00, 16), false)
	m.Write(0x2100, 0x05) // bit 8 set -> bank select
	if m.romBank != 5 {
		t.Fatalf("rom bank = %d, want 5", m.romBank)
	}
	m.Write(0x2000, 0x03) // bit 8 clear -> ignored for bank select
	if m.romBank != 5 {
		t.Fatalf("rom bank changed by address without bit 8 set: %d", m.romBank)
	}
}

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnix() int64 { return f.t }

func TestMBC3LatchSamplesClock(t *testing.T) {
	clk := &fakeClock{t: 1000}
	m := NewMBC3(minimalROM(0x10, 0x02, 2), 8*1024, true, true, clk)
	clk.t = 1000 + 3725 // 1h 2m 5s later
	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x08) // select seconds register
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("RTC seconds = %d, want 5", got)
	}
	m.Write(0x4000, 0x09)
	if got := m.Read(0xA000); got != 2 {
		t.Fatalf("RTC minutes = %d, want 2", got)
	}
	m.Write(0x4000, 0x0A)
	if got := m.Read(0xA000); got != 1 {
		t.Fatalf("RTC hours = %d, want 1", got)
	}
}

func TestMBC3RequiresTwoStepLatch(t *testing.T) {
	clk := &fakeClock{t: 0}
	m := NewMBC3(minimalROM(0x10, 0x00, 2), 0, true, true, clk)
	clk.t = 100
	m.Write(0x6000, 0x01) // no preceding 0x00 -> latch does not fire
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x08)
	if got := m.Read(0xA000); got != 0 {
		t.Fatalf("RTC latched without the 0x00 step: seconds=%d", got)
	}
}

func TestMBC3SaveLoadIncludesRTCWhenPresent(t *testing.T) {
	clk := &fakeClock{t: 0}
	m := NewMBC3(minimalROM(0x10, 0x02, 2), 8*1024, true, true, clk)
	m.rtc[0] = 42
	m.ramEnabled = true
	m.ram[0] = 0x11
	saved := m.SaveRAM()
	if len(saved) != 5+8*1024 {
		t.Fatalf("saved length = %d, want %d", len(saved), 5+8*1024)
	}

	m2 := NewMBC3(minimalROM(0x10, 0x02, 2), 8*1024, true, true, clk)
	m2.LoadRAM(saved)
	if m2.rtc[0] != 42 {
		t.Fatalf("loaded RTC seconds = %d, want 42", m2.rtc[0])
	}
	m2.ramEnabled = true
	if m2.ram[0] != 0x11 {
		t.Fatalf("loaded RAM[0] = %#02x, want 0x11", m2.ram[0])
	}
}

func TestParseHeaderDecodesCartType(t *testing.T) {
	rom := minimalROM(0x13, 0x03, 2)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.CartType != 0x13 {
		t.Fatalf("CartType = %#02x, want 0x13", h.CartType)
	}
	if h.RAMSizeBytes != 32*1024 {
		t.Fatalf("RAMSizeBytes = %d, want 32768", h.RAMSizeBytes)
	}
}

func TestNewRejectsUnsupportedCartType(t *testing.T) {
	rom := minimalROM(0x19, 0x00, 2) // MBC5, out of scope
	_, err := New(rom, nil)
	if err == nil {
		t.Fatalf("expected an error for MBC5 cart type")
	}
	if _, ok := err.(*UnsupportedCartTypeError); !ok {
		t.Fatalf("error type = %T, want *UnsupportedCartTypeError", err)
	}
}

func TestNewDispatchesROMOnly(t *testing.T) {
	rom := minimalROM(0x00, 0x00, 2)
	c, err := New(rom, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, ok := c.(*ROMOnly); !ok {
		t.Fatalf("type = %T, want *ROMOnly", c)
	}
}
