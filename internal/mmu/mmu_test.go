package mmu

import (
	"testing"

	"github.com/pixelforge/dmgcore/internal/cart"
)

func romOnlyMMU(size int) *MMU {
	rom := make([]byte, size)
	rom[0x0147] = 0x00
	c := cart.NewROMOnly(rom)
	return New(c, nil)
}

func TestWRAMRoundTrips(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xC123, 0x99)
	if got := m.Read8(0xC123); got != 0x99 {
		t.Fatalf("WRAM read = %#02x, want 0x99", got)
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xC050, 0x77)
	if got := m.Read8(0xE050); got != 0x77 {
		t.Fatalf("echo read = %#02x, want 0x77", got)
	}
	m.Write8(0xE060, 0x88)
	if got := m.Read8(0xC060); got != 0x88 {
		t.Fatalf("WRAM after echo write = %#02x, want 0x88", got)
	}
}

func TestHRAMRoundTrips(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xFF90, 0x55)
	if got := m.Read8(0xFF90); got != 0x55 {
		t.Fatalf("HRAM read = %#02x, want 0x55", got)
	}
}

func TestDMACopiesOneSixtyBytes(t *testing.T) {
	m := romOnlyMMU(0x8000)
	for i := 0; i < 0xA0; i++ {
		m.Write8(0xC000+uint16(i), byte(i+1))
	}
	m.Write8(0xFF46, 0xC0) // source = 0xC000
	oam := m.PPU.OAMBytes()
	for i := 0; i < 0xA0; i++ {
		if oam[i] != byte(i+1) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, oam[i], i+1)
		}
	}
}

func TestDMARegisterIsWriteOnly(t *testing.T) {
	m := romOnlyMMU(0x8000)
	if got := m.Read8(0xFF46); got != 0xFF {
		t.Fatalf("DMA register read = %#02x, want 0xFF", got)
	}
}

func TestIEIFRoundTrip(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xFFFF, 0x1F)
	m.Write8(0xFF0F, 0x03)
	if m.Read8(0xFFFF) != 0x1F {
		t.Fatalf("IE = %#02x, want 0x1F", m.Read8(0xFFFF))
	}
	if m.Read8(0xFF0F)&0x1F != 0x03 {
		t.Fatalf("IF low bits = %#02x, want 0x03", m.Read8(0xFF0F)&0x1F)
	}
}

func TestPendingIRQsRequiresBothIEAndIF(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xFFFF, 0x00)
	m.RequestIRQ(0)
	if m.PendingIRQs() != 0 {
		t.Fatalf("PendingIRQs nonzero despite IE=0")
	}
	m.Write8(0xFFFF, 0x01)
	if m.PendingIRQs() != 0x01 {
		t.Fatalf("PendingIRQs = %#02x, want 0x01", m.PendingIRQs())
	}
}

func TestAckIRQClearsOnlyThatBit(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xFFFF, 0x03)
	m.RequestIRQ(0)
	m.RequestIRQ(1)
	m.AckIRQ(0)
	if m.PendingIRQs() != 0x02 {
		t.Fatalf("PendingIRQs after ack bit0 = %#02x, want 0x02", m.PendingIRQs())
	}
}

func TestROMWriteDoesNotMutateROM(t *testing.T) {
	m := romOnlyMMU(0x8000)
	before := m.Read8(0x0150)
	m.Write8(0x0150, before^0xFF)
	if got := m.Read8(0x0150); got != before {
		t.Fatalf("ROM byte mutated by write: got %#02x, want %#02x", got, before)
	}
}

func TestRunCycleAggregatesTimerIRQIntoIF(t *testing.T) {
	m := romOnlyMMU(0x8000)
	m.Write8(0xFF06, 0x00) // TMA
	m.Write8(0xFF07, 0x05) // enabled, fast rate
	m.Write8(0xFF05, 0xFF) // TIMA about to overflow
	for i := 0; i < 64; i++ {
		m.RunCycle(1)
	}
	if m.Read8(0xFF0F)&(1<<irqTimer) == 0 {
		t.Fatalf("timer overflow never reached IF")
	}
}
