// Package mmu implements the unified 16-bit address bus: cartridge ROM/RAM,
// work RAM, high RAM, OAM DMA, and interrupt-flag aggregation across the
// Timer/PPU/Input/Serial peripherals.
package mmu

import (
	"github.com/pixelforge/dmgcore/internal/apu"
	"github.com/pixelforge/dmgcore/internal/cart"
	"github.com/pixelforge/dmgcore/internal/input"
	"github.com/pixelforge/dmgcore/internal/ppu"
	"github.com/pixelforge/dmgcore/internal/serial"
	"github.com/pixelforge/dmgcore/internal/timer"
)

const (
	irqVBlank  = 0
	irqLCDSTAT = 1
	irqTimer   = 2
	irqSerial  = 3
	irqJoypad  = 4
)

// MMU owns every peripheral reachable from the CPU's address space and
// implements cpu.Bus structurally (no import of internal/cpu is needed;
// the interface is satisfied by method shape alone).
type MMU struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	PPU    *ppu.PPU
	Timer  *timer.Timer
	Input  *input.Input
	Serial *serial.Serial
	APU    *apu.APU

	ie    byte
	ifReg byte
}

// New wires an MMU around the given cartridge. frameSink receives completed
// frames from the PPU once per V-Blank (may be nil).
func New(c cart.Cartridge, frameSink chan<- ppu.Frame) *MMU {
	return &MMU{
		cart:   c,
		PPU:    ppu.New(frameSink),
		Timer:  timer.New(),
		Input:  input.New(),
		Serial: serial.New(),
		APU:    apu.New(),
		ifReg:  0xE0,
	}
}

// Read8 dispatches a CPU read across the whole address space.
func (m *MMU) Read8(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return m.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return m.PPU.Read8(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return m.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return m.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return m.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return m.PPU.Read8(addr)
	case addr == 0xFF00:
		return m.Input.Read(addr)
	case addr == 0xFF01, addr == 0xFF02:
		return m.Serial.Read(addr)
	case addr == 0xFF04, addr == 0xFF05, addr == 0xFF06, addr == 0xFF07:
		return m.Timer.Read(addr)
	case addr == 0xFF0F:
		return 0xE0 | (m.ifReg & 0x1F)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return m.APU.Read(addr)
	case addr == 0xFF46:
		return 0xFF // write-only
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return m.PPU.Read8(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return m.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return m.ie
	default:
		return 0xFF
	}
}

// Write8 dispatches a CPU write across the whole address space.
func (m *MMU) Write8(addr uint16, v byte) {
	switch {
	case addr < 0x8000:
		m.cart.Write(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		m.PPU.Write8(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.cart.Write(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		m.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		m.wram[addr-0x2000-0xC000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m.PPU.Write8(addr, v)
	case addr == 0xFF00:
		m.Input.Write(addr, v)
	case addr == 0xFF01, addr == 0xFF02:
		m.Serial.Write(addr, v)
	case addr == 0xFF04, addr == 0xFF05, addr == 0xFF06, addr == 0xFF07:
		m.Timer.Write(addr, v)
	case addr == 0xFF0F:
		m.ifReg = v & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		m.APU.Write(addr, v)
	case addr == 0xFF46:
		m.doDMA(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		m.PPU.Write8(addr, v)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		m.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		m.ie = v
	}
}

// doDMA performs the 160-byte OAM transfer synchronously: source is
// hi<<8, destination is OAM[0..160).
func (m *MMU) doDMA(hi byte) {
	src := uint16(hi) << 8
	oam := m.PPU.OAMBytes()
	for i := 0; i < 0xA0; i++ {
		oam[i] = m.Read8(src + uint16(i))
	}
}

// RunCycle fans mCycles out to Timer/PPU/Input/Serial and ORs whatever
// interrupts they raise into IF.
func (m *MMU) RunCycle(mCycles int) {
	if m.Timer.Tick(mCycles) {
		m.ifReg |= 1 << irqTimer
	}
	m.ifReg |= m.PPU.Tick(mCycles)
	if m.Input.Tick() {
		m.ifReg |= 1 << irqJoypad
	}
	if m.Serial.Tick(mCycles) {
		m.ifReg |= 1 << irqSerial
	}
}

// PendingIRQs returns IE & IF & 0x1F.
func (m *MMU) PendingIRQs() byte { return m.ie & m.ifReg & 0x1F }

// AckIRQ clears one bit of IF.
func (m *MMU) AckIRQ(bit uint) { m.ifReg &^= 1 << bit }

// RequestIRQ ORs one bit into IF on behalf of a peripheral or test harness.
func (m *MMU) RequestIRQ(bit uint) { m.ifReg |= 1 << bit }
