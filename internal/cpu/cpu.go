package cpu

import "fmt"

// Bus is the narrow surface the CPU needs from its host machine: byte
// access to the full 16-bit address space, cycle distribution to
// peripherals, and the interrupt-flag protocol. Keeping this as an
// interface (rather than the CPU owning an MMU directly) lets the ALU and
// decoder be unit-tested against a bare-bones fake, per the flat-composition
// redesign flag.
type Bus interface {
	Read8(addr uint16) byte
	Write8(addr uint16, v byte)
	// RunCycle fans the given M-cycle count out to Timer/PPU/Input/Serial
	// and ORs any interrupts they raise into IF.
	RunCycle(mCycles int)
	// PendingIRQs returns IE & IF & 0x1F.
	PendingIRQs() byte
	// AckIRQ clears one bit of IF.
	AckIRQ(bit uint)
	// RequestIRQ ORs one bit into IF on behalf of a peripheral.
	RequestIRQ(bit uint)
}

// CPU implements fetch/decode/execute and interrupt servicing for the
// Sharp LR35902.
type CPU struct {
	Registers

	ime bool

	halted bool

	// imeEnableDelay/imeDisableDelay count down Step calls until a
	// scheduled EI/DI/RETI takes effect; 0 means no schedule pending.
	imeEnableDelay  int
	imeDisableDelay int

	bus Bus
}

// New constructs a CPU wired to the given bus, with registers zeroed (call
// Reset for the canonical post-boot state, or rely on a boot ROM run).
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// IME reports the master interrupt enable latch.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the core is in the HALT-idle state.
func (c *CPU) Halted() bool { return c.halted }

// RequestIRQ lets a peripheral OR a bit into IF directly; the MMU normally
// does this itself via RunCycle, but the contract is exposed here too.
func (c *CPU) RequestIRQ(bit uint) { c.bus.RequestIRQ(bit) }

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read8(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write8(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// push16 decrements SP by 2 then writes v little-endian (decrement-then-write,
// the canonical order per spec's resolution of the source's revision drift).
func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// Step executes one instruction (or services a pending interrupt, or idles
// one cycle while halted) and returns the M-cycles consumed.
func (c *CPU) Step() int {
	if c.imeEnableDelay > 0 {
		c.imeEnableDelay--
		if c.imeEnableDelay == 0 {
			c.ime = true
		}
	}
	if c.imeDisableDelay > 0 {
		c.imeDisableDelay--
		if c.imeDisableDelay == 0 {
			c.ime = false
		}
	}

	if c.ime || c.halted {
		if pending := c.bus.PendingIRQs(); pending != 0 {
			c.halted = false
			if c.ime {
				c.ime = false
				bit := lowestSetBit(pending)
				c.bus.AckIRQ(bit)
				c.push16(c.PC)
				c.PC = 0x40 + uint16(bit)*8
				c.bus.RunCycle(4)
				return 4
			}
		}
	}

	if c.halted {
		c.bus.RunCycle(1)
		return 1
	}

	pc := c.PC
	op := c.fetch8()
	handler := primaryTable[op]
	if handler == nil {
		panic(fmt.Sprintf("cpu: unknown opcode 0x%02X at PC=0x%04X", op, pc))
	}
	cycles := handler(c)
	c.bus.RunCycle(cycles)
	return cycles
}

func lowestSetBit(v byte) uint {
	for bit := uint(0); bit < 8; bit++ {
		if v&(1<<bit) != 0 {
			return bit
		}
	}
	return 0
}

// get8/set8 read/write one of the eight operand slots used by LD r,r' and
// the ALU-r opcode families; regHLInd dereferences (HL) through the bus.
func (c *CPU) get8(r reg8) byte {
	switch r {
	case regB:
		return c.B
	case regC:
		return c.C
	case regD:
		return c.D
	case regE:
		return c.E
	case regH:
		return c.H
	case regL:
		return c.L
	case regHLInd:
		return c.read8(c.HL())
	case regA:
		return c.A
	}
	return 0
}

func (c *CPU) set8(r reg8, v byte) {
	switch r {
	case regB:
		c.B = v
	case regC:
		c.C = v
	case regD:
		c.D = v
	case regE:
		c.E = v
	case regH:
		c.H = v
	case regL:
		c.L = v
	case regHLInd:
		c.write8(c.HL(), v)
	case regA:
		c.A = v
	}
}
