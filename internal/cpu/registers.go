// Package cpu implements the Sharp LR35902 instruction set: register file,
// ALU primitives, and the fetch/decode/execute/interrupt-servicing loop.
package cpu

// Flag bits within F. The lower nibble of F always reads zero.
const (
	FlagZ byte = 1 << 7 // zero
	FlagN byte = 1 << 6 // subtract
	FlagH byte = 1 << 5 // half-carry
	FlagC byte = 1 << 4 // carry
)

// Registers is the SM83 register file: eight 8-bit slots plus PC and SP.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16
}

// Reset sets the canonical DMG post-boot register values.
func (r *Registers) Reset() {
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
	r.PC = 0x0100
	r.SP = 0xFFFE
}

func (r *Registers) AF() uint16  { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) & 0xF0 }
func (r *Registers) BC() uint16  { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) DE() uint16  { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) HL() uint16  { return uint16(r.H)<<8 | uint16(r.L) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }

// HLInc returns HL then increments it, for LD (HL+),A / LD A,(HL+).
func (r *Registers) HLInc() uint16 {
	v := r.HL()
	r.SetHL(v + 1)
	return v
}

// HLDec returns HL then decrements it, for LD (HL-),A / LD A,(HL-).
func (r *Registers) HLDec() uint16 {
	v := r.HL()
	r.SetHL(v - 1)
	return v
}

func (r *Registers) flag(mask byte) bool { return r.F&mask != 0 }

func (r *Registers) setFlag(mask byte, set bool) {
	if set {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

func (r *Registers) Z() bool { return r.flag(FlagZ) }
func (r *Registers) N() bool { return r.flag(FlagN) }
func (r *Registers) H() bool { return r.flag(FlagH) }
func (r *Registers) C() bool { return r.flag(FlagC) }

func (r *Registers) setZNHC(z, n, h, c bool) {
	r.setFlag(FlagZ, z)
	r.setFlag(FlagN, n)
	r.setFlag(FlagH, h)
	r.setFlag(FlagC, c)
}

// reg8 identifies one of the eight 8-bit operand slots used by the LD r,r'
// and ALU-r opcode families; 6 denotes the (HL) indirect operand.
type reg8 byte

const (
	regB reg8 = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd
	regA
)
