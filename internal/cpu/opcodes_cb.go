package cpu

// cbTable holds the 256 CB-prefixed opcodes: rotates/shifts/swap (0x00-0x3F),
// BIT (0x40-0x7F), RES (0x80-0xBF), SET (0xC0-0xFF), each operating on one of
// the eight operand slots encoded in the low 3 bits (6 = (HL) indirect).
var cbTable [256]opcodeFunc

func init() {
	rotateOps := [8]func(*Registers, byte) byte{
		(*Registers).rlc, (*Registers).rrc, (*Registers).rl, (*Registers).rr,
		(*Registers).sla, (*Registers).sra, (*Registers).swap, (*Registers).srl,
	}
	for g, op := range rotateOps {
		op := op
		for s, r := range reg8Order {
			opcode := byte(8*g + s)
			r := r
			cyc := 2
			if r == regHLInd {
				cyc = 4
			}
			cbTable[opcode] = func(c *CPU) int {
				c.set8(r, op(&c.Registers, c.get8(r)))
				return cyc
			}
		}
	}

	for b := 0; b < 8; b++ {
		b := uint(b)
		for s, r := range reg8Order {
			r := r
			bitOp := byte(0x40 + 8*int(b) + s)
			resOp := byte(0x80 + 8*int(b) + s)
			setOp := byte(0xC0 + 8*int(b) + s)

			bitCyc := 2
			if r == regHLInd {
				bitCyc = 3
			}
			rsCyc := 2
			if r == regHLInd {
				rsCyc = 4
			}

			cbTable[bitOp] = func(c *CPU) int { c.bit(b, c.get8(r)); return bitCyc }
			cbTable[resOp] = func(c *CPU) int { c.set8(r, resBit(b, c.get8(r))); return rsCyc }
			cbTable[setOp] = func(c *CPU) int { c.set8(r, setBit(b, c.get8(r))); return rsCyc }
		}
	}
}
