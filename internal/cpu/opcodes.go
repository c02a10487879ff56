package cpu

// opcodeFunc executes one decoded instruction and returns its M-cycle cost.
// Two 256-entry tables (primaryTable here, cbTable in opcodes_cb.go) replace
// the single giant switch statement per the function-pointer-table redesign
// flag: dispatch is O(1) and each entry is independently readable/testable.
type opcodeFunc func(c *CPU) int

var primaryTable [256]opcodeFunc

// the eight 8-bit operand slots in opcode-encoding order: B,C,D,E,H,L,(HL),A
var reg8Order = [8]reg8{regB, regC, regD, regE, regH, regL, regHLInd, regA}

func init() {
	primaryTable[0x00] = func(c *CPU) int { return 1 } // NOP

	// 16-bit immediate loads: LD BC/DE/HL/SP,d16
	ld16 := func(set func(*CPU, uint16)) opcodeFunc {
		return func(c *CPU) int { set(c, c.fetch16()); return 3 }
	}
	primaryTable[0x01] = ld16(func(c *CPU, v uint16) { c.SetBC(v) })
	primaryTable[0x11] = ld16(func(c *CPU, v uint16) { c.SetDE(v) })
	primaryTable[0x21] = ld16(func(c *CPU, v uint16) { c.SetHL(v) })
	primaryTable[0x31] = ld16(func(c *CPU, v uint16) { c.SP = v })

	primaryTable[0x02] = func(c *CPU) int { c.write8(c.BC(), c.A); return 2 }
	primaryTable[0x12] = func(c *CPU) int { c.write8(c.DE(), c.A); return 2 }
	primaryTable[0x0A] = func(c *CPU) int { c.A = c.read8(c.BC()); return 2 }
	primaryTable[0x1A] = func(c *CPU) int { c.A = c.read8(c.DE()); return 2 }

	primaryTable[0x22] = func(c *CPU) int { c.write8(c.HLInc(), c.A); return 2 }
	primaryTable[0x32] = func(c *CPU) int { c.write8(c.HLDec(), c.A); return 2 }
	primaryTable[0x2A] = func(c *CPU) int { c.A = c.read8(c.HLInc()); return 2 }
	primaryTable[0x3A] = func(c *CPU) int { c.A = c.read8(c.HLDec()); return 2 }

	// INC/DEC rr
	incDec16 := func(get func(*CPU) uint16, set func(*CPU, uint16), delta int16) opcodeFunc {
		return func(c *CPU) int { set(c, uint16(int32(get(c))+int32(delta))); return 2 }
	}
	primaryTable[0x03] = incDec16(func(c *CPU) uint16 { return c.BC() }, func(c *CPU, v uint16) { c.SetBC(v) }, 1)
	primaryTable[0x13] = incDec16(func(c *CPU) uint16 { return c.DE() }, func(c *CPU, v uint16) { c.SetDE(v) }, 1)
	primaryTable[0x23] = incDec16(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint16) { c.SetHL(v) }, 1)
	primaryTable[0x33] = func(c *CPU) int { c.SP++; return 2 }
	primaryTable[0x0B] = incDec16(func(c *CPU) uint16 { return c.BC() }, func(c *CPU, v uint16) { c.SetBC(v) }, -1)
	primaryTable[0x1B] = incDec16(func(c *CPU) uint16 { return c.DE() }, func(c *CPU, v uint16) { c.SetDE(v) }, -1)
	primaryTable[0x2B] = incDec16(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint16) { c.SetHL(v) }, -1)
	primaryTable[0x3B] = func(c *CPU) int { c.SP--; return 2 }

	// INC r / DEC r / LD r,d8 for B,C,D,E,H,L,(HL),A at the standard column offsets.
	for i, r := range reg8Order {
		r := r
		incOp := byte(0x04 + 8*i)
		decOp := byte(0x05 + 8*i)
		ldOp := byte(0x06 + 8*i)
		cyc := 1
		if r == regHLInd {
			cyc = 3
		}
		ldCyc := 2
		if r == regHLInd {
			ldCyc = 3
		}
		primaryTable[incOp] = func(c *CPU) int { c.set8(r, c.inc8(c.get8(r))); return cyc }
		primaryTable[decOp] = func(c *CPU) int { c.set8(r, c.dec8(c.get8(r))); return cyc }
		primaryTable[ldOp] = func(c *CPU) int { c.set8(r, c.fetch8()); return ldCyc }
	}

	primaryTable[0x07] = func(c *CPU) int { c.A = c.rlc(c.A); c.setFlag(FlagZ, false); return 1 }
	primaryTable[0x0F] = func(c *CPU) int { c.A = c.rrc(c.A); c.setFlag(FlagZ, false); return 1 }
	primaryTable[0x17] = func(c *CPU) int { c.A = c.rl(c.A); c.setFlag(FlagZ, false); return 1 }
	primaryTable[0x1F] = func(c *CPU) int { c.A = c.rr(c.A); c.setFlag(FlagZ, false); return 1 }

	primaryTable[0x08] = func(c *CPU) int { addr := c.fetch16(); c.write16(addr, c.SP); return 5 }

	addHL16 := func(get func(*CPU) uint16) opcodeFunc {
		return func(c *CPU) int { c.addHL(get(c)); return 2 }
	}
	primaryTable[0x09] = addHL16(func(c *CPU) uint16 { return c.BC() })
	primaryTable[0x19] = addHL16(func(c *CPU) uint16 { return c.DE() })
	primaryTable[0x29] = addHL16(func(c *CPU) uint16 { return c.HL() })
	primaryTable[0x39] = addHL16(func(c *CPU) uint16 { return c.SP })

	// STOP is treated as HALT for this core.
	primaryTable[0x10] = func(c *CPU) int { c.fetch8(); c.halted = true; return 1 }

	primaryTable[0x18] = func(c *CPU) int { // JR r8
		d := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(d))
		return 3
	}
	jrCC := func(cond func(*CPU) bool) opcodeFunc {
		return func(c *CPU) int {
			d := int8(c.fetch8())
			if cond(c) {
				c.PC = uint16(int32(c.PC) + int32(d))
				return 3
			}
			return 2
		}
	}
	primaryTable[0x20] = jrCC(func(c *CPU) bool { return !c.Z() })
	primaryTable[0x28] = jrCC(func(c *CPU) bool { return c.Z() })
	primaryTable[0x30] = jrCC(func(c *CPU) bool { return !c.C() })
	primaryTable[0x38] = jrCC(func(c *CPU) bool { return c.C() })

	primaryTable[0x27] = func(c *CPU) int { c.daa(); return 1 }
	primaryTable[0x2F] = func(c *CPU) int { c.cpl(); return 1 }
	primaryTable[0x37] = func(c *CPU) int { c.scf(); return 1 }
	primaryTable[0x3F] = func(c *CPU) int { c.ccf(); return 1 }

	primaryTable[0x76] = func(c *CPU) int { c.halted = true; return 1 } // HALT

	// LD r,r' block, 0x40-0x7F minus HALT.
	for d, dst := range reg8Order {
		for s, src := range reg8Order {
			op := byte(0x40 + 8*d + s)
			if op == 0x76 {
				continue
			}
			dst, src := dst, src
			cyc := 1
			if dst == regHLInd || src == regHLInd {
				cyc = 2
			}
			primaryTable[op] = func(c *CPU) int { c.set8(dst, c.get8(src)); return cyc }
		}
	}

	// ALU A,r block, 0x80-0xBF.
	aluOps := [8]func(*Registers, byte){
		(*Registers).add8, (*Registers).adc8, (*Registers).sub8, (*Registers).sbc8,
		(*Registers).and8, (*Registers).xor8, (*Registers).or8, (*Registers).cp8,
	}
	for g, op := range aluOps {
		op := op
		for s, src := range reg8Order {
			opcode := byte(0x80 + 8*g + s)
			src := src
			cyc := 1
			if src == regHLInd {
				cyc = 2
			}
			primaryTable[opcode] = func(c *CPU) int { op(&c.Registers, c.get8(src)); return cyc }
		}
	}
	// ALU A,d8 block.
	aluImmOps := [8]byte{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for g, opcode := range aluImmOps {
		op := aluOps[g]
		primaryTable[opcode] = func(c *CPU) int { op(&c.Registers, c.fetch8()); return 2 }
	}

	// POP/PUSH rr (AF for the 4th slot).
	popOps := [4]byte{0xC1, 0xD1, 0xE1, 0xF1}
	pushOps := [4]byte{0xC5, 0xD5, 0xE5, 0xF5}
	setters := [4]func(*CPU, uint16){
		func(c *CPU, v uint16) { c.SetBC(v) },
		func(c *CPU, v uint16) { c.SetDE(v) },
		func(c *CPU, v uint16) { c.SetHL(v) },
		func(c *CPU, v uint16) { c.SetAF(v) },
	}
	getters := [4]func(*CPU) uint16{
		func(c *CPU) uint16 { return c.BC() },
		func(c *CPU) uint16 { return c.DE() },
		func(c *CPU) uint16 { return c.HL() },
		func(c *CPU) uint16 { return c.AF() },
	}
	for i := 0; i < 4; i++ {
		set, get := setters[i], getters[i]
		primaryTable[popOps[i]] = func(c *CPU) int { set(c, c.pop16()); return 3 }
		primaryTable[pushOps[i]] = func(c *CPU) int { c.push16(get(c)); return 4 }
	}

	// RET / RET cc / RETI
	primaryTable[0xC9] = func(c *CPU) int { c.PC = c.pop16(); return 4 }
	primaryTable[0xD9] = func(c *CPU) int { c.PC = c.pop16(); c.imeEnableDelay = 1; return 4 }
	retCC := func(cond func(*CPU) bool) opcodeFunc {
		return func(c *CPU) int {
			if cond(c) {
				c.PC = c.pop16()
				return 5
			}
			return 2
		}
	}
	primaryTable[0xC0] = retCC(func(c *CPU) bool { return !c.Z() })
	primaryTable[0xC8] = retCC(func(c *CPU) bool { return c.Z() })
	primaryTable[0xD0] = retCC(func(c *CPU) bool { return !c.C() })
	primaryTable[0xD8] = retCC(func(c *CPU) bool { return c.C() })

	// JP a16 / JP cc,a16 / JP (HL)
	primaryTable[0xC3] = func(c *CPU) int { c.PC = c.fetch16(); return 4 }
	primaryTable[0xE9] = func(c *CPU) int { c.PC = c.HL(); return 1 }
	jpCC := func(cond func(*CPU) bool) opcodeFunc {
		return func(c *CPU) int {
			addr := c.fetch16()
			if cond(c) {
				c.PC = addr
				return 4
			}
			return 3
		}
	}
	primaryTable[0xC2] = jpCC(func(c *CPU) bool { return !c.Z() })
	primaryTable[0xCA] = jpCC(func(c *CPU) bool { return c.Z() })
	primaryTable[0xD2] = jpCC(func(c *CPU) bool { return !c.C() })
	primaryTable[0xDA] = jpCC(func(c *CPU) bool { return c.C() })

	// CALL a16 / CALL cc,a16
	primaryTable[0xCD] = func(c *CPU) int {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 6
	}
	callCC := func(cond func(*CPU) bool) opcodeFunc {
		return func(c *CPU) int {
			addr := c.fetch16()
			if cond(c) {
				c.push16(c.PC)
				c.PC = addr
				return 6
			}
			return 3
		}
	}
	primaryTable[0xC4] = callCC(func(c *CPU) bool { return !c.Z() })
	primaryTable[0xCC] = callCC(func(c *CPU) bool { return c.Z() })
	primaryTable[0xD4] = callCC(func(c *CPU) bool { return !c.C() })
	primaryTable[0xDC] = callCC(func(c *CPU) bool { return c.C() })

	// RST n
	rstOps := [8]byte{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF}
	for i, opcode := range rstOps {
		vec := uint16(i * 8)
		primaryTable[opcode] = func(c *CPU) int {
			c.push16(c.PC)
			c.PC = vec
			return 4
		}
	}

	primaryTable[0xCB] = func(c *CPU) int {
		op := c.fetch8()
		handler := cbTable[op]
		return handler(c)
	}

	primaryTable[0xE0] = func(c *CPU) int { n := uint16(c.fetch8()); c.write8(0xFF00+n, c.A); return 3 }
	primaryTable[0xF0] = func(c *CPU) int { n := uint16(c.fetch8()); c.A = c.read8(0xFF00 + n); return 3 }
	primaryTable[0xE2] = func(c *CPU) int { c.write8(0xFF00+uint16(c.C), c.A); return 2 }
	primaryTable[0xF2] = func(c *CPU) int { c.A = c.read8(0xFF00 + uint16(c.C)); return 2 }
	primaryTable[0xEA] = func(c *CPU) int { addr := c.fetch16(); c.write8(addr, c.A); return 4 }
	primaryTable[0xFA] = func(c *CPU) int { addr := c.fetch16(); c.A = c.read8(addr); return 4 }

	primaryTable[0xE8] = func(c *CPU) int { d := int8(c.fetch8()); c.SP = c.addSPSigned8(d); return 4 }
	primaryTable[0xF8] = func(c *CPU) int { d := int8(c.fetch8()); c.SetHL(c.addSPSigned8(d)); return 3 }
	primaryTable[0xF9] = func(c *CPU) int { c.SP = c.HL(); return 2 }

	primaryTable[0xF3] = func(c *CPU) int { c.imeDisableDelay = 2; return 1 } // DI
	primaryTable[0xFB] = func(c *CPU) int { c.imeEnableDelay = 2; return 1 }  // EI

	// 0xD3,0xDB,0xDD,0xE3,0xE4,0xEB,0xEC,0xED,0xF4,0xFC,0xFD have no defined
	// meaning on the LR35902 and are left nil; Step reports them as a
	// programmer error with the opcode and PC, per spec's error taxonomy.
}
