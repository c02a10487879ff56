// Package serial implements the SB/SC register pair as an unconnected-link
// stub: bytes written to SB are retained and can be read back, but no
// transfer ever completes and no interrupt is ever raised (the DMG's serial
// port has no peer attached).
package serial

// Serial holds the SB (0xFF01) and SC (0xFF02) registers.
type Serial struct {
	sb byte
	sc byte
}

// New returns a Serial port with both registers at their post-boot reset
// value.
func New() *Serial {
	return &Serial{sc: 0x7E}
}

// Tick is a no-op: with no link partner there is never a byte to shift out
// and never a transfer-complete interrupt to raise. It exists so Serial has
// the same Tick-shaped contract as the other peripherals the MMU drives.
func (s *Serial) Tick(mCycles int) (irq bool) { return false }

func (s *Serial) Read(addr uint16) byte {
	switch addr {
	case 0xFF01:
		return s.sb
	case 0xFF02:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *Serial) Write(addr uint16, v byte) {
	switch addr {
	case 0xFF01:
		s.sb = v
	case 0xFF02:
		// Bit 7 (transfer start) is accepted and stored but never
		// self-clears, since no transfer is ever carried out.
		s.sc = v&0x83 | 0x7C
	}
}
