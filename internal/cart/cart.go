// Package cart implements cartridge ROM parsing and the ROM-only/MBC1/MBC2/
// MBC3 bank-controller variants.
package cart

import "fmt"

// Cartridge is the minimal interface the MMU needs for the ROM
// (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF) address ranges.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// BatteryBacked cartridges persist external RAM (and, for MBC3, RTC state)
// across runs via a save sidecar file.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// ClockSource abstracts wall-clock time for MBC3's RTC so tests can supply
// a deterministic stand-in.
type ClockSource interface {
	NowUnix() int64
}

// UnsupportedCartTypeError is a startup error: the ROM header names a
// cartridge type this core does not implement.
type UnsupportedCartTypeError struct {
	Type byte
}

func (e *UnsupportedCartTypeError) Error() string {
	return fmt.Sprintf("cart: unsupported cartridge type 0x%02X", e.Type)
}

// New parses the ROM header and constructs the matching cartridge
// implementation, wired to clock for MBC3's RTC.
func New(rom []byte, clock ClockSource) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom), nil
	case 0x01, 0x02:
		return NewMBC1(rom, h.RAMSizeBytes, false), nil
	case 0x03:
		return NewMBC1(rom, h.RAMSizeBytes, true), nil
	case 0x05:
		return NewMBC2(rom, false), nil
	case 0x06:
		return NewMBC2(rom, true), nil
	case 0x0F:
		return NewMBC3(rom, h.RAMSizeBytes, true, true, clock), nil
	case 0x10:
		return NewMBC3(rom, h.RAMSizeBytes, true, true, clock), nil
	case 0x11, 0x12:
		return NewMBC3(rom, h.RAMSizeBytes, false, false, clock), nil
	case 0x13:
		return NewMBC3(rom, h.RAMSizeBytes, false, true, clock), nil
	default:
		// MBC5 (0x19-0x1E) and anything else falls outside this core's
		// scope; the caller surfaces this as a fatal startup error.
		return nil, &UnsupportedCartTypeError{Type: h.CartType}
	}
}

// HasRTC reports whether a cartridge type carries an MBC3 real-time clock,
// for sidecar layout decisions (RTC bytes precede RAM bytes when present).
func HasRTC(cartType byte) bool {
	return cartType == 0x0F || cartType == 0x10
}
