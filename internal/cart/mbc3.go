package cart

// MBC3 implements ROM/RAM banking plus the real-time-clock register
// window:
// - 0000-1FFF: RAM/RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank, 7 bits (0 maps to 1)
// - 4000-5FFF: RAM bank (0-3) or RTC register select (0x08-0x0C)
// - 6000-7FFF: latch: writing 0x00 then 0x01 samples the live clock into
//   the 5-byte RTC register window
// - A000-BFFF: external RAM, or the latched RTC register selected above

type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	ramBank    byte // 0..3, or an RTC register select 0x08-0x0C

	clock      ClockSource
	hasRTC     bool
	battery    bool
	epoch      int64 // ClockSource reading taken in NewMBC3; the RTC counts from here
	rtc        [5]byte // seconds, minutes, hours, day-low, day-high(+halt+overflow)
	latchState byte    // tracks the 0x00-then-0x01 two-step write sequence
}

func NewMBC3(rom []byte, ramSize int, hasRTC, battery bool, clock ClockSource) *MBC3 {
	m := &MBC3{rom: rom, romBank: 1, hasRTC: hasRTC, battery: battery, clock: clock, latchState: 0xFF}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	if hasRTC && clock != nil {
		m.epoch = clock.NowUnix()
	}
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtc[m.ramBank-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = value
	case addr < 0x8000:
		if value == 0x00 {
			m.latchState = 0x00
		} else if value == 0x01 && m.latchState == 0x00 {
			m.latchRTC()
			m.latchState = 0xFF
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			return
		}
		if len(m.ram) == 0 {
			return
		}
		rb := int(m.ramBank & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

// latchRTC samples elapsed seconds since epoch into the 5-byte register
// window, setting the day-counter overflow bit (day-high bit 7) once the
// 9-bit day counter wraps past 511.
func (m *MBC3) latchRTC() {
	if m.clock == nil {
		return
	}
	if m.rtc[4]&0x40 != 0 { // halt flag: clock does not advance
		return
	}
	elapsed := m.clock.NowUnix() - m.epoch
	if elapsed < 0 {
		elapsed = 0
	}
	days := elapsed / 86400
	secOfDay := elapsed % 86400

	m.rtc[0] = byte(secOfDay % 60)
	m.rtc[1] = byte((secOfDay / 60) % 60)
	m.rtc[2] = byte(secOfDay / 3600)

	overflow := m.rtc[4] & 0x80
	if days > 0x1FF {
		overflow = 0x80
		days %= 0x200
	}
	m.rtc[3] = byte(days & 0xFF)
	m.rtc[4] = (m.rtc[4] & 0x40) | overflow | byte((days>>8)&0x01)
}

func (m *MBC3) SaveRAM() []byte {
	if !m.battery {
		return nil
	}
	var out []byte
	if m.hasRTC {
		out = append(out, m.rtc[:]...)
	}
	if len(m.ram) > 0 {
		out = append(out, m.ram...)
	}
	return out
}

func (m *MBC3) LoadRAM(data []byte) {
	if !m.battery || len(data) == 0 {
		return
	}
	if m.hasRTC {
		if len(data) < 5 {
			return
		}
		copy(m.rtc[:], data[:5])
		data = data[5:]
	}
	if len(m.ram) > 0 && len(data) > 0 {
		copy(m.ram, data)
	}
}
