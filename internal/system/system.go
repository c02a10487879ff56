// Package system composes the CPU, MMU, and cartridge into the single
// cooperatively-scheduled core, and owns the host-facing channels for
// frames and key events.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pixelforge/dmgcore/internal/cart"
	"github.com/pixelforge/dmgcore/internal/cpu"
	"github.com/pixelforge/dmgcore/internal/input"
	"github.com/pixelforge/dmgcore/internal/mmu"
	"github.com/pixelforge/dmgcore/internal/ppu"
)

// wallClock is the production cart.ClockSource; MBC3's RTC is parameterized
// on this interface so tests can stub a deterministic time source instead.
type wallClock struct{}

func (wallClock) NowUnix() int64 { return time.Now().Unix() }

// Machine owns one complete emulator core: CPU, MMU (and, through it,
// Timer/PPU/Input/Serial), and the cartridge.
type Machine struct {
	CPU *cpu.CPU
	MMU *mmu.MMU

	cartPath  string
	cartType  byte
	battery   cart.BatteryBacked

	Frames chan ppu.Frame
}

// Load reads a ROM file, constructs its cartridge, and returns a Machine
// ready to Step. The save sidecar (if any) is loaded best-effort: a missing
// file is not an error.
func Load(romPath string) (*Machine, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("system: reading ROM: %w", err)
	}

	c, err := cart.New(rom, wallClock{})
	if err != nil {
		return nil, fmt.Errorf("system: constructing cartridge: %w", err)
	}

	m := &Machine{
		cartPath: romPath,
		Frames:   make(chan ppu.Frame, 1),
	}
	if h, err := cart.ParseHeader(rom); err == nil {
		m.cartType = h.CartType
	}

	m.MMU = mmu.New(c, m.Frames)
	m.CPU = cpu.New(m.MMU)
	m.CPU.Reset()

	if bb, ok := c.(cart.BatteryBacked); ok {
		m.battery = bb
		if data, err := os.ReadFile(m.savePath()); err == nil {
			bb.LoadRAM(data)
		}
	}

	return m, nil
}

// savePath is the ROM path with its extension replaced by
// "gbsave-rustyboy".
func (m *Machine) savePath() string {
	ext := filepath.Ext(m.cartPath)
	base := strings.TrimSuffix(m.cartPath, ext)
	return base + ".gbsave-rustyboy"
}

// Step executes one CPU instruction (or interrupt dispatch, or idle HALT
// cycle) and returns the M-cycles consumed.
func (m *Machine) Step() int { return m.CPU.Step() }

// PressKey/ReleaseKey queue a joypad transition for the next MMU.RunCycle.
func (m *Machine) PressKey(k input.Key)   { m.MMU.Input.Press(k) }
func (m *Machine) ReleaseKey(k input.Key) { m.MMU.Input.Release(k) }

// Close persists external RAM (and RTC state, for MBC3) to the save
// sidecar. A write failure is logged by the caller, not treated as fatal.
func (m *Machine) Close() error {
	if m.battery == nil {
		return nil
	}
	data := m.battery.SaveRAM()
	if data == nil {
		return nil
	}
	return os.WriteFile(m.savePath(), data, 0o644)
}
