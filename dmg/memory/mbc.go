package memory

import "time"

// MBC is a memory bank controller: the cartridge-side logic that maps
// the CPU's fixed 32KB ROM window and 8KB external RAM window onto a
// much larger addressable ROM/RAM behind it.
type MBC interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8) uint8
}

// NoMBC is a plain 32KB-or-smaller cartridge with the ROM mapped
// directly into 0x0000-0x7FFF and no bankable RAM.
type NoMBC struct {
	rom []uint8
}

func NewNoMBC(romData []uint8) *NoMBC {
	return &NoMBC{rom: romData}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

func (m *NoMBC) Write(addr uint16, value uint8) uint8 { return 0 }

// MBC1 banks up to 125 16KB ROM banks and 4 8KB RAM banks, with a
// banking-mode switch that trades ROM bank range for RAM bank range.
type MBC1 struct {
	rom          []uint8
	ram          []uint8
	romBank      uint8
	ramBank      uint8
	ramEnabled   bool
	bankingMode  uint8
	hasBattery   bool
	ramBankCount uint8
}

func NewMBC1(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC1 {
	return &MBC1{
		rom:          romData,
		ram:          make([]uint8, uint32(ramBankCount)*0x2000),
		romBank:      1,
		hasBattery:   hasBattery,
		ramBankCount: ramBankCount,
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			m.ramBank = value & 0x03
		}
	case addr <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		m.ram[offset+uint32(addr-0xA000)] = value
	}
	return value
}

// MBC2 has built-in 512x4-bit RAM and a simpler 16-bank ROM scheme; RAM
// nibbles are stored in the low 4 bits of each byte.
type MBC2 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramEnabled bool
}

func NewMBC2(romData []uint8) *MBC2 {
	return &MBC2{rom: romData, ram: make([]uint8, 512), romBank: 1}
}

func (m *MBC2) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xA1FF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[addr-0xA000] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		if addr&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		}
	case addr <= 0x3FFF:
		if addr&0x0100 != 0 {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case addr >= 0xA000 && addr <= 0xA1FF:
		if !m.ramEnabled {
			return 0xFF
		}
		m.ram[addr-0xA000] = value & 0x0F
	}
	return value
}

// Clock abstracts wall-clock time for MBC3's real-time clock, so tests
// can supply a fake instead of depending on the system clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MBC3 adds a battery-backed real-time clock alongside MBC1-style
// banking, with 5 latched RTC registers (seconds/minutes/hours/days-lo/days-hi).
type MBC3 struct {
	rom        []uint8
	ram        []uint8
	rtc        [5]uint8
	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	hasRTC     bool
	rtcLatch   bool
	clock      Clock
	rtcTime    time.Time
}

func NewMBC3(romData []uint8, ramBankCount uint8, hasRTC bool, clock Clock) *MBC3 {
	if clock == nil {
		clock = systemClock{}
	}
	return &MBC3{
		rom:     romData,
		ram:     make([]uint8, uint32(ramBankCount)*0x2000),
		romBank: 1,
		hasRTC:  hasRTC,
		clock:   clock,
		rtcTime: clock.Now(),
	}
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 && len(m.ram) > 0 {
			offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
			return m.ram[offset+uint32(addr-0xA000)]
		}
		if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			if m.rtcLatch {
				m.updateRTC()
				m.rtcLatch = false
			}
			return m.rtc[m.ramBank-0x08]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = value
	case addr <= 0x7FFF:
		if value == 0x00 {
			m.rtcLatch = true
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank <= 0x03 && len(m.ram) > 0 {
			offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
			m.ram[offset+uint32(addr-0xA000)] = value
		} else if m.hasRTC && m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
		}
	}
	return value
}

func (m *MBC3) updateRTC() {
	now := m.clock.Now()
	elapsed := now.Sub(m.rtcTime)
	m.rtcTime = now

	totalSeconds := int(m.rtc[0]) + int(elapsed.Seconds())
	m.rtc[0] = uint8(totalSeconds % 60)
	totalMinutes := int(m.rtc[1]) + totalSeconds/60
	m.rtc[1] = uint8(totalMinutes % 60)
	totalHours := int(m.rtc[2]) + totalMinutes/60
	m.rtc[2] = uint8(totalHours % 24)
	totalDays := int(m.rtc[3]) + int(m.rtc[4]&0x01)<<8 + totalHours/24
	m.rtc[3] = uint8(totalDays & 0xFF)
	m.rtc[4] = (m.rtc[4] &^ 0x01) | uint8((totalDays>>8)&0x01)
}

// MBC5 supports up to 512 16KB ROM banks via a 9-bit bank number and
// up to 16 8KB RAM banks, with none of MBC1's bank-0-is-unselectable quirk.
type MBC5 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	hasRumble  bool
}

func NewMBC5(romData []uint8, hasRumble bool, ramBankCount uint8) *MBC5 {
	return &MBC5{
		rom:       romData,
		ram:       make([]uint8, uint32(ramBankCount)*0x2000),
		romBank:   1,
		hasRumble: hasRumble,
	}
}

func (m *MBC5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value uint8) uint8 {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr <= 0x3FFF:
		m.romBank = (m.romBank & 0xFF) | (uint16(value&0x01) << 8)
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000 % uint32(len(m.ram))
		m.ram[offset+uint32(addr-0xA000)] = value
	}
	return value
}
