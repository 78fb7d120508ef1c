package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romOfSize(banks int, fill func(bank int) byte) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = fill(b)
	}
	return rom
}

func TestNoMBCReadsDirectlyFromROM(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x4000] = 0xAB
	mbc := NewNoMBC(rom)
	assert.Equal(t, byte(0xAB), mbc.Read(0x4000))
	assert.Equal(t, uint8(0), mbc.Write(0x4000, 0xFF), "NoMBC ignores writes")
}

func TestMBC1SwitchesROMBanks(t *testing.T) {
	rom := romOfSize(4, func(bank int) byte { return byte(bank) })
	mbc := NewMBC1(rom, false, 0)

	mbc.Write(0x2000, 0x02) // select ROM bank 2
	assert.Equal(t, byte(2), mbc.Read(0x4000))

	mbc.Write(0x2000, 0x00) // bank 0 is remapped to bank 1
	assert.Equal(t, byte(1), mbc.Read(0x4000))
}

func TestMBC1RAMRequiresEnable(t *testing.T) {
	rom := romOfSize(2, func(int) byte { return 0 })
	mbc := NewMBC1(rom, false, 1)

	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "disabled RAM reads open bus")
	mbc.Write(0x0000, 0x0A) // enable
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), mbc.Read(0xA000))
}

func TestMBC1BankingModeGatesRAMBankSelect(t *testing.T) {
	rom := romOfSize(2, func(int) byte { return 0 })
	mbc := NewMBC1(rom, false, 4)
	mbc.Write(0x0000, 0x0A) // enable RAM

	mbc.Write(0x6000, 0x01) // switch to RAM banking mode
	mbc.Write(0x4000, 0x02) // select RAM bank 2
	mbc.Write(0xA000, 0x99)

	mbc.Write(0x4000, 0x00) // back to bank 0
	assert.NotEqual(t, byte(0x99), mbc.Read(0xA000))

	mbc.Write(0x4000, 0x02)
	assert.Equal(t, byte(0x99), mbc.Read(0xA000))
}

func TestMBC2RAMIsNibbleWide(t *testing.T) {
	mbc := NewMBC2(make([]byte, 0x8000))
	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0xFF)
	assert.Equal(t, byte(0xFF), mbc.Read(0xA000), "low nibble set, high nibble forced to 1s on read")
}

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestMBC3LatchesRTCSeconds(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	mbc := NewMBC3(make([]byte, 0x8000), 0, true, clock)

	mbc.Write(0x0000, 0x0A) // enable RAM/RTC access
	mbc.Write(0x4000, 0x08) // select RTC seconds register
	clock.now = time.Unix(1042, 0)
	mbc.Write(0x6000, 0x00) // latch

	require.True(t, mbc.hasRTC)
	assert.Equal(t, byte(42), mbc.Read(0xA000))
}

func TestMBC5SupportsNinthROMBankBit(t *testing.T) {
	rom := romOfSize(300, func(bank int) byte { return byte(bank) })
	mbc := NewMBC5(rom, false, 0)

	mbc.Write(0x2000, 0x00)
	mbc.Write(0x3000, 0x01) // high bit set: selects bank 256, unreachable with only 8 bits
	assert.Equal(t, uint16(256), mbc.romBank)
	assert.Equal(t, byte(0), mbc.Read(0x4000), "fill pattern truncates bank 256's marker byte to 0")
}
