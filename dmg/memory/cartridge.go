package memory

// Header field offsets within the first 0x150 bytes of a cartridge image.
const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// MBCType identifies which memory bank controller a cartridge's header
// says it carries.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC1MultiType
	MBC2Type
	MBC3Type
	MBC5Type
	MBCUnknownType
)

// ramBankSizes maps the cartridge header's RAM size code to a bank count,
// each bank being 8KB.
var ramBankSizes = map[uint8]uint8{
	0x00: 0,
	0x01: 1, // unofficial, some tooling emits a 2KB size here; treat as one bank
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// Cartridge holds the raw ROM image plus the header fields the MMU
// needs to build the right MBC.
type Cartridge struct {
	data           []byte
	title          string
	headerChecksum uint8
	mbcType        MBCType
	hasBattery     bool
	hasRTC         bool
	hasRumble      bool
	ramBankCount   uint8
}

// NewCartridge returns an empty cartridge with no MBC, useful for
// booting the machine with nothing inserted.
func NewCartridge() *Cartridge {
	return &Cartridge{data: make([]byte, 0x8000), mbcType: NoMBCType}
}

// NewCartridgeWithData parses a ROM image's header and returns a
// Cartridge ready to be handed to NewWithCartridge.
func NewCartridgeWithData(bytes []byte) *Cartridge {
	cart := &Cartridge{
		data: make([]byte, len(bytes)),
	}
	copy(cart.data, bytes)

	if len(bytes) > titleAddress+titleLength {
		cart.title = cleanTitle(bytes[titleAddress : titleAddress+titleLength])
	}
	if len(bytes) > headerChecksumAddress {
		cart.headerChecksum = bytes[headerChecksumAddress]
	}

	cartType := byte(0)
	ramSize := byte(0)
	if len(bytes) > cartridgeTypeAddress {
		cartType = bytes[cartridgeTypeAddress]
	}
	if len(bytes) > ramSizeAddress {
		ramSize = bytes[ramSizeAddress]
	}

	cart.mbcType, cart.hasBattery, cart.hasRTC, cart.hasRumble = classifyMBC(cartType)
	cart.ramBankCount = ramBankSizes[ramSize]
	if cart.mbcType == MBC2Type {
		cart.ramBankCount = 1 // MBC2's built-in RAM isn't sized from the header
	}

	return cart
}

func cleanTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0x00 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// classifyMBC maps the cartridge header's type byte to an MBC family
// and its optional battery/RTC/rumble features. Reference:
// https://gbdev.io/pandocs/The_Cartridge_Header.html#0147--cartridge-type
func classifyMBC(cartType byte) (mbc MBCType, battery, rtc, rumble bool) {
	switch cartType {
	case 0x00:
		return NoMBCType, false, false, false
	case 0x01:
		return MBC1Type, false, false, false
	case 0x02:
		return MBC1Type, false, false, false
	case 0x03:
		return MBC1Type, true, false, false
	case 0x05:
		return MBC2Type, false, false, false
	case 0x06:
		return MBC2Type, true, false, false
	case 0x0F:
		return MBC3Type, true, true, false
	case 0x10:
		return MBC3Type, true, true, false
	case 0x11:
		return MBC3Type, false, false, false
	case 0x12:
		return MBC3Type, false, false, false
	case 0x13:
		return MBC3Type, true, false, false
	case 0x19:
		return MBC5Type, false, false, false
	case 0x1A:
		return MBC5Type, false, false, false
	case 0x1B:
		return MBC5Type, true, false, false
	case 0x1C:
		return MBC5Type, false, false, true
	case 0x1D:
		return MBC5Type, false, false, true
	case 0x1E:
		return MBC5Type, true, false, true
	default:
		return MBCUnknownType, false, false, false
	}
}

// ReadByte reads a byte at the specified address without bounds checks;
// the caller (the MBC) must ensure the address is within the cartridge.
func (c Cartridge) ReadByte(addr uint16) uint8 {
	return c.data[addr]
}

func (c *Cartridge) Title() string { return c.title }
