package video

// shades maps the DMG's 2-bit shade index to the fixed color it's
// rendered as. Index order matches the GLOSSARY: 0=white, 3=black.
var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// Palette is a BGP/OBP0/OBP1-style register: four 2-bit fields, each
// mapping a tile color index (0-3) to one of the four fixed shades.
type Palette byte

// Resolve maps a tile's 2-bit color index through this palette to the
// shade it's displayed as.
func (p Palette) Resolve(colorIndex uint8) GBColor {
	shade := (uint8(p) >> (colorIndex * 2)) & 0x03
	return shades[shade]
}
