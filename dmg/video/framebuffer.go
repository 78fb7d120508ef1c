package video

// GBColor is one of the DMG's four fixed output shades, packed as an
// ARGB8888 value so a host backend can hand the buffer straight to a
// texture upload.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xFF989898
	DarkGreyColor  GBColor = 0xFF4C4C4C
	BlackColor     GBColor = 0xFF000000
)

// Width and Height are the DMG's fixed visible resolution.
const (
	Width  = 160
	Height = 144
)

// FrameBuffer holds one completed (or in-progress) frame of pixels.
type FrameBuffer struct {
	pixels [Width * Height]uint32
}

// NewFrameBuffer returns an empty (all-black) frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) SetPixel(x, y int, color GBColor) {
	fb.pixels[y*Width+x] = uint32(color)
}

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.pixels[y*Width+x]
}

// Pixels exposes the raw ARGB8888 buffer for presentation.
func (fb *FrameBuffer) Pixels() []uint32 {
	return fb.pixels[:]
}
