package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ashryu/dmgcore/dmg/video"
)

// SaveFramePNG writes fb to path as an RGBA PNG, translating the four
// fixed DMG shades to their display grays. Grounded on go-jeebie's
// debug.SaveFramePNGToDir shape, trimmed to the one directory/filename
// argument a headless backend or test harness actually needs.
func SaveFramePNG(fb *video.FrameBuffer, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("debug: failed to create snapshot directory: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, video.Width, video.Height))
	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			img.Set(x, y, gbColorToRGBA(fb.GetPixel(x, y)))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug: failed to create snapshot file: %w", err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

func gbColorToRGBA(pixel uint32) color.RGBA {
	switch video.GBColor(pixel) {
	case video.WhiteColor:
		return color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	case video.LightGreyColor:
		return color.RGBA{0x98, 0x98, 0x98, 0xFF}
	case video.DarkGreyColor:
		return color.RGBA{0x4C, 0x4C, 0x4C, 0xFF}
	default:
		return color.RGBA{0x00, 0x00, 0x00, 0xFF}
	}
}
