package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/valerio/framedbg/framedbg/gs"
)

// DisplayImage converts the displayed PSMCT32 frame buffer to an image.
// The visible height is taken from the context 1 scissor.
func DisplayImage(h *gs.Handler) (*image.RGBA, error) {
	display := h.Display()
	if !display.Active {
		return nil, errors.New("no frame buffer has been displayed")
	}

	width := int(display.Frame.Stride())
	height := gs.DecodeScissor(h.Register(gs.SCISSOR_1)).Y1 + 1
	base := int(display.Frame.Address())
	if width == 0 {
		return nil, errors.New("displayed frame buffer has zero width")
	}

	ram := h.RAM()
	if base >= len(ram) {
		return nil, errors.Errorf("frame buffer at 0x%X is outside GS memory", base)
	}
	height = min(height, (len(ram)-base)/(width*4))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		src := ram[base+i*4:]
		dst := img.Pix[i*4:]
		copy(dst[:3], src[:3])
		// GS alpha is 0x80 for fully opaque.
		dst[3] = uint8(min(int(src[3])*2, 0xFF))
	}
	return img, nil
}

// SaveDisplayPNG writes the displayed frame buffer as a timestamped PNG to
// directory (the working directory if empty) and returns its path.
func SaveDisplayPNG(h *gs.Handler, baseName, directory string) (string, error) {
	img, err := DisplayImage(h)
	if err != nil {
		return "", err
	}

	if directory == "" {
		directory, err = os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to get current directory")
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(directory, fmt.Sprintf("%s_%s.png", baseName, timestamp))
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", errors.Wrap(err, "failed to encode PNG")
	}

	b := img.Bounds()
	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "format", "PNG")
	return path, nil
}
