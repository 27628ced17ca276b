package source

import (
	"fmt"
	"image"
	"os"

	"github.com/Faultbox/facelit/internal/engine/texture"
)

// StillFrame is a FrameSource that always returns the same image.
type StillFrame struct {
	img *image.RGBA
}

// NewStillFrame wraps img.
func NewStillFrame(img *image.RGBA) *StillFrame {
	return &StillFrame{img: img}
}

// BlankFrame returns an opaque black still frame of the given size.
func BlankFrame(width, height int) *StillFrame {
	return &StillFrame{img: texture.Blank(width, height)}
}

// LoadStillFrame decodes an image file and fits it to width x height.
func LoadStillFrame(path string, width, height int) (*StillFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading still image: %w", err)
	}
	img, _, err := texture.DecodeFrame(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &StillFrame{img: texture.Fit(img, width, height)}, nil
}

// Frame implements FrameSource.
func (s *StillFrame) Frame() *image.RGBA {
	return s.img
}
