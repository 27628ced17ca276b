package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facelit/internal/engine/gpu/gputest"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestVideoTextureParams(t *testing.T) {
	dev := gputest.New()
	vt := NewVideoTexture(dev)

	tex := dev.Textures[vt.ID()]
	if tex == nil {
		t.Fatal("texture not created")
	}
	want := map[uint32]int32{
		gl.TEXTURE_WRAP_S:     gl.CLAMP_TO_EDGE,
		gl.TEXTURE_WRAP_T:     gl.CLAMP_TO_EDGE,
		gl.TEXTURE_MIN_FILTER: gl.LINEAR,
		gl.TEXTURE_MAG_FILTER: gl.LINEAR,
	}
	for pname, v := range want {
		if tex.Params[pname] != v {
			t.Errorf("param 0x%x = 0x%x, want 0x%x", pname, tex.Params[pname], v)
		}
	}
}

func TestVideoTextureUpload(t *testing.T) {
	dev := gputest.New()
	vt := NewVideoTexture(dev)

	red := solid(4, 2, color.RGBA{R: 255, A: 255})
	vt.Upload(0, red)
	vt.Upload(0, solid(4, 2, color.RGBA{G: 255, A: 255}))

	if n := dev.Count("TexImage2D"); n != 1 {
		t.Errorf("TexImage2D called %d times, want 1 (same size reuses storage)", n)
	}
	if n := dev.Count("TexSubImage2D"); n != 1 {
		t.Errorf("TexSubImage2D called %d times, want 1", n)
	}
	tex := dev.Textures[vt.ID()]
	if tex.Pixels[1] != 255 || tex.Pixels[0] != 0 {
		t.Errorf("texture holds %v, want the green frame", tex.Pixels[:4])
	}

	vt.Upload(0, solid(8, 6, color.RGBA{B: 255, A: 255}))
	if n := dev.Count("TexImage2D"); n != 2 {
		t.Errorf("TexImage2D called %d times after resize, want 2", n)
	}
	if w, h := vt.Size(); w != 8 || h != 6 {
		t.Errorf("Size = %dx%d, want 8x6", w, h)
	}
}

func TestVideoTextureUploadSubImage(t *testing.T) {
	dev := gputest.New()
	vt := NewVideoTexture(dev)

	big := solid(8, 8, color.RGBA{R: 10, A: 255})
	sub := big.SubImage(image.Rect(2, 2, 6, 4)).(*image.RGBA)
	vt.Upload(0, sub)

	tex := dev.Textures[vt.ID()]
	if tex.Width != 4 || tex.Height != 2 {
		t.Fatalf("uploaded %dx%d, want 4x2", tex.Width, tex.Height)
	}
	if tex.Pixels[0] != 10 {
		t.Errorf("first pixel = %v", tex.Pixels[:4])
	}
}

func TestFit(t *testing.T) {
	img := solid(320, 240, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	if got := Fit(img, 320, 240); got != img {
		t.Error("Fit reallocated a frame that already matches")
	}

	got := Fit(img, 640, 480)
	if b := got.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("Fit size = %v, want 640x480", b)
	}
	c := got.RGBAAt(320, 240)
	if absDiff(c.R, 200) > 1 || absDiff(c.G, 100) > 1 || absDiff(c.B, 50) > 1 {
		t.Errorf("center pixel = %v, want the source color", c)
	}
}

func TestDecodeFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 3, color.RGBA{R: 1, G: 2, B: 3, A: 255})); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, format, err := DecodeFrame(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if c := img.RGBAAt(1, 1); c != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v", c)
	}

	if _, _, err := DecodeFrame([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestBlank(t *testing.T) {
	img := Blank(2, 2)
	if c := img.RGBAAt(1, 1); c != (color.RGBA{A: 255}) {
		t.Errorf("Blank pixel = %v, want opaque black", c)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
