// Package texture uploads camera frames to OpenGL and converts decoded
// images into the RGBA layout the upload expects.
package texture

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facelit/internal/engine/gpu"
)

// VideoTexture is the 2D texture that receives the current camera frame.
// Wrapping is clamped and there are no mipmaps, so any frame size works.
type VideoTexture struct {
	dev           gpu.Device
	id            uint32
	width, height int
}

// NewVideoTexture creates the texture object. It holds no image until the
// first Upload.
func NewVideoTexture(dev gpu.Device) *VideoTexture {
	t := &VideoTexture{dev: dev, id: dev.GenTexture()}

	dev.BindTexture(gl.TEXTURE_2D, t.id)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	dev.BindTexture(gl.TEXTURE_2D, 0)

	return t
}

// ID returns the GL texture name.
func (t *VideoTexture) ID() uint32 {
	return t.id
}

// Size returns the size of the last uploaded frame.
func (t *VideoTexture) Size() (int, int) {
	return t.width, t.height
}

// Upload binds the texture to the given unit and replaces its contents with
// img. Storage is reallocated only when the frame size changes.
func (t *VideoTexture) Upload(unit uint32, img *image.RGBA) {
	t.dev.ActiveTexture(gl.TEXTURE0 + unit)
	t.dev.BindTexture(gl.TEXTURE_2D, t.id)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if img.Stride != w*4 || b.Min != (image.Point{}) {
		img = ToRGBA(img)
	}
	t.dev.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	pixels := unsafe.Pointer(&img.Pix[0])
	if w != t.width || h != t.height {
		t.dev.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, pixels)
		t.width, t.height = w, h
		return
	}
	t.dev.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, pixels)
}

// Close deletes the texture.
func (t *VideoTexture) Close() {
	if t.id != 0 {
		t.dev.DeleteTexture(t.id)
		t.id = 0
	}
}
