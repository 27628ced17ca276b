package scene

import (
	"bytes"
	"errors"
	"image"
	"slices"
	"strings"
	"testing"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facelit/internal/engine/gpu/gputest"
	"github.com/Faultbox/facelit/internal/engine/scene/shaders"
	"github.com/Faultbox/facelit/internal/engine/shader"
	"github.com/Faultbox/facelit/internal/facemesh"
)

func quadTopology(t *testing.T) *facemesh.Topology {
	t.Helper()
	topo, err := facemesh.NewTopology([]int{0, 1, 2, 0, 2, 3}, 4)
	if err != nil {
		t.Fatalf("NewTopology: %v", err)
	}
	return topo
}

func floatBytes(f []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}

func TestGeometryAllocation(t *testing.T) {
	dev := gputest.New()
	g, err := NewGeometry(dev, quadTopology(t), 478)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}

	for _, b := range []uint32{g.positionVBO, g.normalVBO} {
		if got := len(dev.Buffers[b]); got != 478*3*4 {
			t.Errorf("buffer %d size = %d, want %d", b, got, 478*3*4)
		}
		if dev.Usage[b] != gl.STREAM_DRAW {
			t.Errorf("buffer %d usage = 0x%x, want STREAM_DRAW", b, dev.Usage[b])
		}
	}

	idx := dev.Buffers[g.ebo]
	want := []byte{0, 0, 1, 0, 2, 0, 0, 0, 2, 0, 3, 0} // little-endian uint16
	if !bytes.Equal(idx, want) {
		t.Errorf("index buffer = %v, want %v", idx, want)
	}
	if dev.Usage[g.ebo] != gl.STATIC_DRAW {
		t.Errorf("index usage = 0x%x, want STATIC_DRAW", dev.Usage[g.ebo])
	}
	if g.IndexCount() != 6 {
		t.Errorf("IndexCount = %d, want 6", g.IndexCount())
	}
}

func TestGeometryRejectsSmallCapacity(t *testing.T) {
	if _, err := NewGeometry(gputest.New(), quadTopology(t), 3); err == nil {
		t.Error("expected error when topology exceeds capacity")
	}
	if _, err := NewGeometry(gputest.New(), quadTopology(t), facemesh.MaxIndexedVertices+1); err == nil {
		t.Error("expected error above 16-bit index range")
	}
}

func TestGeometryUpdate(t *testing.T) {
	dev := gputest.New()
	g, err := NewGeometry(dev, quadTopology(t), 8)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	dev.Reset()

	positions := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	normals := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}
	if err := g.Update(positions, normals); err != nil {
		t.Fatalf("Update: %v", err)
	}

	pos := dev.Buffers[g.positionVBO]
	if len(pos) != 8*3*4 {
		t.Errorf("position buffer resized to %d bytes", len(pos))
	}
	if !bytes.Equal(pos[:48], floatBytes(positions)) {
		t.Error("position buffer does not hold the new positions")
	}
	if !bytes.Equal(pos[48:], make([]byte, len(pos)-48)) {
		t.Error("bytes past the active region were written")
	}
	if !bytes.Equal(dev.Buffers[g.normalVBO][:48], floatBytes(normals)) {
		t.Error("normal buffer does not hold the new normals")
	}
	if n := dev.Count("BufferData"); n != 0 {
		t.Errorf("Update reallocated storage %d times", n)
	}
}

func TestGeometryUpdateCapacity(t *testing.T) {
	dev := gputest.New()
	g, err := NewGeometry(dev, quadTopology(t), 4)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	dev.Reset()

	big := make([]float32, 5*3)
	if err := g.Update(big, big); !errors.Is(err, ErrCapacity) {
		t.Errorf("Update error = %v, want ErrCapacity", err)
	}
	if err := g.Update(make([]float32, 6), make([]float32, 3)); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if n := dev.Count("BufferSubData"); n != 0 {
		t.Errorf("rejected update wrote %d times", n)
	}
}

func newTestRenderer(t *testing.T, dev *gputest.Recorder) *Renderer {
	t.Helper()
	r, err := NewRenderer(dev, quadTopology(t), Config{FrameWidth: 640, FrameHeight: 480, MaxVertices: 478})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRendererDrawSequence(t *testing.T) {
	dev := gputest.New()
	r := newTestRenderer(t, dev)
	dev.Reset()

	frame := image.NewRGBA(image.Rect(0, 0, 640, 480))
	r.Draw(frame, [3]float32{0, 4, 1.5})

	want := []string{
		"Enable", "DepthFunc",
		"ClearColor", "ClearDepth", "Clear",
		"UseProgram",
		"BindVertexArray", "BindBuffer",
		"BindBuffer", "EnableVertexAttribArray", "VertexAttribPointer",
		"BindBuffer", "EnableVertexAttribArray", "VertexAttribPointer",
		"ActiveTexture", "BindTexture", "PixelStorei", "TexImage2D",
		"Uniform1i",
		"Uniform3f",
		"Uniform2f",
		"DrawElements",
	}
	if got := dev.Names(); !slices.Equal(got, want) {
		t.Errorf("draw sequence:\n got %v\nwant %v", got, want)
	}

	first := dev.Calls[0]
	if first.Args[0] != uint32(gl.DEPTH_TEST) {
		t.Errorf("first call enables %v, want DEPTH_TEST", first.Args)
	}
	if dev.Calls[1].Args[0] != uint32(gl.LEQUAL) {
		t.Errorf("depth func = %v, want LEQUAL", dev.Calls[1].Args)
	}
	if c := dev.Calls[2]; !slices.Equal(c.Args, []any{float32(0), float32(0), float32(0), float32(1)}) {
		t.Errorf("clear color = %v, want (0,0,0,1)", c.Args)
	}

	for _, c := range dev.Calls {
		if c.Name == "VertexAttribPointer" {
			// index, size, type, normalized, stride, offset, bound buffer
			if c.Args[1] != int32(3) || c.Args[2] != uint32(gl.FLOAT) || c.Args[3] != false || c.Args[4] != int32(0) {
				t.Errorf("attribute pointer = %v, want 3 floats, not normalized, tightly packed", c.Args)
			}
		}
	}

	if got := dev.Uniforms["uLightPos"]; !slices.Equal(got, []any{float32(0), float32(4), float32(1.5)}) {
		t.Errorf("uLightPos = %v", got)
	}
	if got := dev.Uniforms["uVideo"]; !slices.Equal(got, []any{int32(0)}) {
		t.Errorf("uVideo = %v, want unit 0", got)
	}
	if got := dev.Uniforms["uFrameSize"]; !slices.Equal(got, []any{float32(640), float32(480)}) {
		t.Errorf("uFrameSize = %v", got)
	}

	draw := dev.Calls[len(dev.Calls)-1]
	if draw.Args[0] != uint32(gl.TRIANGLES) || draw.Args[1] != int32(6) || draw.Args[2] != uint32(gl.UNSIGNED_SHORT) {
		t.Errorf("draw = %v, want TRIANGLES over 6 unsigned short indices", draw.Args)
	}
	if draw.Args[4] != r.geometry.ebo {
		t.Errorf("draw with element buffer %v bound, want %d", draw.Args[4], r.geometry.ebo)
	}
}

func TestRendererAttributesBindTheirBuffers(t *testing.T) {
	dev := gputest.New()
	r := newTestRenderer(t, dev)
	dev.Reset()

	r.Draw(image.NewRGBA(image.Rect(0, 0, 2, 2)), [3]float32{})

	bound := map[uint32]uint32{}
	for _, c := range dev.Calls {
		if c.Name == "VertexAttribPointer" {
			bound[c.Args[0].(uint32)] = c.Args[6].(uint32)
		}
	}
	if bound[r.locPosition] != r.geometry.positionVBO {
		t.Errorf("position attribute reads buffer %d, want %d", bound[r.locPosition], r.geometry.positionVBO)
	}
	if bound[r.locNormal] != r.geometry.normalVBO {
		t.Errorf("normal attribute reads buffer %d, want %d", bound[r.locNormal], r.geometry.normalVBO)
	}
}

func TestRendererShaderFailure(t *testing.T) {
	dev := gputest.New()
	dev.CompileError = func(kind uint32, source string) string {
		if strings.Contains(source, "syntax!") {
			return "0:3(1): error: syntax error, unexpected '!'"
		}
		return ""
	}

	_, err := NewRenderer(dev, quadTopology(t), Config{
		FrameWidth:     640,
		FrameHeight:    480,
		MaxVertices:    478,
		FragmentShader: "#version 410 core\nvoid main() {\nsyntax!\n}",
	})
	if err == nil {
		t.Fatal("expected error from broken fragment shader")
	}

	var serr *shader.Error
	if !errors.As(err, &serr) {
		t.Fatalf("error %v does not wrap *shader.Error", err)
	}
	if !strings.Contains(err.Error(), "unexpected '!'") {
		t.Errorf("diagnostic lost: %q", err)
	}
	if n := dev.Count("DrawElements"); n != 0 {
		t.Errorf("draw issued %d times after failed setup", n)
	}
	if n := dev.Count("GenBuffer"); n != 0 {
		t.Errorf("buffers allocated after failed setup")
	}
}

func TestRendererLinkFailure(t *testing.T) {
	dev := gputest.New()
	dev.LinkError = "error: vertex shader output `vNormal' not read by fragment shader"

	_, err := NewRenderer(dev, quadTopology(t), Config{FrameWidth: 640, FrameHeight: 480, MaxVertices: 478})
	if err == nil || !strings.Contains(err.Error(), "vNormal") {
		t.Errorf("NewRenderer error = %v, want link diagnostic", err)
	}
}

func TestRendererPersistsGeometryAcrossDraws(t *testing.T) {
	dev := gputest.New()
	r := newTestRenderer(t, dev)

	positions := make([]float32, 4*3)
	normals := make([]float32, 4*3)
	for i := range positions {
		positions[i] = float32(i) + 0.5
		normals[i] = 1
	}
	if err := r.UpdateGeometry(positions, normals); err != nil {
		t.Fatalf("UpdateGeometry: %v", err)
	}
	snapshot := bytes.Clone(dev.Buffers[r.geometry.positionVBO])

	for i := 0; i < 5; i++ {
		r.Draw(image.NewRGBA(image.Rect(0, 0, 4, 4)), [3]float32{})
	}
	if !bytes.Equal(dev.Buffers[r.geometry.positionVBO], snapshot) {
		t.Error("drawing modified the resident positions")
	}
}

func TestRendererClose(t *testing.T) {
	dev := gputest.New()
	r := newTestRenderer(t, dev)
	r.Close()

	if n := dev.Count("DeleteBuffer"); n != 3 {
		t.Errorf("DeleteBuffer called %d times, want 3", n)
	}
	if n := dev.Count("DeleteProgram"); n != 1 {
		t.Errorf("DeleteProgram called %d times, want 1", n)
	}
	if n := dev.Count("DeleteTexture"); n != 1 {
		t.Errorf("DeleteTexture called %d times, want 1", n)
	}
}

func TestEmbeddedFragmentShaderKeepsSignedDiffuse(t *testing.T) {
	fs := shaders.FaceFragmentShader
	if !strings.Contains(fs, "0.7 + 0.3 * lightVal") {
		t.Error("fragment shader lost the 0.7 ambient / 0.3 diffuse mix")
	}
	for _, clamp := range []string{"max(", "clamp(", "abs("} {
		if strings.Contains(fs, clamp) {
			t.Errorf("fragment shader clamps the diffuse term with %s", clamp)
		}
	}
}
