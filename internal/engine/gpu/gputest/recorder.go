// Package gputest provides a recording gpu.Device for tests that exercise
// rendering code without an OpenGL context.
package gputest

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facelit/internal/engine/gpu"
)

var _ gpu.Device = (*Recorder)(nil)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Texture is the recorded state of one texture object.
type Texture struct {
	Width, Height int32
	Pixels        []byte
	Params        map[uint32]int32
	Uploads       int
}

// Recorder implements gpu.Device by recording every call and keeping buffer
// and texture contents in memory.
type Recorder struct {
	Calls []Call

	// CompileError returns the info log for a shader that should fail to
	// compile, or "" to accept it.
	CompileError func(kind uint32, source string) string
	// LinkError, when set, fails every link with this info log.
	LinkError string

	Buffers  map[uint32][]byte
	Usage    map[uint32]uint32
	Textures map[uint32]*Texture
	Uniforms map[string][]any

	// FramePixel fills ReadPixels output; nil leaves it zeroed.
	FramePixel func(x, y int) [4]byte

	nextID      uint32
	bound       map[uint32]uint32
	boundTex    uint32
	shaderKinds map[uint32]uint32
	sources     map[uint32]string
	compiled    map[uint32]bool
	logs        map[uint32]string
	linked      map[uint32]bool
	locations   map[string]int32
	locNames    map[int32]string
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Buffers:     make(map[uint32][]byte),
		Usage:       make(map[uint32]uint32),
		Textures:    make(map[uint32]*Texture),
		Uniforms:    make(map[string][]any),
		bound:       make(map[uint32]uint32),
		shaderKinds: make(map[uint32]uint32),
		sources:     make(map[uint32]string),
		compiled:    make(map[uint32]bool),
		logs:        make(map[uint32]string),
		linked:      make(map[uint32]bool),
		locations:   make(map[string]int32),
		locNames:    make(map[int32]string),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named call was made.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Bound returns the buffer bound to target.
func (r *Recorder) Bound(target uint32) uint32 {
	return r.bound[target]
}

func (r *Recorder) GenBuffer() uint32 {
	b := r.id()
	r.record("GenBuffer", b)
	return b
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer", buffer)
	delete(r.Buffers, buffer)
}

func (r *Recorder) BindBuffer(target, buffer uint32) {
	r.record("BindBuffer", target, buffer)
	r.bound[target] = buffer
}

func (r *Recorder) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	r.record("BufferData", target, size, usage)
	buf := make([]byte, size)
	if data != nil {
		copy(buf, unsafe.Slice((*byte)(data), size))
	}
	b := r.bound[target]
	r.Buffers[b] = buf
	r.Usage[b] = usage
}

func (r *Recorder) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	r.record("BufferSubData", target, offset, size)
	buf := r.Buffers[r.bound[target]]
	if offset+size > len(buf) {
		panic(fmt.Sprintf("BufferSubData overflows buffer %d: %d+%d > %d", r.bound[target], offset, size, len(buf)))
	}
	copy(buf[offset:], unsafe.Slice((*byte)(data), size))
}

func (r *Recorder) GenVertexArray() uint32 {
	v := r.id()
	r.record("GenVertexArray", v)
	return v
}

func (r *Recorder) DeleteVertexArray(vao uint32) { r.record("DeleteVertexArray", vao) }

func (r *Recorder) BindVertexArray(vao uint32) { r.record("BindVertexArray", vao) }

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset, r.bound[gl.ARRAY_BUFFER])
}

func (r *Recorder) CreateShader(kind uint32) uint32 {
	s := r.id()
	r.record("CreateShader", kind)
	r.shaderKinds[s] = kind
	return s
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader)
	r.sources[shader] = source
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
	log := ""
	if r.CompileError != nil {
		log = r.CompileError(r.shaderKinds[shader], r.sources[shader])
	}
	r.compiled[shader] = log == ""
	r.logs[shader] = log
}

func (r *Recorder) ShaderCompiled(shader uint32) bool { return r.compiled[shader] }

func (r *Recorder) ShaderInfoLog(shader uint32) string { return r.logs[shader] }

func (r *Recorder) DeleteShader(shader uint32) { r.record("DeleteShader", shader) }

func (r *Recorder) CreateProgram() uint32 {
	p := r.id()
	r.record("CreateProgram", p)
	return p
}

func (r *Recorder) AttachShader(program, shader uint32) { r.record("AttachShader", program, shader) }

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
	r.linked[program] = r.LinkError == ""
	r.logs[program] = r.LinkError
}

func (r *Recorder) ProgramLinked(program uint32) bool { return r.linked[program] }

func (r *Recorder) ProgramInfoLog(program uint32) string { return r.logs[program] }

func (r *Recorder) DeleteProgram(program uint32) { r.record("DeleteProgram", program) }

func (r *Recorder) UseProgram(program uint32) { r.record("UseProgram", program) }

func (r *Recorder) location(name string) int32 {
	if loc, ok := r.locations[name]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[name] = loc
	r.locNames[loc] = name
	return loc
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	return r.location("attrib:" + name)
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	return r.location(name)
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", r.locNames[location], v)
	r.Uniforms[r.locNames[location]] = []any{v}
}

func (r *Recorder) Uniform2f(location int32, x, y float32) {
	r.record("Uniform2f", r.locNames[location], x, y)
	r.Uniforms[r.locNames[location]] = []any{x, y}
}

func (r *Recorder) Uniform3f(location int32, x, y, z float32) {
	r.record("Uniform3f", r.locNames[location], x, y, z)
	r.Uniforms[r.locNames[location]] = []any{x, y, z}
}

func (r *Recorder) GenTexture() uint32 {
	t := r.id()
	r.record("GenTexture", t)
	r.Textures[t] = &Texture{Params: make(map[uint32]int32)}
	return t
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture", texture)
	delete(r.Textures, texture)
}

func (r *Recorder) ActiveTexture(unit uint32) { r.record("ActiveTexture", unit) }

func (r *Recorder) BindTexture(target, texture uint32) {
	r.record("BindTexture", target, texture)
	r.boundTex = texture
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", pname, param)
	if tex := r.Textures[r.boundTex]; tex != nil {
		tex.Params[pname] = param
	}
}

func (r *Recorder) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	r.record("TexImage2D", width, height)
	tex := r.Textures[r.boundTex]
	if tex == nil {
		return
	}
	tex.Width, tex.Height = width, height
	tex.Pixels = make([]byte, int(width)*int(height)*4)
	if pixels != nil {
		copy(tex.Pixels, unsafe.Slice((*byte)(pixels), len(tex.Pixels)))
	}
	tex.Uploads++
}

func (r *Recorder) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	r.record("TexSubImage2D", width, height)
	tex := r.Textures[r.boundTex]
	if tex == nil {
		return
	}
	copy(tex.Pixels, unsafe.Slice((*byte)(pixels), int(width)*int(height)*4))
	tex.Uploads++
}

func (r *Recorder) PixelStorei(pname uint32, param int32) { r.record("PixelStorei", pname, param) }

func (r *Recorder) Enable(capability uint32) { r.record("Enable", capability) }

func (r *Recorder) DepthFunc(fn uint32) { r.record("DepthFunc", fn) }

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) { r.record("ClearColor", cr, cg, cb, ca) }

func (r *Recorder) ClearDepth(depth float64) { r.record("ClearDepth", depth) }

func (r *Recorder) Clear(mask uint32) { r.record("Clear", mask) }

func (r *Recorder) Viewport(x, y, width, height int32) { r.record("Viewport", x, y, width, height) }

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	r.record("DrawElements", mode, count, xtype, offset, r.bound[gl.ELEMENT_ARRAY_BUFFER])
}

func (r *Recorder) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	r.record("ReadPixels", width, height)
	out := unsafe.Slice((*byte)(pixels), int(width)*int(height)*4)
	if r.FramePixel == nil {
		return
	}
	for py := 0; py < int(height); py++ {
		for px := 0; px < int(width); px++ {
			p := r.FramePixel(px, py)
			copy(out[(py*int(width)+px)*4:], p[:])
		}
	}
}
