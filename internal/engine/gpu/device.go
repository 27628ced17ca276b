// Package gpu wraps the OpenGL calls the face renderer issues.
//
// Device mirrors gl one call at a time so the frame sequence can be run
// against a recording device in tests. It is not a portable graphics layer.
package gpu

import "unsafe"

// Device is the subset of OpenGL 4.1 core used by facelit.
// Enum arguments are the gl package constants.
type Device interface {
	// Buffers
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset, size int, data unsafe.Pointer)

	// Vertex arrays
	GenVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	// Shaders
	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)

	// Textures
	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	PixelStorei(pname uint32, param int32)

	// Frame state
	Enable(capability uint32)
	DepthFunc(fn uint32)
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float64)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
}
