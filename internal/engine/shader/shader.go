// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/facelit/internal/engine/gpu"
)

// Stage names the step of program construction that failed.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// Error is a shader compile or link failure. Log is the driver's info log,
// unmodified.
type Error struct {
	Stage Stage
	Log   string
}

func (e *Error) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("link: %s", e.Log)
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an *Error if compilation/linking fails.
func CompileProgram(dev gpu.Device, vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(dev, vertexSrc, gl.VERTEX_SHADER, StageVertex)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vertShader)

	fragShader, err := compileShader(dev, fragmentSrc, gl.FRAGMENT_SHADER, StageFragment)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fragShader)

	program := dev.CreateProgram()
	dev.AttachShader(program, vertShader)
	dev.AttachShader(program, fragShader)
	dev.LinkProgram(program)

	if !dev.ProgramLinked(program) {
		log := dev.ProgramInfoLog(program)
		dev.DeleteProgram(program)
		return 0, &Error{Stage: StageLink, Log: log}
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(dev gpu.Device, source string, shaderType uint32, stage Stage) (uint32, error) {
	shader := dev.CreateShader(shaderType)
	dev.ShaderSource(shader, source)
	dev.CompileShader(shader)

	if !dev.ShaderCompiled(shader) {
		log := dev.ShaderInfoLog(shader)
		dev.DeleteShader(shader)
		return 0, &Error{Stage: stage, Log: log}
	}

	return shader, nil
}

// AttribLocation returns the attribute location for the given name or an
// error if the attribute is not active in the program.
func AttribLocation(dev gpu.Device, program uint32, name string) (uint32, error) {
	loc := dev.AttribLocation(program, name)
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found in program %d", name, program)
	}
	return uint32(loc), nil
}
