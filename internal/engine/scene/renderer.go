package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/engine/gpu"
	"github.com/Faultbox/facelit/internal/engine/scene/shaders"
	"github.com/Faultbox/facelit/internal/engine/shader"
	"github.com/Faultbox/facelit/internal/engine/texture"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/logger"
)

// videoUnit is the texture unit the camera frame is bound to.
const videoUnit = 0

// Config holds face renderer configuration.
type Config struct {
	FrameWidth  int // video frame size the landmarks are expressed in
	FrameHeight int
	MaxVertices int

	// Shader sources; empty means the embedded face shaders.
	VertexShader   string
	FragmentShader string
}

// Renderer draws the face mesh with the video frame as its texture.
type Renderer struct {
	dev gpu.Device

	program uint32

	// Attribute locations
	locPosition uint32
	locNormal   uint32

	// Uniform locations
	locVideo     int32
	locLightPos  int32
	locFrameSize int32

	geometry *Geometry
	video    *texture.VideoTexture

	frameWidth, frameHeight float32
}

// NewRenderer compiles the face program and allocates the mesh buffers.
// A shader compile or link failure is returned as a *shader.Error and no
// GPU buffers are created.
func NewRenderer(dev gpu.Device, topo *facemesh.Topology, cfg Config) (*Renderer, error) {
	if cfg.FrameWidth <= 0 || cfg.FrameHeight <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.FrameWidth, cfg.FrameHeight)
	}
	vs, fs := cfg.VertexShader, cfg.FragmentShader
	if vs == "" {
		vs = shaders.FaceVertexShader
	}
	if fs == "" {
		fs = shaders.FaceFragmentShader
	}

	program, err := shader.CompileProgram(dev, vs, fs)
	if err != nil {
		return nil, fmt.Errorf("face shader: %w", err)
	}

	r := &Renderer{
		dev:          dev,
		program:      program,
		locVideo:     dev.UniformLocation(program, "uVideo"),
		locLightPos:  dev.UniformLocation(program, "uLightPos"),
		locFrameSize: dev.UniformLocation(program, "uFrameSize"),
		frameWidth:   float32(cfg.FrameWidth),
		frameHeight:  float32(cfg.FrameHeight),
	}

	if r.locPosition, err = shader.AttribLocation(dev, program, "aPosition"); err != nil {
		dev.DeleteProgram(program)
		return nil, err
	}
	if r.locNormal, err = shader.AttribLocation(dev, program, "aNormal"); err != nil {
		dev.DeleteProgram(program)
		return nil, err
	}

	if r.geometry, err = NewGeometry(dev, topo, cfg.MaxVertices); err != nil {
		dev.DeleteProgram(program)
		return nil, fmt.Errorf("face geometry: %w", err)
	}
	r.video = texture.NewVideoTexture(dev)

	logger.Debug("face renderer created",
		zap.Uint32("program", program),
		zap.Float32("frameWidth", r.frameWidth),
		zap.Float32("frameHeight", r.frameHeight),
	)
	return r, nil
}

// UpdateGeometry replaces the resident vertex positions and normals.
func (r *Renderer) UpdateGeometry(positions, normals []float32) error {
	return r.geometry.Update(positions, normals)
}

// Capacity returns the number of vertices the geometry buffers hold.
func (r *Renderer) Capacity() int {
	return r.geometry.Capacity()
}

// Draw renders one frame: the resident mesh, textured with frame and lit
// from light. The call order is fixed.
func (r *Renderer) Draw(frame *image.RGBA, light [3]float32) {
	d := r.dev

	d.Enable(gl.DEPTH_TEST)
	d.DepthFunc(gl.LEQUAL)

	d.ClearColor(0, 0, 0, 1)
	d.ClearDepth(1)
	d.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	d.UseProgram(r.program)

	r.geometry.bind(r.locPosition, r.locNormal)

	if frame != nil {
		r.video.Upload(videoUnit, frame)
	}
	d.Uniform1i(r.locVideo, videoUnit)

	d.Uniform3f(r.locLightPos, light[0], light[1], light[2])
	d.Uniform2f(r.locFrameSize, r.frameWidth, r.frameHeight)

	d.DrawElements(gl.TRIANGLES, r.geometry.IndexCount(), gl.UNSIGNED_SHORT, 0)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.dev.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.video != nil {
		r.video.Close()
	}
	if r.geometry != nil {
		r.geometry.Close()
	}
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
		r.program = 0
	}
}
