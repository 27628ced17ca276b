// Package scene renders the lit, video-textured face mesh.
package scene

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/engine/gpu"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/logger"
)

// ErrCapacity is returned when a frame carries more vertices than the
// geometry buffers were sized for.
var ErrCapacity = errors.New("vertex data exceeds buffer capacity")

// Geometry owns the GPU buffers of the face mesh: streaming position and
// normal buffers of fixed capacity, and the index buffer, which is written
// once.
type Geometry struct {
	dev gpu.Device

	vao         uint32
	positionVBO uint32
	normalVBO   uint32
	ebo         uint32

	capacity   int // floats per vertex buffer
	indexCount int32
}

// NewGeometry allocates buffers for maxVertices vertices and uploads the
// topology as 16-bit indices.
func NewGeometry(dev gpu.Device, topo *facemesh.Topology, maxVertices int) (*Geometry, error) {
	if maxVertices <= 0 || maxVertices > facemesh.MaxIndexedVertices {
		return nil, fmt.Errorf("max vertices %d outside [1, %d]", maxVertices, facemesh.MaxIndexedVertices)
	}
	if topo.MaxIndex() >= maxVertices {
		return nil, fmt.Errorf("topology references vertex %d, buffers hold %d", topo.MaxIndex(), maxVertices)
	}

	g := &Geometry{
		dev:        dev,
		capacity:   maxVertices * 3,
		indexCount: int32(topo.IndexCount()),
	}
	size := g.capacity * 4

	g.vao = dev.GenVertexArray()
	dev.BindVertexArray(g.vao)

	g.positionVBO = dev.GenBuffer()
	dev.BindBuffer(gl.ARRAY_BUFFER, g.positionVBO)
	dev.BufferData(gl.ARRAY_BUFFER, size, nil, gl.STREAM_DRAW)

	g.normalVBO = dev.GenBuffer()
	dev.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
	dev.BufferData(gl.ARRAY_BUFFER, size, nil, gl.STREAM_DRAW)

	indices := topo.Indices()
	g.ebo = dev.GenBuffer()
	dev.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	dev.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	dev.BindBuffer(gl.ARRAY_BUFFER, 0)
	dev.BindVertexArray(0)

	logger.Debug("face geometry created",
		zap.Uint32("vao", g.vao),
		zap.Int("maxVertices", maxVertices),
		zap.Int("triangles", topo.TriangleCount()),
	)
	return g, nil
}

// Update overwrites the start of the position and normal buffers. Capacity
// is never changed. Data beyond capacity is rejected without writing.
func (g *Geometry) Update(positions, normals []float32) error {
	if len(positions) != len(normals) {
		return fmt.Errorf("positions (%d floats) and normals (%d floats) differ in length", len(positions), len(normals))
	}
	if len(positions) > g.capacity {
		return fmt.Errorf("%w: %d floats, capacity %d", ErrCapacity, len(positions), g.capacity)
	}
	if len(positions) == 0 {
		return nil
	}

	g.dev.BindBuffer(gl.ARRAY_BUFFER, g.positionVBO)
	g.dev.BufferSubData(gl.ARRAY_BUFFER, 0, len(positions)*4, unsafe.Pointer(&positions[0]))

	g.dev.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
	g.dev.BufferSubData(gl.ARRAY_BUFFER, 0, len(normals)*4, unsafe.Pointer(&normals[0]))
	return nil
}

// Capacity returns the number of vertices each buffer holds.
func (g *Geometry) Capacity() int {
	return g.capacity / 3
}

// IndexCount returns the number of indices drawn per frame.
func (g *Geometry) IndexCount() int32 {
	return g.indexCount
}

// bind binds the vertex array, the index buffer and both attribute buffers.
func (g *Geometry) bind(positionLoc, normalLoc uint32) {
	g.dev.BindVertexArray(g.vao)
	g.dev.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)

	g.dev.BindBuffer(gl.ARRAY_BUFFER, g.positionVBO)
	g.dev.EnableVertexAttribArray(positionLoc)
	g.dev.VertexAttribPointer(positionLoc, 3, gl.FLOAT, false, 0, 0)

	g.dev.BindBuffer(gl.ARRAY_BUFFER, g.normalVBO)
	g.dev.EnableVertexAttribArray(normalLoc)
	g.dev.VertexAttribPointer(normalLoc, 3, gl.FLOAT, false, 0, 0)
}

// Close releases the buffers.
func (g *Geometry) Close() {
	for _, b := range []uint32{g.positionVBO, g.normalVBO, g.ebo} {
		if b != 0 {
			g.dev.DeleteBuffer(b)
		}
	}
	if g.vao != 0 {
		g.dev.DeleteVertexArray(g.vao)
	}
	g.positionVBO, g.normalVBO, g.ebo, g.vao = 0, 0, 0, 0
}
