// Package facemesh holds the face mesh data model: the fixed triangle
// topology, per-frame landmark samples and the vertex normal estimator.
package facemesh

import (
	"errors"
	"fmt"
)

// MaxIndexedVertices is the vertex limit imposed by 16-bit element indices.
const MaxIndexedVertices = 1 << 16

// DefaultVertexCount is the landmark count of the face model with irises.
const DefaultVertexCount = 478

// ErrInvalidTopology is returned when an index list cannot describe a mesh.
var ErrInvalidTopology = errors.New("invalid topology")

// Topology is the immutable triangle index list of the face mesh.
// Consecutive triples name the three vertices of one triangle.
type Topology struct {
	indices     []uint16
	vertexCount int
	maxIndex    int
}

// NewTopology validates indices against vertexCount and returns the table.
func NewTopology(indices []int, vertexCount int) (*Topology, error) {
	if vertexCount <= 0 || vertexCount > MaxIndexedVertices {
		return nil, fmt.Errorf("%w: vertex count %d outside [1, %d]", ErrInvalidTopology, vertexCount, MaxIndexedVertices)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrInvalidTopology)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidTopology, len(indices))
	}

	t := &Topology{
		indices:     make([]uint16, len(indices)),
		vertexCount: vertexCount,
	}
	for i, idx := range indices {
		if idx < 0 || idx >= vertexCount {
			return nil, fmt.Errorf("%w: index %d at position %d out of range [0, %d)", ErrInvalidTopology, idx, i, vertexCount)
		}
		t.indices[i] = uint16(idx)
		if idx > t.maxIndex {
			t.maxIndex = idx
		}
	}
	return t, nil
}

// Indices returns the shared index list. Callers must not modify it.
func (t *Topology) Indices() []uint16 {
	return t.indices
}

// IndexCount returns the number of indices (3 per triangle).
func (t *Topology) IndexCount() int {
	return len(t.indices)
}

// TriangleCount returns the number of triangles.
func (t *Topology) TriangleCount() int {
	return len(t.indices) / 3
}

// VertexCount returns the vertex count the table was validated against.
func (t *Topology) VertexCount() int {
	return t.vertexCount
}

// MaxIndex returns the largest vertex index referenced by any triangle.
func (t *Topology) MaxIndex() int {
	return t.maxIndex
}

// Triangle returns the vertex indices of triangle i.
func (t *Topology) Triangle(i int) (a, b, c int) {
	return int(t.indices[3*i]), int(t.indices[3*i+1]), int(t.indices[3*i+2])
}

// Unreferenced returns the vertex indices no triangle uses.
// Their normals stay zero.
func (t *Topology) Unreferenced() []int {
	used := make([]bool, t.vertexCount)
	for _, idx := range t.indices {
		used[idx] = true
	}
	var out []int
	for i, u := range used {
		if !u {
			out = append(out, i)
		}
	}
	return out
}
