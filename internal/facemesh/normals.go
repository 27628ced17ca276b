package facemesh

import (
	"github.com/Faultbox/facelit/pkg/math"
)

// NormalEpsilon is the accumulated length below which a vertex normal is
// left as is instead of being normalized.
const NormalEpsilon = 1e-6

// ComputeNormals writes per-vertex normals for positions into out.
// Both slices use the flat xyz layout and must have the same length, and
// every topology index must address a vertex in positions.
//
// Face normals are the unnormalized cross products of two triangle edges, so
// each triangle contributes in proportion to its area. The sums are
// normalized once at the end.
func ComputeNormals(positions []float32, topo *Topology, out []float32) {
	clear(out)

	for i := 0; i < topo.TriangleCount(); i++ {
		i1, i2, i3 := topo.Triangle(i)
		v1 := math.Load(positions, i1)
		v2 := math.Load(positions, i2)
		v3 := math.Load(positions, i3)

		normal := v2.Sub(v1).Cross(v3.Sub(v1))

		normal.AddTo(out, i1)
		normal.AddTo(out, i2)
		normal.AddTo(out, i3)
	}

	for i := 0; i < len(out)/3; i++ {
		math.Load(out, i).NormalizeAbove(NormalEpsilon).Store(out, i)
	}
}

// Normals is the allocating form of ComputeNormals.
func Normals(positions []float32, topo *Topology) []float32 {
	out := make([]float32, len(positions))
	ComputeNormals(positions, topo, out)
	return out
}
