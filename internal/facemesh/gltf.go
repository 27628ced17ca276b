package facemesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// readGLTFIndices returns the indices of the first indexed triangle
// primitive in a glTF or GLB file.
func readGLTFIndices(path string) ([]int, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			if prim.Indices == nil {
				continue
			}
			raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
			}
			indices := make([]int, len(raw))
			for i, v := range raw {
				indices[i] = int(v)
			}
			return indices, nil
		}
	}
	return nil, fmt.Errorf("no indexed triangle primitive")
}

// WriteGLB saves one posed mesh as binary glTF. positions and normals use
// the flat xyz layout; normals may be nil.
func WriteGLB(path string, topo *Topology, positions, normals []float32) error {
	if len(positions)/3 <= topo.MaxIndex() {
		return fmt.Errorf("%d positions for a topology indexing vertex %d", len(positions)/3, topo.MaxIndex())
	}
	if normals != nil && len(normals) != len(positions) {
		return fmt.Errorf("normals length %d, positions length %d", len(normals), len(positions))
	}

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, triples(positions)),
	}
	if normals != nil {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, triples(normals))
	}
	indices := modeler.WriteIndices(doc, topo.Indices())

	doc.Meshes = []*gltf.Mesh{{
		Name: "face",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "face", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func triples(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}
