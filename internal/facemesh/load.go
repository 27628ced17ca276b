package facemesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadTopology reads a triangle table from path, choosing the format by
// extension: .obj, .gltf/.glb, or .yaml/.yml/.json.
func LoadTopology(path string, vertexCount int) (*Topology, error) {
	var (
		indices []int
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		indices, err = ReadOBJIndices(f)
	case ".gltf", ".glb":
		indices, err = readGLTFIndices(path)
	case ".yaml", ".yml", ".json":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		var declared int
		indices, declared, err = readYAMLIndices(f)
		if err == nil && declared > 0 && declared != vertexCount {
			return nil, fmt.Errorf("%w: %s declares %d vertices, expected %d", ErrInvalidTopology, path, declared, vertexCount)
		}
	default:
		return nil, fmt.Errorf("topology %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("topology %s: %w", path, err)
	}

	topo, err := NewTopology(indices, vertexCount)
	if err != nil {
		return nil, fmt.Errorf("topology %s: %w", path, err)
	}
	return topo, nil
}
