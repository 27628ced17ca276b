package facemesh

import (
	"io"

	"gopkg.in/yaml.v3"
)

// topologyFile is the YAML (and JSON) layout of an exported triangle table.
type topologyFile struct {
	VertexCount int   `yaml:"vertex_count"`
	Indices     []int `yaml:"indices,flow"`
}

func readYAMLIndices(r io.Reader) ([]int, int, error) {
	var tf topologyFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, 0, err
	}
	return tf.Indices, tf.VertexCount, nil
}

// WriteYAML exports the table in the format LoadTopology reads back.
func (t *Topology) WriteYAML(w io.Writer) error {
	tf := topologyFile{
		VertexCount: t.vertexCount,
		Indices:     make([]int, len(t.indices)),
	}
	for i, idx := range t.indices {
		tf.Indices[i] = int(idx)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&tf)
}
