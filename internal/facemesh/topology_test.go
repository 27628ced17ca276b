package facemesh

import (
	"errors"
	"testing"
)

func TestNewTopology(t *testing.T) {
	tests := []struct {
		name        string
		indices     []int
		vertexCount int
		wantErr     bool
	}{
		{"single triangle", []int{0, 1, 2}, 3, false},
		{"quad", []int{0, 1, 2, 0, 2, 3}, 4, false},
		{"empty", nil, 3, true},
		{"not triples", []int{0, 1, 2, 1}, 3, true},
		{"index out of range", []int{0, 1, 3}, 3, true},
		{"negative index", []int{0, -1, 2}, 3, true},
		{"zero vertices", []int{0, 0, 0}, 0, true},
		{"above 16-bit", []int{0, 1, 2}, MaxIndexedVertices + 1, true},
		{"exactly 16-bit", []int{0, 1, MaxIndexedVertices - 1}, MaxIndexedVertices, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, err := NewTopology(tt.indices, tt.vertexCount)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidTopology) {
					t.Errorf("error %v does not wrap ErrInvalidTopology", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if topo.IndexCount() != len(tt.indices) {
				t.Errorf("IndexCount = %d, want %d", topo.IndexCount(), len(tt.indices))
			}
			if topo.TriangleCount() != len(tt.indices)/3 {
				t.Errorf("TriangleCount = %d, want %d", topo.TriangleCount(), len(tt.indices)/3)
			}
		})
	}
}

func TestTopologyAccessors(t *testing.T) {
	topo, err := NewTopology([]int{0, 1, 2, 0, 2, 3}, 6)
	if err != nil {
		t.Fatalf("NewTopology: %v", err)
	}

	if topo.MaxIndex() != 3 {
		t.Errorf("MaxIndex = %d, want 3", topo.MaxIndex())
	}
	if topo.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", topo.VertexCount())
	}

	a, b, c := topo.Triangle(1)
	if a != 0 || b != 2 || c != 3 {
		t.Errorf("Triangle(1) = (%d, %d, %d), want (0, 2, 3)", a, b, c)
	}

	unused := topo.Unreferenced()
	if len(unused) != 2 || unused[0] != 4 || unused[1] != 5 {
		t.Errorf("Unreferenced = %v, want [4 5]", unused)
	}
}
