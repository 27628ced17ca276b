package facemesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadOBJIndices reads the face connectivity of a Wavefront OBJ stream as
// 0-based triangle indices. Polygons are fan-triangulated. Vertex positions
// are only counted, to resolve negative (relative) references.
func ReadOBJIndices(r io.Reader) ([]int, error) {
	var (
		indices  []int
		vertices int
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			vertices++
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", lineNo, len(fields)-1)
			}
			face := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseOBJRef(ref, vertices)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				indices = append(indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return indices, nil
}

// parseOBJRef parses "v", "v/t", "v//n" or "v/t/n" and returns the 0-based
// vertex index.
func parseOBJRef(ref string, vertices int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if vertices+n < 0 {
			return 0, fmt.Errorf("relative reference %d before first vertex", n)
		}
		return vertices + n, nil
	default:
		return 0, fmt.Errorf("vertex reference 0")
	}
}
