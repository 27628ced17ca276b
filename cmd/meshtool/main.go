// meshtool is a CLI utility for inspecting face mesh topologies and
// landmark recordings.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/facelit/internal/engine/debug"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/overlay"
	"github.com/Faultbox/facelit/internal/source"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "normals":
		err = cmdNormals(args)
	case "overlay":
		err = cmdOverlay(args)
	case "export":
		err = cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - face mesh topology and landmark utility

Usage:
  meshtool <command> [options] <args>

Commands:
  info    [-vertices n] <topology>                      Show topology statistics
  normals [-frame n] <topology> <rec.jsonl>             Print vertex normals of a recorded face
  overlay [-frame n] [-image bg] <topology> <rec.jsonl> <out.png|out.webp>
                                                        Draw the wireframe over a frame
  export  [-rec rec.jsonl] [-frame n] <topology> <out.yaml|out.glb>
                                                        Convert a topology; .glb needs -rec

Topologies are .obj, .gltf, .glb or .yaml files.

Examples:
  meshtool info canonical_face_model.obj
  meshtool normals -frame 10 canonical_face_model.obj session.jsonl
  meshtool overlay -image face.jpg canonical_face_model.obj session.jsonl out.png
  meshtool export canonical_face_model.obj triangulation.yaml`)
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	vertices := fs.Int("vertices", facemesh.DefaultVertexCount, "Vertex count to validate against")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return usageError("meshtool info [-vertices n] <topology>")
	}
	topo, err := facemesh.LoadTopology(fs.Arg(0), *vertices)
	if err != nil {
		return err
	}

	degenerate := 0
	for i := 0; i < topo.TriangleCount(); i++ {
		a, b, c := topo.Triangle(i)
		if a == b || b == c || a == c {
			degenerate++
		}
	}
	unused := topo.Unreferenced()

	fmt.Printf("Topology:     %s\n", fs.Arg(0))
	fmt.Printf("Triangles:    %d\n", topo.TriangleCount())
	fmt.Printf("Indices:      %d\n", topo.IndexCount())
	fmt.Printf("Vertices:     %d (max index %d)\n", topo.VertexCount(), topo.MaxIndex())
	fmt.Printf("Unreferenced: %d\n", len(unused))
	fmt.Printf("Degenerate:   %d\n", degenerate)
	return nil
}

func cmdNormals(args []string) error {
	fs := flag.NewFlagSet("normals", flag.ExitOnError)
	frame := fs.Int("frame", 0, "Recording entry to use")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return usageError("meshtool normals [-frame n] <topology> <rec.jsonl>")
	}
	topo, face, err := loadFace(fs.Arg(0), fs.Arg(1), *frame)
	if err != nil {
		return err
	}

	normals := facemesh.Normals(face.Flatten(nil), topo)
	for i := 0; i < len(normals)/3; i++ {
		fmt.Printf("%4d  % .6f % .6f % .6f\n", i, normals[3*i], normals[3*i+1], normals[3*i+2])
	}
	return nil
}

func cmdOverlay(args []string) error {
	fs := flag.NewFlagSet("overlay", flag.ExitOnError)
	frame := fs.Int("frame", 0, "Recording entry to use")
	background := fs.String("image", "", "Background image (default black)")
	width := fs.Int("width", 640, "Video frame width")
	height := fs.Int("height", 480, "Video frame height")
	points := fs.Bool("points", true, "Draw keypoints")
	fs.Parse(args)

	if fs.NArg() < 3 {
		return usageError("meshtool overlay [-frame n] [-image bg] <topology> <rec.jsonl> <out.png|out.webp>")
	}
	topo, face, err := loadFace(fs.Arg(0), fs.Arg(1), *frame)
	if err != nil {
		return err
	}

	bg := source.BlankFrame(*width, *height)
	if *background != "" {
		if bg, err = source.LoadStillFrame(*background, *width, *height); err != nil {
			return err
		}
	}

	opts := overlay.DefaultOptions()
	opts.Keypoints = *points
	out := overlay.Render(bg.Frame(), face, topo, opts)

	if err := debug.WriteImage(fs.Arg(2), out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", fs.Arg(2))
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	rec := fs.String("rec", "", "Recording that supplies vertex positions (.glb only)")
	frame := fs.Int("frame", 0, "Recording entry to use")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return usageError("meshtool export [-rec rec.jsonl] [-frame n] <topology> <out.yaml|out.glb>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".yaml", ".yml":
		topo, err := facemesh.LoadTopology(in, facemesh.DefaultVertexCount)
		if err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := topo.WriteYAML(f); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".glb":
		if *rec == "" {
			return fmt.Errorf("exporting %s needs -rec for vertex positions", out)
		}
		topo, face, err := loadFace(in, *rec, *frame)
		if err != nil {
			return err
		}
		positions := face.Flatten(nil)
		if err := facemesh.WriteGLB(out, topo, positions, facemesh.Normals(positions, topo)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}

// loadFace loads a topology sized to the recorded face at entry frame.
func loadFace(topoPath, recPath string, frame int) (*facemesh.Topology, facemesh.Face, error) {
	replay, err := source.LoadReplay(recPath)
	if err != nil {
		return nil, facemesh.Face{}, err
	}
	det, ok := replay.Entry(frame)
	if !ok {
		return nil, facemesh.Face{}, fmt.Errorf("frame %d out of range, recording has %d entries", frame, replay.Len())
	}
	face, ok := det.Primary()
	if !ok {
		return nil, facemesh.Face{}, fmt.Errorf("frame %d has no face", frame)
	}

	topo, err := facemesh.LoadTopology(topoPath, face.Len())
	if err != nil {
		return nil, facemesh.Face{}, err
	}
	return topo, face, nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
