// Package overlay draws the landmark wireframe over a 2-D video frame.
package overlay

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/Faultbox/facelit/internal/facemesh"
)

// Options controls what Render draws.
type Options struct {
	Wireframe   bool
	Keypoints   bool
	LineColor   color.Color
	PointColor  color.Color
	LineWidth   float64
	PointRadius float64
}

// DefaultOptions draws both the mesh and the keypoints.
func DefaultOptions() Options {
	return Options{
		Wireframe:   true,
		Keypoints:   true,
		LineColor:   color.RGBA{R: 0x32, G: 0xEE, B: 0xDB, A: 0xFF},
		PointColor:  color.RGBA{R: 0xFF, G: 0x2C, B: 0x35, A: 0xFF},
		LineWidth:   0.5,
		PointRadius: 1,
	}
}

// Render returns a copy of frame with face drawn over it. Triangles that
// reference keypoints the face does not have are skipped.
func Render(frame image.Image, face facemesh.Face, topo *facemesh.Topology, opts Options) image.Image {
	dc := gg.NewContextForImage(frame)
	kps := face.Keypoints

	if opts.Wireframe && topo != nil {
		dc.SetColor(opts.LineColor)
		dc.SetLineWidth(opts.LineWidth)
		for i := 0; i < topo.TriangleCount(); i++ {
			a, b, c := topo.Triangle(i)
			if a >= len(kps) || b >= len(kps) || c >= len(kps) {
				continue
			}
			dc.MoveTo(float64(kps[a].X), float64(kps[a].Y))
			dc.LineTo(float64(kps[b].X), float64(kps[b].Y))
			dc.LineTo(float64(kps[c].X), float64(kps[c].Y))
			dc.ClosePath()
		}
		dc.Stroke()
	}

	if opts.Keypoints {
		dc.SetColor(opts.PointColor)
		for _, k := range kps {
			dc.DrawCircle(float64(k.X), float64(k.Y), opts.PointRadius)
		}
		dc.Fill()
	}

	return dc.Image()
}
