package app

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/engine/lighting"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/logger"
	"github.com/Faultbox/facelit/internal/source"
)

// Scene is the GPU side of a frame. *scene.Renderer implements it.
type Scene interface {
	UpdateGeometry(positions, normals []float32) error
	Capacity() int
	Draw(frame *image.RGBA, light [3]float32)
}

// Driver turns the latest detection and video frame into one drawn frame.
type Driver struct {
	landmarks source.LandmarkSource
	frames    source.FrameSource
	scene     Scene
	topo      *facemesh.Topology
	orbit     lighting.Orbit

	positions []float32
	normals   []float32

	warned  map[int]bool
	updates uint64
	skipped uint64
}

// NewDriver creates a driver.
func NewDriver(landmarks source.LandmarkSource, frames source.FrameSource, scene Scene, topo *facemesh.Topology, orbit lighting.Orbit) *Driver {
	return &Driver{
		landmarks: landmarks,
		frames:    frames,
		scene:     scene,
		topo:      topo,
		orbit:     orbit,
		warned:    make(map[int]bool),
	}
}

// RenderFrame draws one frame at elapsed time since start.
//
// When the latest detection has a usable face the mesh geometry is replaced.
// Otherwise the previous pose stays resident and only the video texture and
// light move.
func (d *Driver) RenderFrame(elapsed time.Duration) error {
	if face, ok := d.landmarks.Latest().Primary(); ok {
		if err := d.updateGeometry(face); err != nil {
			return err
		}
	}

	d.scene.Draw(d.frames.Frame(), d.orbit.Position(elapsed))
	return nil
}

func (d *Driver) updateGeometry(face facemesh.Face) error {
	n := face.Len()
	if n <= d.topo.MaxIndex() || n > d.scene.Capacity() {
		d.skipped++
		if !d.warned[n] {
			d.warned[n] = true
			logger.Warn("skipping face with unusable landmark count",
				zap.Int("keypoints", n),
				zap.Int("required", d.topo.MaxIndex()+1),
				zap.Int("capacity", d.scene.Capacity()),
			)
		}
		return nil
	}

	d.positions = face.Flatten(d.positions)
	if cap(d.normals) < len(d.positions) {
		d.normals = make([]float32, len(d.positions))
	}
	d.normals = d.normals[:len(d.positions)]
	facemesh.ComputeNormals(d.positions, d.topo, d.normals)

	if err := d.scene.UpdateGeometry(d.positions, d.normals); err != nil {
		return fmt.Errorf("updating face geometry: %w", err)
	}
	d.updates++
	return nil
}

// Stats returns how many detections updated the mesh and how many were
// skipped for a bad landmark count.
func (d *Driver) Stats() (updates, skipped uint64) {
	return d.updates, d.skipped
}
