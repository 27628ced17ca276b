// Package source provides the landmark and video frame inputs of the
// renderer: a websocket feed, JSONL recordings and still images.
package source

import (
	"image"

	"github.com/Faultbox/facelit/internal/facemesh"
)

// LandmarkSource returns the most recent detection. Latest never blocks.
type LandmarkSource interface {
	Latest() facemesh.Detection
}

// FrameSource returns the most recent video frame. Frame never blocks and
// never returns nil. Returned images must not be modified.
type FrameSource interface {
	Frame() *image.RGBA
}
