package facemesh

import "time"

// Keypoint is one landmark in video pixel space. Z uses the same scale as X.
type Keypoint struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Z    float32 `json:"z"`
	Name string  `json:"name,omitempty"`
}

// Face is the ordered keypoint list of one detected face. Index i is always
// the i-th face landmark.
type Face struct {
	Keypoints []Keypoint `json:"keypoints"`
}

// Flatten appends the keypoints to dst[:0] in xyz layout and returns it.
func (f Face) Flatten(dst []float32) []float32 {
	dst = dst[:0]
	for _, k := range f.Keypoints {
		dst = append(dst, k.X, k.Y, k.Z)
	}
	return dst
}

// Len returns the number of keypoints.
func (f Face) Len() int {
	return len(f.Keypoints)
}

// Detection is one detector result. Zero faces is a normal outcome.
type Detection struct {
	Faces     []Face    `json:"faces"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Primary returns the face that gets rendered.
func (d Detection) Primary() (Face, bool) {
	if len(d.Faces) == 0 {
		return Face{}, false
	}
	return d.Faces[0], true
}
