package source

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/Faultbox/facelit/internal/facemesh"
)

var errEmptyMessage = errors.New("empty message")

// decodeDetection accepts {"faces":[...]} or the bare face array the
// detector's estimateFaces returns.
func decodeDetection(data []byte) (facemesh.Detection, error) {
	var det facemesh.Detection

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return det, errEmptyMessage
	}
	if data[0] == '[' {
		err := json.Unmarshal(data, &det.Faces)
		return det, err
	}
	err := json.Unmarshal(data, &det)
	return det, err
}
