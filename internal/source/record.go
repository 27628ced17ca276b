package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Faultbox/facelit/internal/facemesh"
)

// maxRecordLine bounds one JSONL entry. A full 478 point face is ~30KB.
const maxRecordLine = 4 << 20

// Recorder appends detections to a JSONL file, one per line.
type Recorder struct {
	mu  sync.Mutex
	f   *os.File
	w   *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewRecorder opens path for appending, creating it if needed.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	w := bufio.NewWriter(f)
	return &Recorder{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Record writes one detection and flushes it.
func (r *Recorder) Record(det facemesh.Detection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return os.ErrClosed
	}
	if err := r.enc.Encode(det); err != nil {
		return err
	}
	r.n++
	return r.w.Flush()
}

// Count returns the number of detections written.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.f = nil
	return err
}

// Replay is a LandmarkSource that plays back a recording. Every Latest call
// advances one entry and wraps at the end.
type Replay struct {
	mu      sync.Mutex
	entries []facemesh.Detection
	next    int
}

// NewReplay plays back the given detections.
func NewReplay(entries []facemesh.Detection) *Replay {
	return &Replay{entries: entries}
}

// LoadReplay reads a JSONL recording from path.
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	entries, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewReplay(entries), nil
}

// ReadRecording parses JSONL detections. Blank lines are skipped.
func ReadRecording(r io.Reader) ([]facemesh.Detection, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxRecordLine)

	var entries []facemesh.Detection
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		det, err := decodeDetection(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, det)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of recorded entries.
func (r *Replay) Len() int {
	return len(r.entries)
}

// Latest implements LandmarkSource. An empty recording never has a face.
func (r *Replay) Latest() facemesh.Detection {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return facemesh.Detection{}
	}
	det := r.entries[r.next]
	r.next = (r.next + 1) % len(r.entries)
	return det
}

// Entry returns entry i without advancing playback.
func (r *Replay) Entry(i int) (facemesh.Detection, bool) {
	if i < 0 || i >= len(r.entries) {
		return facemesh.Detection{}, false
	}
	return r.entries[i], true
}
