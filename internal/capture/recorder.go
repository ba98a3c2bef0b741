package capture

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Recording container details. Clips are raw Motion-JPEG: concatenated JPEG
// images, playable with e.g. `ffplay -f mjpeg`.
const (
	ClipMimeType = "video/x-motion-jpeg"
	ClipFileExt  = ".mjpeg"
)

// ErrRecordingUnsupported is returned when JPEG encoding is unavailable.
var ErrRecordingUnsupported = errors.New("recording not supported")

// Clip is a finished recording flushed into a single downloadable object.
type Clip struct {
	MimeType  string
	Data      []byte
	Frames    int
	StartedAt time.Time
	StoppedAt time.Time
}

// Recorder buffers encoded frames in memory while started.
type Recorder struct {
	mu        sync.Mutex
	supported bool
	recording bool
	chunks    [][]byte
	size      int
	startedAt time.Time
}

// NewRecorder creates a Recorder, probing whether frames can be encoded.
func NewRecorder() *Recorder {
	return &Recorder{supported: probeEncoder()}
}

func probeEncoder() bool {
	mat := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return false
	}
	buf.Close()
	return true
}

// Supported reports whether this recorder can record.
func (r *Recorder) Supported() bool {
	return r.supported
}

// Start begins a new recording, discarding any unflushed chunks.
func (r *Recorder) Start() error {
	if !r.supported {
		return ErrRecordingUnsupported
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.recording = true
	r.chunks = nil
	r.size = 0
	r.startedAt = time.Now()
	return nil
}

// Write appends frame to the recording as one chunk. It is a no-op when
// the recorder is stopped. Returns the encoded chunk size.
func (r *Recorder) Write(frame *gocv.Mat) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || frame == nil || frame.Empty() {
		return 0, nil
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return 0, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	chunk := append([]byte(nil), buf.GetBytes()...)
	if len(chunk) == 0 {
		return 0, nil
	}

	r.chunks = append(r.chunks, chunk)
	r.size += len(chunk)
	return len(chunk), nil
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Stop ends the recording and returns the flushed clip.
// Returns nil if no recording was in progress.
func (r *Recorder) Stop() *Clip {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	r.recording = false

	data := bytes.NewBuffer(make([]byte, 0, r.size))
	for _, chunk := range r.chunks {
		data.Write(chunk)
	}

	clip := &Clip{
		MimeType:  ClipMimeType,
		Data:      data.Bytes(),
		Frames:    len(r.chunks),
		StartedAt: r.startedAt,
		StoppedAt: time.Now(),
	}

	r.chunks = nil
	r.size = 0
	return clip
}
