// Package transcribe runs the two periodic loops of a transcription session:
// the frame sampler, which keeps the most recent hand landmarks, and the
// cycle controller, which sends them to the interpreter on a fixed cadence.
package transcribe

import (
	"sync/atomic"

	"github.com/ayusman/mudra/internal/detector"
)

// Latest holds the most recent landmark frame. Each Store supersedes the
// previous frame; stored frames must not be modified afterwards.
type Latest struct {
	frame atomic.Pointer[detector.Frame]
}

// Store publishes f as the latest frame.
func (l *Latest) Store(f *detector.Frame) {
	l.frame.Store(f)
}

// Load returns the latest frame, or nil if none has been stored.
func (l *Latest) Load() *detector.Frame {
	return l.frame.Load()
}

// Reset discards the latest frame.
func (l *Latest) Reset() {
	l.frame.Store(nil)
}
