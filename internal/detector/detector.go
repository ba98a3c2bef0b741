package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detector is the Landmark Source: it turns one video frame into zero or more
// hands. Implementations must be safe to call from a single sampling goroutine.
type Detector interface {
	// Detect returns the hands found in frame, or an empty slice.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases the underlying model.
	Close() error
}

// Config tunes the hand landmark model.
type Config struct {
	MaxHands        int     // hands reported per frame
	MinConfidence   float64 // detection threshold in [0, 1]
	MinTrackingConf float64 // tracking threshold in [0, 1]
}

// DefaultConfig returns two hands at 0.5 confidence.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks the thresholds. A zero MaxHands is allowed and means the default.
func (c Config) Validate() error {
	if c.MaxHands < 0 {
		return fmt.Errorf("detector: max hands must not be negative, got %d", c.MaxHands)
	}
	for name, v := range map[string]float64{"detection": c.MinConfidence, "tracking": c.MinTrackingConf} {
		if v < 0 || v > 1 {
			return fmt.Errorf("detector: %s confidence %v outside [0, 1]", name, v)
		}
	}
	return nil
}
