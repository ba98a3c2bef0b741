package transcribe

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/observability"
)

// SamplerConfig wires a Sampler to its collaborators. Overlay and Recorder
// are optional.
type SamplerConfig struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Latest    *Latest
	Overlay   *capture.Overlay
	Recorder  *capture.Recorder
	FrameRate int
}

// Sampler detects hands in every camera frame and publishes the result.
type Sampler struct {
	camera   capture.Camera
	detector detector.Detector
	latest   *Latest
	overlay  *capture.Overlay
	recorder *capture.Recorder
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewSampler creates a Sampler. A non-positive frame rate uses capture.DefaultFPS.
func NewSampler(cfg SamplerConfig) *Sampler {
	fps := cfg.FrameRate
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return &Sampler{
		camera:   cfg.Camera,
		detector: cfg.Detector,
		latest:   cfg.Latest,
		overlay:  cfg.Overlay,
		recorder: cfg.Recorder,
		interval: time.Second / time.Duration(fps),
		log:      observability.Component("sampler"),
		now:      time.Now,
	}
}

// Run samples frames until ctx is done. Without a detector it returns at once.
func (s *Sampler) Run(ctx context.Context) {
	if s.detector == nil || s.camera == nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick processes one frame. It reports whether a detection was published.
func (s *Sampler) tick() bool {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		// Not presenting frames yet; try again next tick.
		if !errors.Is(err, capture.ErrFrameNotReady) {
			s.log.Debug().Err(err).Msg("Frame read failed")
		}
		return false
	}
	defer frame.Close()

	if s.recorder != nil {
		if n, err := s.recorder.Write(frame); err != nil {
			s.log.Warn().Err(err).Msg("Recording frame failed")
		} else if n > 0 {
			observability.RecordRecordedBytes(n)
		}
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		observability.RecordDetectionError()
		s.log.Debug().Err(err).Msg("Hand detection failed")
		s.render(frame, nil)
		return false
	}

	observability.RecordFrame()
	s.latest.Store(&detector.Frame{
		Hands:       hands,
		TimestampMs: s.now().UnixMilli(),
	})
	s.render(frame, hands)
	return true
}

func (s *Sampler) render(frame *gocv.Mat, hands []detector.HandLandmarks) {
	if s.overlay == nil {
		return
	}
	if err := s.overlay.Render(frame, hands); err != nil {
		s.log.Debug().Err(err).Msg("Overlay render failed")
	}
}
