// Package app provides the session and camera lifecycle for mudra: it starts
// and stops the camera, recording, and the two transcription loops, and
// exposes the controls the user drives.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/interpreter"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transcribe"
)

// User-facing messages for startup failures.
const (
	MsgCameraDenied = "Camera access was denied. Please allow camera access in your system settings."
	MsgCameraFailed = "Could not access camera. Please check permissions."
	MsgModelFailed  = "Failed to load hand landmark model. The detector may be unavailable or misconfigured."
)

// TranscriptHeader starts every downloaded transcript.
const TranscriptHeader = "Transcription:\n"

var (
	// ErrBusy is returned when the session is loading or starting.
	ErrBusy = errors.New("session is busy")
	// ErrModelUnavailable is returned when no hand detector could be loaded.
	ErrModelUnavailable = errors.New("hand landmark model unavailable")
	// ErrInvalidInterval is returned for a polling interval outside the slider range.
	ErrInvalidInterval = config.ErrInvalidInterval
	// ErrNoRecording is returned when no recording is available for download.
	ErrNoRecording = errors.New("no recording available")
)

// DetectorLoader creates the hand detector. It is called by LoadModel.
type DetectorLoader func() (detector.Detector, error)

// Config holds the collaborators and settings for an App.
type Config struct {
	Camera             capture.Camera
	LoadDetector       DetectorLoader
	Interpreter        interpreter.Interpreter
	Store              *store.Store
	FrameRate          int
	Interval           time.Duration
	InterpreterTimeout time.Duration
	Recording          bool
}

// Snapshot is the state shown to the user.
type Snapshot struct {
	session.State
	IntervalMs         int64  `json:"interval_ms"`
	ToggleLabel        string `json:"toggle_label"`
	RecordingSupported bool   `json:"recording_supported"`
}

// App owns one transcription session.
type App struct {
	config     Config
	camera     capture.Camera
	store      *store.Store
	session    *session.Session
	latest     *transcribe.Latest
	overlay    *capture.Overlay
	recorder   *capture.Recorder
	controller *transcribe.Controller

	// mu serializes lifecycle operations.
	mu       sync.Mutex
	detector detector.Detector
	cancel   context.CancelFunc
	loops    sync.WaitGroup

	unsubscribe func()
	journalDone chan struct{}
	closeOnce   sync.Once

	log zerolog.Logger
}

// New creates an App in the loading_model status. Call LoadModel next.
// Without a Store a private in-memory one is created.
func New(cfg Config) (*App, error) {
	if cfg.Camera == nil {
		return nil, fmt.Errorf("app: camera is required")
	}
	if cfg.Interpreter == nil {
		return nil, fmt.Errorf("app: interpreter is required")
	}
	if cfg.Interval == 0 {
		cfg.Interval = transcribe.DefaultInterval
	}
	if err := config.ValidateInterval(cfg.Interval); err != nil {
		return nil, err
	}

	st := cfg.Store
	if st == nil {
		var err error
		if st, err = store.NewMemory(); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	sess := session.New(session.StatusLoadingModel)
	latest := &transcribe.Latest{}

	a := &App{
		config:   cfg,
		camera:   cfg.Camera,
		store:    st,
		session:  sess,
		latest:   latest,
		overlay:  capture.NewOverlay(),
		recorder: capture.NewRecorder(),
		controller: transcribe.NewController(transcribe.ControllerConfig{
			Interpreter: cfg.Interpreter,
			Session:     sess,
			Latest:      latest,
			Interval:    cfg.Interval,
			Timeout:     cfg.InterpreterTimeout,
		}),
		log: observability.Component("app"),
	}
	a.startJournal()
	return a, nil
}

// LoadModel loads the hand detector. On failure the status becomes error
// with a persistent message and starting is blocked until a retry succeeds.
func (a *App) LoadModel() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session.Status() != session.StatusLoadingModel {
		if _, err := a.session.Apply(session.EventLoad); err != nil {
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
	}

	if a.config.LoadDetector == nil {
		a.session.Fail(MsgModelFailed)
		return ErrModelUnavailable
	}

	det, err := a.config.LoadDetector()
	if err != nil {
		a.log.Error().Err(err).Msg("Hand landmark model failed to load")
		a.session.Fail(MsgModelFailed)
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if a.detector != nil && a.detector != det {
		_ = a.detector.Close()
	}
	a.detector = det
	if _, err := a.session.Apply(session.EventLoaded); err != nil {
		return err
	}
	a.log.Info().Msg("Hand landmark model loaded")
	return nil
}

// Toggle starts transcription when stopped and stops it when running.
// It returns the resulting status.
func (a *App) Toggle(ctx context.Context) (session.Status, error) {
	switch a.session.Status() {
	case session.StatusTranscribing, session.StatusStartingCamera:
		a.Stop()
	default:
		if err := a.Start(ctx); err != nil {
			return a.session.Status(), err
		}
	}
	return a.session.Status(), nil
}

// Clear empties the sentence and removes the downloadable video. It is
// allowed in any status.
func (a *App) Clear() error {
	a.session.ClearSentence()
	a.session.SetVideo("")
	if err := a.store.Reset(); err != nil {
		return fmt.Errorf("clear artefacts: %w", err)
	}
	return nil
}

// SetInterval changes the polling interval. A running session picks it up
// immediately.
func (a *App) SetInterval(d time.Duration) error {
	if err := config.ValidateInterval(d); err != nil {
		return err
	}
	a.controller.SetInterval(d)
	a.log.Info().Dur("interval", d).Msg("Polling interval changed")
	return nil
}

// Interval returns the polling interval.
func (a *App) Interval() time.Duration {
	return a.controller.Interval()
}

// Transcript returns the downloadable transcript text.
func (a *App) Transcript() string {
	return TranscriptHeader + a.session.Sentence()
}

// Recording returns the downloadable video of the last stopped session.
func (a *App) Recording() (*store.Recording, error) {
	id := a.session.Snapshot().VideoID
	if id == "" {
		return nil, ErrNoRecording
	}
	rec, err := a.store.Recordings().Get(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoRecording
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Recordings lists the clips saved this session, newest first, without data.
func (a *App) Recordings() ([]store.Recording, error) {
	return a.store.Recordings().List()
}

// Revisions returns the accepted sentences of the current transcript.
func (a *App) Revisions() ([]store.Revision, error) {
	return a.store.Revisions().List()
}

// Snapshot returns the current user-visible state.
func (a *App) Snapshot() Snapshot {
	st := a.session.Snapshot()
	return Snapshot{
		State:              st,
		IntervalMs:         a.Interval().Milliseconds(),
		ToggleLabel:        st.Status.ToggleLabel(),
		RecordingSupported: a.config.Recording && a.recorder.Supported(),
	}
}

// Subscribe registers for session changes.
func (a *App) Subscribe() (<-chan session.Change, func()) {
	return a.session.Subscribe()
}

// Latest returns the most recent landmark frame, or nil.
func (a *App) Latest() *detector.Frame {
	return a.latest.Load()
}

// Overlay returns the annotated video surface.
func (a *App) Overlay() *capture.Overlay {
	return a.overlay
}

// Session returns the session state.
func (a *App) Session() *session.Session {
	return a.session
}

// Close stops the session and releases the detector. The store is left open.
func (a *App) Close() error {
	a.Stop()

	var err error
	a.closeOnce.Do(func() {
		a.unsubscribe()
		<-a.journalDone

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.detector != nil {
			err = a.detector.Close()
			a.detector = nil
		}
	})
	return err
}
