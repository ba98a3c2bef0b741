package app

import (
	"context"
	"errors"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transcribe"
)

// Start acquires the camera, begins recording when supported and launches
// the frame sampler and cycle controller. Any failure releases everything
// acquired so far and moves to the error status.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := a.session.Status()
	if status == session.StatusTranscribing {
		return nil
	}
	if !status.CanStart() {
		return ErrBusy
	}
	if a.detector == nil {
		return ErrModelUnavailable
	}

	if _, err := a.session.Apply(session.EventStart); err != nil {
		return err
	}
	a.session.SetVideo("")

	if err := a.camera.Open(); err != nil {
		a.releaseLocked()
		msg := MsgCameraFailed
		if errors.Is(err, capture.ErrPermissionDenied) {
			msg = MsgCameraDenied
		}
		a.log.Error().Err(err).Msg("Camera acquisition failed")
		a.session.Fail(msg)
		return err
	}

	if a.config.Recording {
		if err := a.recorder.Start(); err != nil {
			a.log.Warn().Err(err).Msg("Recording unavailable")
		}
	}

	w, h := a.camera.Size()
	a.overlay.Resize(w, h)
	a.latest.Reset()

	sampler := transcribe.NewSampler(transcribe.SamplerConfig{
		Camera:    a.camera,
		Detector:  a.detector,
		Latest:    a.latest,
		Overlay:   a.overlay,
		Recorder:  a.recorder,
		FrameRate: a.config.FrameRate,
	})

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.loops.Add(2)
	go func() {
		defer a.loops.Done()
		sampler.Run(loopCtx)
	}()
	go func() {
		defer a.loops.Done()
		a.controller.Run(loopCtx)
	}()

	if _, err := a.session.Apply(session.EventReady); err != nil {
		a.releaseLocked()
		return err
	}

	a.log.Info().Int("width", w).Int("height", h).Dur("interval", a.controller.Interval()).Msg("Transcription started")
	return nil
}

// Stop tears the session down. It is idempotent and safe to call from any
// status. An interpreter call already in flight is left to finish.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	running := a.cancel != nil
	a.releaseLocked()

	switch a.session.Status() {
	case session.StatusStartingCamera, session.StatusTranscribing:
		if _, err := a.session.Apply(session.EventStop); err != nil {
			a.log.Warn().Err(err).Msg("Stop transition rejected")
		}
	}

	if running {
		a.log.Info().Msg("Transcription stopped")
	}
}

// releaseLocked stops the loops and releases the camera, recorder, overlay
// and banner timer. The status is left unchanged.
func (a *App) releaseLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		a.loops.Wait()
	}

	if err := a.camera.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Error closing camera")
	}

	if clip := a.recorder.Stop(); clip != nil {
		a.saveClip(clip)
	}

	a.overlay.Clear()
	a.latest.Reset()
	a.session.ClearBanner()
}

func (a *App) saveClip(clip *capture.Clip) {
	if len(clip.Data) == 0 {
		return
	}
	rec := &store.Recording{
		MimeType:  clip.MimeType,
		Data:      clip.Data,
		Frames:    clip.Frames,
		StartedAt: clip.StartedAt,
		StoppedAt: clip.StoppedAt,
	}
	if err := a.store.Recordings().Create(rec); err != nil {
		a.log.Error().Err(err).Msg("Failed to store recording")
		return
	}
	a.session.SetVideo(rec.ID)
	a.log.Info().Str("id", rec.ID).Int("frames", rec.Frames).Int("bytes", len(rec.Data)).Msg("Recording saved")
}
