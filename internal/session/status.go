// Package session holds the live transcription state shown to the user: the
// accumulated sentence, the application status and transient error banners.
package session

import (
	"errors"
	"fmt"
)

// Status is the process-wide application status.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusLoadingModel   Status = "loading_model"
	StatusStartingCamera Status = "starting_camera"
	StatusTranscribing   Status = "transcribing"
	StatusError          Status = "error"
)

// Event drives a status transition.
type Event string

const (
	EventLoad   Event = "load"
	EventLoaded Event = "loaded"
	EventStart  Event = "start"
	EventReady  Event = "ready"
	EventStop   Event = "stop"
	EventFail   Event = "fail"
)

// ErrInvalidTransition is returned for an event the current status does not accept.
var ErrInvalidTransition = errors.New("invalid status transition")

// Statuses lists every status, in lifecycle order.
func Statuses() []Status {
	return []Status{StatusIdle, StatusLoadingModel, StatusStartingCamera, StatusTranscribing, StatusError}
}

var statusLabels = func() []string {
	all := Statuses()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = string(s)
	}
	return out
}()

// Transition returns the status reached from current on event.
func Transition(current Status, event Event) (Status, error) {
	if event == EventFail {
		return StatusError, nil
	}

	switch current {
	case StatusIdle:
		switch event {
		case EventStart:
			return StatusStartingCamera, nil
		case EventLoad:
			return StatusLoadingModel, nil
		}
	case StatusLoadingModel:
		switch event {
		case EventLoaded:
			return StatusIdle, nil
		}
	case StatusStartingCamera:
		switch event {
		case EventReady:
			return StatusTranscribing, nil
		case EventStop:
			return StatusIdle, nil
		}
	case StatusTranscribing:
		switch event {
		case EventStop:
			return StatusIdle, nil
		}
	case StatusError:
		switch event {
		case EventStart:
			return StatusStartingCamera, nil
		case EventLoad:
			return StatusLoadingModel, nil
		}
	default:
		return current, fmt.Errorf("unknown status %q", current)
	}
	return current, fmt.Errorf("%w: %s --(%s)--> ?", ErrInvalidTransition, current, event)
}

// CanStart reports whether transcription may be started from s.
func (s Status) CanStart() bool {
	return s == StatusIdle || s == StatusError
}

// ToggleLabel is the text of the start/stop control in status s.
func (s Status) ToggleLabel() string {
	switch s {
	case StatusIdle, StatusError:
		return "Start Transcribing"
	case StatusLoadingModel:
		return "Loading Model..."
	case StatusStartingCamera:
		return "Starting Camera..."
	case StatusTranscribing:
		return "Stop Transcribing"
	default:
		return "Start"
	}
}
