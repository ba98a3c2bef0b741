package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// Download file names.
const (
	TranscriptFilename = "transcript.txt"
	VideoFilename      = "transcription-video.mjpeg"
)

// TranscriptHandler serves the transcript download and its revision history.
type TranscriptHandler struct {
	ctrl Controller
}

// NewTranscriptHandler creates a TranscriptHandler.
func NewTranscriptHandler(c Controller) *TranscriptHandler {
	return &TranscriptHandler{ctrl: c}
}

type revisionsResponse struct {
	Revisions []store.Revision `json:"revisions"`
}

// ServeHTTP handles GET /api/transcript and GET /api/transcript/revisions.
func (h *TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sub := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/transcript"), "/")
	switch sub {
	case "":
		body := h.ctrl.Transcript()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+TranscriptFilename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	case "revisions":
		revs, err := h.ctrl.Revisions()
		if err != nil {
			writeError(w, statusFor(err), "Failed to list revisions")
			return
		}
		writeJSON(w, http.StatusOK, revisionsResponse{Revisions: revs})
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// VideoHandler serves the recording of the last stopped session.
type VideoHandler struct {
	ctrl Controller
}

// NewVideoHandler creates a VideoHandler.
func NewVideoHandler(c Controller) *VideoHandler {
	return &VideoHandler{ctrl: c}
}

// ServeHTTP handles GET /api/video.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rec, err := h.ctrl.Recording()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", rec.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+VideoFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Data)
}

// RecordingsHandler lists the clips saved this session.
type RecordingsHandler struct {
	ctrl Controller
}

// NewRecordingsHandler creates a RecordingsHandler.
func NewRecordingsHandler(c Controller) *RecordingsHandler {
	return &RecordingsHandler{ctrl: c}
}

type recordingsResponse struct {
	Recordings []store.Recording `json:"recordings"`
}

// ServeHTTP handles GET /api/recordings.
func (h *RecordingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	recs, err := h.ctrl.Recordings()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recordingsResponse{Recordings: recs})
}
