package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
)

// SessionHandler serves /api/session and its actions.
type SessionHandler struct {
	ctrl Controller
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(c Controller) *SessionHandler {
	return &SessionHandler{ctrl: c}
}

type intervalRequest struct {
	IntervalMs int64 `json:"interval_ms"`
}

type toggleResponse struct {
	app.Snapshot
	Failure string `json:"failure,omitempty"`
}

// ServeHTTP routes /api/session, /api/session/toggle, /api/session/clear and
// /api/session/interval.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/session")
	action = strings.Trim(action, "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
	case "toggle":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.toggle(w, r)
	case "clear":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.clear(w)
	case "interval":
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		h.interval(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// toggle starts or stops transcription. A startup failure answers with the
// mapped status and the resulting snapshot, so the client can show the
// persistent error message.
func (h *SessionHandler) toggle(w http.ResponseWriter, r *http.Request) {
	_, err := h.ctrl.Toggle(r.Context())
	resp := toggleResponse{Snapshot: h.ctrl.Snapshot()}
	if err != nil {
		resp.Failure = err.Error()
		writeJSON(w, statusFor(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SessionHandler) clear(w http.ResponseWriter) {
	if err := h.ctrl.Clear(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func (h *SessionHandler) interval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ctrl.SetInterval(time.Duration(req.IntervalMs) * time.Millisecond); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}
