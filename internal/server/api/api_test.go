package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// fakeController records calls and returns canned results.
type fakeController struct {
	status    session.Status
	sentence  string
	interval  time.Duration
	toggleErr error
	recording *store.Recording
	revisions []store.Revision
	cleared   int
}

func newFakeController() *fakeController {
	return &fakeController{status: session.StatusIdle, interval: 4 * time.Second}
}

func (f *fakeController) Snapshot() app.Snapshot {
	return app.Snapshot{
		State:       session.State{Status: f.status, Sentence: f.sentence},
		IntervalMs:  f.interval.Milliseconds(),
		ToggleLabel: f.status.ToggleLabel(),
	}
}

func (f *fakeController) Toggle(context.Context) (session.Status, error) {
	if f.toggleErr != nil {
		f.status = session.StatusError
		return f.status, f.toggleErr
	}
	if f.status == session.StatusTranscribing {
		f.status = session.StatusIdle
	} else {
		f.status = session.StatusTranscribing
	}
	return f.status, nil
}

func (f *fakeController) Clear() error {
	f.cleared++
	f.sentence = ""
	f.recording = nil
	return nil
}

func (f *fakeController) SetInterval(d time.Duration) error {
	if d < time.Second || d > 10*time.Second || (d-time.Second)%(500*time.Millisecond) != 0 {
		return app.ErrInvalidInterval
	}
	f.interval = d
	return nil
}

func (f *fakeController) Transcript() string {
	return app.TranscriptHeader + f.sentence
}

func (f *fakeController) Revisions() ([]store.Revision, error) {
	return f.revisions, nil
}

func (f *fakeController) Recording() (*store.Recording, error) {
	if f.recording == nil {
		return nil, app.ErrNoRecording
	}
	return f.recording, nil
}

func (f *fakeController) Recordings() ([]store.Recording, error) {
	if f.recording == nil {
		return []store.Recording{}, nil
	}
	meta := *f.recording
	meta.Size = len(meta.Data)
	meta.Data = nil
	return []store.Recording{meta}, nil
}

func TestSessionHandler_Get(t *testing.T) {
	ctrl := newFakeController()
	ctrl.sentence = "HELLO"
	handler := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var snap app.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if snap.Status != session.StatusIdle || snap.Sentence != "HELLO" || snap.IntervalMs != 4000 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.ToggleLabel != "Start Transcribing" {
		t.Errorf("toggle label = %q", snap.ToggleLabel)
	}
}

func TestSessionHandler_Toggle(t *testing.T) {
	ctrl := newFakeController()
	handler := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/session/toggle", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ctrl.status != session.StatusTranscribing {
		t.Errorf("controller status = %s, want transcribing", ctrl.status)
	}
}

func TestSessionHandler_ToggleErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "busy", err: app.ErrBusy, want: http.StatusConflict},
		{name: "model", err: app.ErrModelUnavailable, want: http.StatusServiceUnavailable},
		{name: "denied", err: fmt.Errorf("%w: /dev/video0", capture.ErrPermissionDenied), want: http.StatusForbidden},
		{name: "unavailable", err: fmt.Errorf("%w: busy", capture.ErrCameraUnavailable), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			ctrl.toggleErr = tt.err
			handler := NewSessionHandler(ctrl)

			req := httptest.NewRequest(http.MethodPost, "/api/session/toggle", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			var resp toggleResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Failure == "" || resp.Status != session.StatusError {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestSessionHandler_Clear(t *testing.T) {
	ctrl := newFakeController()
	ctrl.sentence = "HELLO"
	handler := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/session/clear", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ctrl.cleared != 1 || ctrl.sentence != "" {
		t.Errorf("cleared = %d, sentence = %q", ctrl.cleared, ctrl.sentence)
	}
}

func TestSessionHandler_Interval(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"interval_ms": 1000}`, want: http.StatusOK},
		{name: "step", body: `{"interval_ms": 2500}`, want: http.StatusOK},
		{name: "too fast", body: `{"interval_ms": 500}`, want: http.StatusBadRequest},
		{name: "off step", body: `{"interval_ms": 1250}`, want: http.StatusBadRequest},
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSessionHandler(newFakeController())

			req := httptest.NewRequest(http.MethodPut, "/api/session/interval", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSessionHandler_MethodsAndPaths(t *testing.T) {
	handler := NewSessionHandler(newFakeController())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/api/session", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/session/toggle", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/session/clear", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/session/interval", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/session/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestTranscriptHandler_Download(t *testing.T) {
	ctrl := newFakeController()
	ctrl.sentence = "I am going to the store."
	handler := NewTranscriptHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/transcript", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got, want := rec.Body.String(), "Transcription:\nI am going to the store."; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="transcript.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestTranscriptHandler_Revisions(t *testing.T) {
	ctrl := newFakeController()
	ctrl.revisions = []store.Revision{{Seq: 1, ID: "a", Sentence: "H"}, {Seq: 2, ID: "b", Sentence: "HI"}}
	handler := NewTranscriptHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/transcript/revisions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Revisions []store.Revision `json:"revisions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Revisions) != 2 || resp.Revisions[1].Sentence != "HI" {
		t.Errorf("revisions = %+v", resp.Revisions)
	}
}

func TestVideoHandler(t *testing.T) {
	ctrl := newFakeController()
	handler := NewVideoHandler(ctrl)

	t.Run("404 before any recording", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/video", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("serves recording", func(t *testing.T) {
		ctrl.recording = &store.Recording{ID: "r1", MimeType: capture.ClipMimeType, Data: []byte{0xff, 0xd8, 0xff, 0xd9}}

		req := httptest.NewRequest(http.MethodGet, "/api/video", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != capture.ClipMimeType {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="transcription-video.mjpeg"` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if !bytes.Equal(rec.Body.Bytes(), ctrl.recording.Data) {
			t.Error("body does not match recording data")
		}
	})
}

func TestGuideHandler(t *testing.T) {
	handler := NewGuideHandler()

	t.Run("lists guides", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guides", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var resp listGuidesResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Guides) != 2 || resp.Guides[0].Name != "asl" || resp.Guides[1].Name != "sasl" {
			t.Errorf("guides = %+v", resp.Guides)
		}
	})

	t.Run("gets one guide", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guides/SASL", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var g struct {
			Title   string `json:"title"`
			Letters []struct {
				Letter string `json:"letter"`
				Hands  int    `json:"hands"`
			} `json:"letters"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
			t.Fatal(err)
		}
		if len(g.Letters) != 26 || g.Letters[0].Hands != 2 {
			t.Errorf("guide = %+v", g)
		}
	})

	t.Run("gets one letter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guides/sasl/o", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var l struct {
			Letter string `json:"letter"`
			Hands  int    `json:"hands"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
			t.Fatal(err)
		}
		if l.Letter != "O" || l.Hands != 2 {
			t.Errorf("letter = %+v", l)
		}
	})

	t.Run("unknown letter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guides/asl/7", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("unknown guide", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guides/bsl", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestRecordingsHandler(t *testing.T) {
	ctrl := newFakeController()
	ctrl.recording = &store.Recording{ID: "r1", MimeType: capture.ClipMimeType, Data: []byte{1, 2, 3}}
	handler := NewRecordingsHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/recordings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Recordings []struct {
			ID   string `json:"id"`
			Size int    `json:"size"`
		} `json:"recordings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Recordings) != 1 || resp.Recordings[0].ID != "r1" || resp.Recordings[0].Size != 3 {
		t.Errorf("recordings = %+v", resp.Recordings)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/recordings", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
