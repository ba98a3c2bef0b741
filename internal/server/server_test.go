package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantSession interface{}
	}{
		{name: "without app", config: Config{}, wantSession: nil},
		{name: "with app", config: Config{App: newFakeApp()}, wantSession: "idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.config)
			defer s.Close()

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %s, want application/json", ct)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if body["status"] != "ok" {
				t.Errorf("status field = %v, want ok", body["status"])
			}
			if _, ok := body["uptime"]; !ok {
				t.Error("missing uptime field")
			}
			if body["session"] != tt.wantSession {
				t.Errorf("session field = %v, want %v", body["session"], tt.wantSession)
			}
		})
	}
}

func TestServer_HealthRejectsWrites(t *testing.T) {
	s := New(Config{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/health", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /api/health = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestServer_Routes(t *testing.T) {
	s := New(Config{App: newFakeApp(), Metrics: true})
	defer s.Close()

	for _, path := range []string{"/api/session", "/api/transcript", "/api/transcript/revisions", "/api/guides", "/api/guides/asl", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestServer_OptionalRoutes(t *testing.T) {
	s := New(Config{})

	// No app, stream or metrics configured.
	for _, path := range []string{"/api/session", "/api/video", "/api/events", "/api/stream", "/metrics", "/", "/api/nonexistent"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body>mudra</body></html>",
		"app.js":     "console.log('mudra');",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	s := New(Config{StaticDir: dir})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/", wantCode: http.StatusOK, wantBody: files["index.html"]},
		{path: "/app.js", wantCode: http.StatusOK, wantBody: files["app.js"]},
		{path: "/missing.css", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServer_CloseIsSafe(t *testing.T) {
	New(Config{}).Close()

	s := New(Config{App: newFakeApp()})
	s.Close()
	s.Close()
}
