package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/interpreter"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("addr", cfg.Addr).
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Int("camera_id", cfg.CameraID).
		Int("interval_ms", cfg.IntervalMs).
		Msg("Mudra starting")

	st, err := store.NewMemory()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	ip, err := interpreter.New(interpreter.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create interpreter")
	}

	a, err := app.New(app.Config{
		Camera:             capture.NewCamera(cfg.CameraID),
		LoadDetector:       mediaPipeLoader(cfg),
		Interpreter:        ip,
		Store:              st,
		FrameRate:          cfg.FrameRate,
		Interval:           cfg.Interval(),
		InterpreterTimeout: cfg.Timeout(),
		Recording:          cfg.Recording,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create app")
	}
	defer a.Close()

	go func() {
		if err := a.LoadModel(); err != nil {
			logger.Error().Err(err).Msg("Hand landmark model unavailable")
		}
	}()

	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		logger.Info().Str("dir", webDir).Msg("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       a,
		Stream:    a.Overlay(),
		Metrics:   cfg.MetricsEnabled,
	})

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("url", browserURL(cfg.Addr)).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Tray {
		t := tray.New()
		t.OnToggle(func() {
			if _, err := a.Toggle(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("Toggle from tray failed")
			}
		})
		t.OnClear(func() {
			if err := a.Clear(); err != nil {
				logger.Warn().Err(err).Msg("Clear from tray failed")
			}
		})
		t.OnOpen(func() { openBrowser(browserURL(cfg.Addr)) })
		t.OnQuit(func() {
			select {
			case quit <- syscall.SIGTERM:
			default:
			}
		})

		changes, unsubscribe := a.Subscribe()
		defer unsubscribe()
		t.Update(a.Snapshot().State)
		go t.Follow(changes)

		go func() {
			<-quit
			shutdown(httpServer, srv)
			t.Quit()
		}()
		t.Run()
		return
	}

	<-quit
	shutdown(httpServer, srv)
}

func shutdown(httpServer *http.Server, srv *server.Server) {
	logger := observability.GetLogger()
	logger.Info().Msg("Shutting down server...")

	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logger.Info().Msg("Server exited gracefully")
}

// mediaPipeLoader starts the MediaPipe hand landmark service.
func mediaPipeLoader(cfg *config.Config) app.DetectorLoader {
	return func() (detector.Detector, error) {
		dc := detector.DefaultConfig()
		dc.MaxHands = cfg.MaxHands
		dc.MinConfidence = cfg.MinConfidence

		d, err := detector.NewMediaPipeDetector(dc)
		if err != nil {
			return nil, err
		}
		if err := d.Start(); err != nil {
			d.Close()
			return nil, err
		}
		return d, nil
	}
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		observability.GetLogger().Warn().Err(err).Str("url", url).Msg("Failed to open browser")
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
