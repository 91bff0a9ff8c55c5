package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"log/slog"

	"github.com/civicpulse/civicpulse/internal/config"
)

func TestNewAppliesServerConfig(t *testing.T) {
	cfg := config.ServerConfig{
		Port:            "9191",
		ReadTimeout:     7 * time.Second,
		WriteTimeout:    11 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(cfg, logger, http.NewServeMux())

	if srv.Addr() != ":9191" {
		t.Errorf("Addr() = %q, want :9191", srv.Addr())
	}
	if srv.http.ReadTimeout != cfg.ReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", srv.http.ReadTimeout, cfg.ReadTimeout)
	}
	if srv.http.WriteTimeout != cfg.WriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", srv.http.WriteTimeout, cfg.WriteTimeout)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	cfg := config.ServerConfig{Port: "0", ShutdownTimeout: time.Second}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(cfg, logger, http.NewServeMux())
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on idle server returned error: %v", err)
	}
}
