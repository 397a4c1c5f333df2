package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func newCaptureLogger(buf *bytes.Buffer) ServiceLogger {
	return NewSlogServiceLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	return rec
}

func TestSlogServiceLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Info("connection opened", LogFields{"transport": "websocket"})

	rec := decodeLine(t, &buf)
	if rec["msg"] != "connection opened" {
		t.Fatalf("unexpected msg %v", rec["msg"])
	}
	if rec["transport"] != "websocket" {
		t.Fatalf("expected transport field, got %v", rec)
	}
}

func TestSlogServiceLoggerError(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf)

	log.Error("dispatch failed", errors.New("boom"), LogFields{"key": "a.b"})

	rec := decodeLine(t, &buf)
	if rec["error"] != "boom" {
		t.Fatalf("expected error field, got %v", rec)
	}
	if rec["key"] != "a.b" {
		t.Fatalf("expected key field, got %v", rec)
	}
}

func TestSlogServiceLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := newCaptureLogger(&buf).With(LogFields{"component": "registry"})

	log.Debug("sweep", nil)

	rec := decodeLine(t, &buf)
	if rec["component"] != "registry" {
		t.Fatalf("expected component field from With, got %v", rec)
	}
}

func TestNewSlogServiceLoggerNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil logger")
		}
	}()
	NewSlogServiceLogger(nil)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored", LogFields{"a": 1})
	log.Error("ignored", errors.New("x"), nil)
	if log.With(LogFields{"a": 1}) == nil {
		t.Fatal("With must return a usable logger")
	}
}
