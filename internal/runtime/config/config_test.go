package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WIRELINK_ADDRESS", "example.com:9000")

	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Transport != DefaultTransport {
		t.Fatalf("expected default transport %q, got %q", DefaultTransport, c.Transport)
	}
	if c.PendingTTL != DefaultPendingTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultPendingTTL, c.PendingTTL)
	}
	if c.SweepInterval != DefaultSweepInterval {
		t.Fatalf("expected default sweep %v, got %v", DefaultSweepInterval, c.SweepInterval)
	}
	if c.BinaryFrames {
		t.Fatal("binary framing should default to off")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("WIRELINK_TRANSPORT", "channel")
	t.Setenv("WIRELINK_SECURE", "true")
	t.Setenv("WIRELINK_TOKEN", "s3cret")
	t.Setenv("WIRELINK_PENDING_TTL", "5s")
	t.Setenv("WIRELINK_BINARY_FRAMES", "true")

	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Transport != "channel" || !c.Secure || c.Token != "s3cret" || !c.BinaryFrames {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.PendingTTL != 5*time.Second {
		t.Fatalf("expected ttl 5s, got %v", c.PendingTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid websocket",
			cfg:  Config{Transport: "websocket", Address: "example.com:9000"},
		},
		{
			name:    "websocket requires address",
			cfg:     Config{Transport: "websocket"},
			wantErr: "address is required",
		},
		{
			name:    "missing transport",
			cfg:     Config{},
			wantErr: "transport: name is required",
		},
		{
			name:    "negative ttl",
			cfg:     Config{Transport: "channel", PendingTTL: -time.Second},
			wantErr: "ttl cannot be negative",
		},
		{
			name:    "negative sweep interval",
			cfg:     Config{Transport: "channel", SweepInterval: -time.Second},
			wantErr: "sweep interval cannot be negative",
		},
		{
			name: "zero durations fall back to defaults",
			cfg:  Config{Transport: "channel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfigNil(t *testing.T) {
	if err := ValidateConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestStringRedactsToken(t *testing.T) {
	c := Config{Transport: "websocket", Address: "example.com:9000", Token: "super-secret"}
	s := c.String()
	if strings.Contains(s, "super-secret") {
		t.Fatalf("token leaked into String(): %s", s)
	}
	if !strings.Contains(s, "***REDACTED***") {
		t.Fatalf("expected redaction marker in %s", s)
	}
}
