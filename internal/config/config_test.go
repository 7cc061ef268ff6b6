package config

import (
	"os"
	"testing"
)

func TestConfig_LoadFromFile(t *testing.T) {
	testConfig := `[PhysCh]
Scr=42
ScrConfidence=3
BufferFrames=20
LogLevel=debug

[Telemetry]
Enabled=1
Path=/var/lib/physch/telemetry.db

[Metrics]
Enabled=1
ListenAddr=:9191`

	tmpfile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(testConfig)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	c := New(tmpfile.Name())
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Scr != 42 {
		t.Errorf("Scr = %d, want 42", c.Scr)
	}
	if c.ScrDetect {
		t.Error("ScrDetect = true, want false for a non-negative Scr")
	}
	if c.ScrConfidence != 3 {
		t.Errorf("ScrConfidence = %d, want 3", c.ScrConfidence)
	}
	if c.BufferFrames != 20 {
		t.Errorf("BufferFrames = %d, want 20", c.BufferFrames)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", c.LogLevel, "debug")
	}
	if !c.TelemetryEnabled {
		t.Error("TelemetryEnabled = false, want true")
	}
	if c.TelemetryPath != "/var/lib/physch/telemetry.db" {
		t.Errorf("TelemetryPath = %q, want %q", c.TelemetryPath, "/var/lib/physch/telemetry.db")
	}
	if !c.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
	if c.MetricsAddr != ":9191" {
		t.Errorf("MetricsAddr = %q, want %q", c.MetricsAddr, ":9191")
	}
}

func TestConfig_LoadFromString(t *testing.T) {
	c := New("")
	err := c.LoadFromString("[PhysCh]\nScr=7\nScrConfidence=2")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if c.Scr != 7 {
		t.Errorf("Scr = %d, want 7", c.Scr)
	}
	if c.ScrConfidence != 2 {
		t.Errorf("ScrConfidence = %d, want 2", c.ScrConfidence)
	}
}

func TestConfig_DetectSentinelSetsScrDetect(t *testing.T) {
	c := New("")
	if err := c.LoadFromString("[PhysCh]\nScr=-1"); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if c.Scr != -1 {
		t.Errorf("Scr = %d, want -1", c.Scr)
	}
	if !c.ScrDetect {
		t.Error("ScrDetect = false, want true for Scr=-1")
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	c := New("")

	if !c.ScrDetect {
		t.Error("ScrDetect default = false, want true")
	}
	if c.Scr != -1 {
		t.Errorf("Scr default = %d, want -1", c.Scr)
	}
	if c.ScrConfidence != 5 {
		t.Errorf("ScrConfidence default = %d, want 5", c.ScrConfidence)
	}
	if c.BufferFrames != 10 {
		t.Errorf("BufferFrames default = %d, want 10", c.BufferFrames)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, want %q", c.LogLevel, "info")
	}
	if c.TelemetryEnabled {
		t.Error("TelemetryEnabled default = true, want false")
	}
	if c.TelemetryPath != "physch.db" {
		t.Errorf("TelemetryPath default = %q, want %q", c.TelemetryPath, "physch.db")
	}
	if c.MetricsEnabled {
		t.Error("MetricsEnabled default = true, want false")
	}
	if c.MetricsAddr != ":9100" {
		t.Errorf("MetricsAddr default = %q, want %q", c.MetricsAddr, ":9100")
	}
}

func TestConfig_InvalidFile(t *testing.T) {
	c := New("/nonexistent/file.ini")
	if err := c.Load(); err == nil {
		t.Error("Load() with nonexistent file should return error")
	}
}

func TestConfig_BooleanValues(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		getValue func(*Config) bool
		want     bool
	}{
		{
			name:     "Telemetry enabled with 1",
			config:   "[Telemetry]\nEnabled=1",
			getValue: func(c *Config) bool { return c.TelemetryEnabled },
			want:     true,
		},
		{
			name:     "Telemetry disabled with 0",
			config:   "[Telemetry]\nEnabled=0",
			getValue: func(c *Config) bool { return c.TelemetryEnabled },
			want:     false,
		},
		{
			name:     "Metrics enabled with yes",
			config:   "[Metrics]\nEnabled=yes",
			getValue: func(c *Config) bool { return c.MetricsEnabled },
			want:     true,
		},
		{
			name:     "Metrics disabled with garbage",
			config:   "[Metrics]\nEnabled=nope",
			getValue: func(c *Config) bool { return c.MetricsEnabled },
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("")
			if err := c.LoadFromString(tt.config); err != nil {
				t.Fatalf("LoadFromString() error = %v", err)
			}
			if got := tt.getValue(c); got != tt.want {
				t.Errorf("getValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_CommentedLines(t *testing.T) {
	c := New("")
	testConfig := `[PhysCh]
Scr=10
# a full-line comment
ScrConfidence=4
BufferFrames=8`

	if err := c.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if c.Scr != 10 {
		t.Errorf("Scr = %d, want 10", c.Scr)
	}
	if c.ScrConfidence != 4 {
		t.Errorf("ScrConfidence = %d, want 4", c.ScrConfidence)
	}
	if c.BufferFrames != 8 {
		t.Errorf("BufferFrames = %d, want 8", c.BufferFrames)
	}
}

func TestConfig_MissingSection(t *testing.T) {
	c := New("")
	err := c.LoadFromString("[Nonexistent Section]\nSomeKey=SomeValue")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	// Unknown sections are ignored; defaults survive untouched.
	if c.Scr != -1 {
		t.Errorf("Scr = %d, want default -1", c.Scr)
	}
}

func BenchmarkConfig_Load(b *testing.B) {
	testConfig := `[PhysCh]
Scr=42
ScrConfidence=5
BufferFrames=10`

	tmpfile, err := os.CreateTemp("", "bench_config_*.ini")
	if err != nil {
		b.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(testConfig)); err != nil {
		b.Fatalf("Failed to write temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		b.Fatalf("Failed to close temp file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := New(tmpfile.Name())
		_ = c.Load()
	}
}
