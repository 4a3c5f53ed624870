package config_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"tt-go/internal/config"
)

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig("/home/user/.local/share/tt")

	if cfg.BaseDir != "/home/user/.local/share/tt" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.LogDir != filepath.Join(cfg.BaseDir, "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.DataDir != filepath.Join(cfg.BaseDir, "data") {
		t.Errorf("Database.DataDir = %q", cfg.Database.DataDir)
	}
	if cfg.Alert.Type != "none" {
		t.Errorf("Alert.Type = %q, want none", cfg.Alert.Type)
	}
	if cfg.Archive.Type != "filesystem" {
		t.Errorf("Archive.Type = %q, want filesystem", cfg.Archive.Type)
	}
	if cfg.Report.CriticalThresholdPercent != 30 {
		t.Errorf("CriticalThresholdPercent = %v, want 30", cfg.Report.CriticalThresholdPercent)
	}
}

func TestManager_RoundTrip(t *testing.T) {
	cfg := config.NewConfig("/tmp/tt")
	cfg.Alert.Type = "webhook"
	cfg.Alert.WebhookURL = "https://hooks.example.com/services/T0/B0/secret"
	cfg.Archive.Type = "s3"
	cfg.Archive.S3Bucket = "tt-reports"
	cfg.Archive.S3Region = "eu-west-1"
	cfg.Report.CriticalThresholdPercent = 45

	m := &config.Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Alert.WebhookURL != cfg.Alert.WebhookURL {
		t.Errorf("WebhookURL = %q, want %q", got.Alert.WebhookURL, cfg.Alert.WebhookURL)
	}
	if got.Archive.S3Bucket != "tt-reports" || got.Archive.S3Region != "eu-west-1" {
		t.Errorf("Archive = %+v", got.Archive)
	}
	if got.Report.CriticalThresholdPercent != 45 {
		t.Errorf("CriticalThresholdPercent = %v, want 45", got.Report.CriticalThresholdPercent)
	}
}

func TestManager_ReadRejectsInvalidTOML(t *testing.T) {
	m := &config.Manager{}
	if _, err := m.Read(strings.NewReader("this is = not [valid")); err == nil {
		t.Error("Read() error = nil, want decode failure")
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "tt.toml")
	cfg := config.NewConfig("/tmp/tt")

	// WriteToFile creates missing parent directories
	if err := config.WriteToFile(path, cfg); err != nil {
		t.Fatalf("WriteToFile() error = %v", err)
	}

	got, err := config.ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", got.Database.Type)
	}
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("ReadFromFile() error = nil, want open failure")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tt.toml")
	cfg := config.NewConfig("/tmp/tt")

	if err := config.Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// A second Init must refuse to overwrite
	if err := config.Init(path, cfg); err == nil {
		t.Error("Init() over existing file error = nil, want failure")
	}
}
