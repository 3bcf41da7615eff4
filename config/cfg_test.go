package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Document.FontFamily != "Calibri" || cfg.Document.FontSizePt != 11 {
		t.Errorf("document defaults = %+v", cfg.Document)
	}
	if cfg.Document.LineSpacing != 1.5 || cfg.Document.PageMarginCm != 1.0 {
		t.Errorf("document defaults = %+v", cfg.Document)
	}
	if cfg.Document.LinkColor != "0000FF" {
		t.Errorf("link color = %q", cfg.Document.LinkColor)
	}
	if cfg.Server.Address != ":8000" || cfg.Server.Workers != 4 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Server.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("max upload = %d", cfg.Server.MaxUploadBytes)
	}
}

func TestLoadConfiguration_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdc.yaml")
	data := `
document:
  font_family: Georgia
server:
  workers: 8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write config: %v", err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Document.FontFamily != "Georgia" {
		t.Errorf("font = %q, want Georgia", cfg.Document.FontFamily)
	}
	if cfg.Server.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Server.Workers)
	}
	// untouched values keep template defaults
	if cfg.Document.FontSizePt != 11 {
		t.Errorf("font size = %v, want 11", cfg.Document.FontSizePt)
	}
}

func TestLoadConfiguration_UnknownFieldRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdc.yaml")
	if err := os.WriteFile(path, []byte("document:\n  no_such_key: 1\n"), 0644); err != nil {
		t.Fatalf("unable to write config: %v", err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("unknown fields must be rejected")
	}
}

func TestDump_Roundtrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "font_family: Calibri") {
		t.Errorf("dump missing document section:\n%s", data)
	}
}

func TestCleanFileName(t *testing.T) {
	if got := CleanFileName("..hidden"); got != "hidden" {
		t.Errorf("got %q", got)
	}
	if got := CleanFileName(""); got != "_bad_file_name_" {
		t.Errorf("got %q", got)
	}
}
