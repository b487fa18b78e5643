package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Tests in this file mutate the environment and run sequentially.

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FORMSCHEMA_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Forms:  FormsConfig{Dir: "forms", Predicates: []string{}},
		Locale: "en",
		Log:    LogConfig{Level: "warn", Encoding: "console"},
		Output: OutputConfig{Style: StyleColor},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formschema.yaml")
	data := []byte("forms:\n  dir: ./schemas\n  predicates: [betaEnabled]\nlocale: fr\noutput:\n  style: Plain\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMSCHEMA_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forms.Dir != "./schemas" || cfg.Locale != "fr" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"betaEnabled"}, cfg.Forms.Predicates); diff != "" {
		t.Fatalf("predicates mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected env override, got %q", cfg.Log.Level)
	}
	if cfg.Output.Style != StylePlain {
		t.Fatalf("expected style normalised, got %q", cfg.Output.Style)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing explicit file to fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output:\n  style: neon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown style to fail")
	}
}
