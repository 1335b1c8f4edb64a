package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	for _, k := range []string{"HDLG_HDL_DUMP", "HDLG_LOG_LEVEL", "HDLG_LOG_FORMAT", "HDLG_UI", "HDLG_PROBE_CONCURRENCY"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Fatalf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadDefaultPath(t *testing.T) {
	isolate(t)
	writeFile(t, DefaultPath(), "log_level: debug\nprobe_concurrency: 2\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.ProbeConcurrency != 2 || cfg.UI != UIAuto {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadExplicitFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, strings.Join([]string{
		"hdl_dump_path: /opt/hdl_dump",
		"log_format: json",
		"ui: plain",
		"batch_continue_on_error: false",
	}, "\n"))
	t.Setenv("HDLG_UI", "TUI")
	t.Setenv("HDLG_PROBE_CONCURRENCY", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		HDLDumpPath:          "/opt/hdl_dump",
		LogLevel:             "info",
		LogFormat:            "json",
		ProbeConcurrency:     8,
		UI:                   UITUI,
		BatchContinueOnError: false,
	}
	if *cfg != want {
		t.Fatalf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("explicit missing file accepted")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "ui: [\n")
	if _, err := Load(bad); err == nil {
		t.Fatal("malformed yaml accepted")
	}

	t.Setenv("HDLG_PROBE_CONCURRENCY", "many")
	if _, err := Load(""); err == nil {
		t.Fatal("non-numeric concurrency accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"ui", func(c *Config) { c.UI = "gui" }, "ui must be one of"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level must be one of"},
		{"format", func(c *Config) { c.LogFormat = "xml" }, "log_format must be one of"},
		{"zero concurrency", func(c *Config) { c.ProbeConcurrency = 0 }, "probe_concurrency must be at least 1"},
		{"huge concurrency", func(c *Config) { c.ProbeConcurrency = 1000 }, "probe_concurrency must be at most 64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
