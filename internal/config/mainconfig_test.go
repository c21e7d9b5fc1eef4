package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oceanplexian/primescan/internal/scan"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "primescan.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewMainConfigDefaults(t *testing.T) {
	cfg := NewMainConfig()
	if cfg.RangeStart != 2000 || cfg.RangeEnd != 2400 {
		t.Errorf("expected default range [2000, 2400), got [%d, %d)", cfg.RangeStart, cfg.RangeEnd)
	}
	if cfg.TimeSuffix != "ms" {
		t.Errorf("expected time_suffix=ms, got %q", cfg.TimeSuffix)
	}
	if !cfg.LogStderr {
		t.Error("expected log_stderr=1 by default")
	}
	if cfg.ScanConfig() != scan.DefaultConfig() {
		t.Errorf("default ScanConfig mismatch: %+v", cfg.ScanConfig())
	}
}

func TestReadMainConfig(t *testing.T) {
	path := writeConfig(t, `# primescan settings
range_start=10
range_end = 50   ; inline comment
time_suffix=s
log_file=var/primescan.log
log_stderr=0
verbosity=3
metrics_file=/tmp/primescan.prom
expect_digest=ABCDEF
`)
	cfg, err := ReadMainConfig(path)
	if err != nil {
		t.Fatalf("ReadMainConfig failed: %v", err)
	}
	if cfg.RangeStart != 10 || cfg.RangeEnd != 50 {
		t.Errorf("unexpected range [%d, %d)", cfg.RangeStart, cfg.RangeEnd)
	}
	if cfg.TimeSuffix != "s" {
		t.Errorf("expected time_suffix=s, got %q", cfg.TimeSuffix)
	}
	wantLog := filepath.Join(filepath.Dir(path), "var/primescan.log")
	if cfg.LogFile != wantLog {
		t.Errorf("expected log_file=%s, got %s", wantLog, cfg.LogFile)
	}
	if cfg.LogStderr {
		t.Error("expected log_stderr=0")
	}
	if cfg.Verbosity != 3 {
		t.Errorf("expected verbosity=3, got %d", cfg.Verbosity)
	}
	if cfg.MetricsFile != "/tmp/primescan.prom" {
		t.Errorf("absolute path should be kept, got %s", cfg.MetricsFile)
	}
	if cfg.ExpectDigest != "abcdef" {
		t.Errorf("expected lowercased digest, got %s", cfg.ExpectDigest)
	}
}

func TestReadMainConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown", "bogus=1\n", `primescan.cfg:1: unknown directive "bogus"`},
		{"bad int", "# c\nrange_start=abc\n", "primescan.cfg:2: invalid integer"},
		{"bad bool", "log_stderr=maybe\n", "invalid boolean"},
		{"no equals", "range_start\n", "missing '='"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMainConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestReadMainConfigMissingFile(t *testing.T) {
	if _, err := ReadMainConfig(filepath.Join(t.TempDir(), "nope.cfg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := NewMainConfig()
	cfg.RangeStart, cfg.RangeEnd = 100, 10
	if err := cfg.Validate(); !errors.Is(err, scan.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	cfg.RangeEnd = 100
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty range should be valid: %v", err)
	}
}
