package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "PRIMESCAN_RANGE_START=2\nPRIMESCAN_RANGE_END=30\nPRIMESCAN_TIME_SUFFIX=s\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRIMESCAN_RANGE_END", "40")

	env, err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if env["PRIMESCAN_RANGE_START"] != "2" {
		t.Errorf("expected file value for start, got %q", env["PRIMESCAN_RANGE_START"])
	}
	if env["PRIMESCAN_RANGE_END"] != "40" {
		t.Errorf("process env should win, got %q", env["PRIMESCAN_RANGE_END"])
	}

	cfg := NewMainConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.RangeStart != 2 || cfg.RangeEnd != 40 || cfg.TimeSuffix != "s" {
		t.Errorf("unexpected config after env: %+v", cfg)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := NewMainConfig()
	err := cfg.ApplyEnv(map[string]string{"PRIMESCAN_VERBOSITY": "loud"})
	if err == nil {
		t.Fatal("expected error for invalid verbosity")
	}
}

func TestApplyEnvPathsNotRelativeToConfig(t *testing.T) {
	path := writeConfig(t, "range_start=1\n")
	cfg, err := ReadMainConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyEnv(map[string]string{"PRIMESCAN_LOG_FILE": "scan.log"}); err != nil {
		t.Fatal(err)
	}
	if cfg.LogFile != "scan.log" {
		t.Errorf("expected env path unchanged, got %s", cfg.LogFile)
	}
}

func TestApplyEnvEmptyValues(t *testing.T) {
	cfg := NewMainConfig()
	cfg.MetricsFile = "scan.prom"
	err := cfg.ApplyEnv(map[string]string{
		"PRIMESCAN_TIME_SUFFIX":  "",
		"PRIMESCAN_METRICS_FILE": "",
		"PRIMESCAN_RANGE_START":  "",
		"PRIMESCAN_VERBOSITY":    "",
	})
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.TimeSuffix != "" {
		t.Errorf("expected empty time_suffix, got %q", cfg.TimeSuffix)
	}
	if cfg.MetricsFile != "" {
		t.Errorf("expected metrics_file cleared, got %q", cfg.MetricsFile)
	}
	if cfg.RangeStart != 2000 {
		t.Errorf("empty numeric value should leave default, got %d", cfg.RangeStart)
	}

	// Variables that are absent leave the config alone.
	cfg = NewMainConfig()
	if err := cfg.ApplyEnv(map[string]string{}); err != nil {
		t.Fatal(err)
	}
	if cfg.TimeSuffix != "ms" {
		t.Errorf("expected default time_suffix, got %q", cfg.TimeSuffix)
	}
}

func TestLoadEnvFilesEmptyProcessValue(t *testing.T) {
	t.Setenv("PRIMESCAN_TIME_SUFFIX", "")
	env, err := LoadEnvFiles()
	if err != nil {
		t.Fatal(err)
	}
	v, ok := env["PRIMESCAN_TIME_SUFFIX"]
	if !ok || v != "" {
		t.Fatalf("expected empty PRIMESCAN_TIME_SUFFIX to be present, got %q, %v", v, ok)
	}
	cfg := NewMainConfig()
	if err := cfg.ApplyEnv(env); err != nil {
		t.Fatal(err)
	}
	if cfg.TimeSuffix != "" {
		t.Errorf("expected bare time suffix, got %q", cfg.TimeSuffix)
	}
}

func TestApplyEnvLogStderr(t *testing.T) {
	cfg := NewMainConfig()
	if err := cfg.ApplyEnv(map[string]string{"PRIMESCAN_LOG_STDERR": "0"}); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.LogStderr {
		t.Error("expected PRIMESCAN_LOG_STDERR=0 to disable stderr logging")
	}
	if err := cfg.ApplyEnv(map[string]string{"PRIMESCAN_LOG_STDERR": "maybe"}); err == nil {
		t.Error("expected error for invalid PRIMESCAN_LOG_STDERR")
	}
}
