package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oceanplexian/primescan/internal/scan"
)

// MainConfig holds the scanner settings read from a primescan.cfg file,
// the environment and the command line.
type MainConfig struct {
	// Range
	RangeStart int64
	RangeEnd   int64
	TimeSuffix string

	// Logging
	LogFile   string
	LogStderr bool
	Verbosity int

	// Outputs
	MetricsFile  string
	ExpectDigest string

	basedir string
}

// NewMainConfig returns the defaults.
func NewMainConfig() *MainConfig {
	return &MainConfig{
		RangeStart: scan.DefaultStart,
		RangeEnd:   scan.DefaultEnd,
		TimeSuffix: scan.DefaultTimeSuffix,
		LogStderr:  true,
	}
}

// ReadMainConfig parses a key=value config file on top of the defaults.
func ReadMainConfig(path string) (*MainConfig, error) {
	cfg := NewMainConfig()
	cfg.basedir = filepath.Dir(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open main config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		// Strip inline comments starting with ;
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}
		eqIdx := strings.IndexByte(line, '=')
		if eqIdx < 0 {
			return nil, fmt.Errorf("%s:%d: missing '=' in %q", path, lineNum, line)
		}
		key := strings.TrimSpace(line[:eqIdx])
		val := strings.TrimSpace(line[eqIdx+1:])

		if err := cfg.setDirective(key, val); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

// ScanConfig converts the range settings for the scanner.
func (c *MainConfig) ScanConfig() scan.Config {
	return scan.Config{Start: c.RangeStart, End: c.RangeEnd, TimeSuffix: c.TimeSuffix}
}

// Validate checks cross-field constraints.
func (c *MainConfig) Validate() error {
	return c.ScanConfig().Validate()
}

func (c *MainConfig) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.basedir == "" {
		return p
	}
	return filepath.Join(c.basedir, p)
}

func (c *MainConfig) setDirective(key, val string) error {
	switch key {
	case "range_start":
		return setInt64(&c.RangeStart, val)
	case "range_end":
		return setInt64(&c.RangeEnd, val)
	case "time_suffix":
		c.TimeSuffix = val
	case "log_file":
		c.LogFile = c.resolvePath(val)
	case "log_stderr":
		return setBool(&c.LogStderr, val)
	case "verbosity":
		return setInt(&c.Verbosity, val)
	case "metrics_file":
		c.MetricsFile = c.resolvePath(val)
	case "expect_digest":
		c.ExpectDigest = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown directive %q", key)
	}
	return nil
}

func setInt(dst *int, val string) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", val, err)
	}
	*dst = v
	return nil
}

func setInt64(dst *int64, val string) error {
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", val, err)
	}
	*dst = v
	return nil
}

// setBool accepts the 0/1 form used throughout the config file as well as
// true/false.
func setBool(dst *bool, val string) error {
	v, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", val, err)
	}
	*dst = v
	return nil
}
