package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables mapped onto config directives. Text directives accept
// an empty value (e.g. PRIMESCAN_TIME_SUFFIX= prints a bare number); numeric
// and boolean ones treat an empty value as unset.
var envDirectives = []struct {
	env       string
	directive string
	text      bool
}{
	{"PRIMESCAN_RANGE_START", "range_start", false},
	{"PRIMESCAN_RANGE_END", "range_end", false},
	{"PRIMESCAN_TIME_SUFFIX", "time_suffix", true},
	{"PRIMESCAN_LOG_FILE", "log_file", true},
	{"PRIMESCAN_LOG_STDERR", "log_stderr", false},
	{"PRIMESCAN_VERBOSITY", "verbosity", false},
	{"PRIMESCAN_METRICS_FILE", "metrics_file", true},
	{"PRIMESCAN_EXPECT_DIGEST", "expect_digest", true},
}

// LoadEnvFiles reads .env style files and returns their variables. Files that
// do not exist are skipped. Values already present in the process environment
// take precedence over file values.
func LoadEnvFiles(files ...string) (map[string]string, error) {
	out := make(map[string]string)
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading env file %s: %w", f, err)
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	for _, d := range envDirectives {
		if v, ok := os.LookupEnv(d.env); ok {
			out[d.env] = v
		}
	}
	return out, nil
}

// ApplyEnv applies the PRIMESCAN_* variables present in env. Paths are taken
// as given rather than relative to the config file.
func (c *MainConfig) ApplyEnv(env map[string]string) error {
	basedir := c.basedir
	c.basedir = ""
	defer func() { c.basedir = basedir }()
	for _, d := range envDirectives {
		v, ok := env[d.env]
		if !ok || (v == "" && !d.text) {
			continue
		}
		if err := c.setDirective(d.directive, v); err != nil {
			return fmt.Errorf("%s: %w", d.env, err)
		}
	}
	return nil
}
