// Package logging writes the scanner's diagnostic log. Report output goes to
// stdout and never passes through here.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oceanplexian/primescan/internal/scan"
	"github.com/oceanplexian/primescan/internal/timing"
)

// Verbosity bitmask flags for selective verbose logging.
const (
	VerboseConfig = 1 << 0 // Log the effective configuration
	VerboseChecks = 1 << 1 // Log every candidate check
)

// Logger writes timestamped lines to a log file and/or stderr.
type Logger struct {
	mu        sync.Mutex
	logFile   *os.File
	logPath   string
	stderr    io.Writer
	runID     string
	Verbosity int
}

// NewLogger opens logPath for appending when it is non-empty. When useStderr
// is set, lines are echoed to os.Stderr as well.
func NewLogger(logPath string, useStderr bool) (*Logger, error) {
	l := &Logger{
		logPath: logPath,
		runID:   uuid.NewString(),
	}
	if useStderr {
		l.stderr = os.Stderr
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logPath, err)
		}
		l.logFile = f
	}
	return l, nil
}

// Close closes the log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
}

// SetStderr replaces the stderr echo target. nil disables it.
func (l *Logger) SetStderr(w io.Writer) {
	l.mu.Lock()
	l.stderr = w
	l.mu.Unlock()
}

// RunID identifies this process's scan in the log.
func (l *Logger) RunID() string {
	return l.runID
}

// Log writes a timestamped message.
func (l *Logger) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%d] %s\n", time.Now().Unix(), msg)

	l.mu.Lock()
	if l.logFile != nil {
		l.logFile.WriteString(line)
	}
	if l.stderr != nil {
		io.WriteString(l.stderr, line)
	}
	l.mu.Unlock()
}

// LogVerbose writes a log message only if the given verbosity flag is enabled.
func (l *Logger) LogVerbose(flag int, format string, args ...interface{}) {
	if l.Verbosity&flag == 0 {
		return
	}
	l.Log(format, args...)
}

// LogScanStart logs the range about to be scanned.
func (l *Logger) LogScanStart(cfg scan.Config) {
	l.Log("SCAN START: %s;%d;%d", l.runID, cfg.Start, cfg.End)
}

// LogScanEnd logs the totals of a finished scan.
func (l *Logger) LogScanEnd(r *scan.Report) {
	l.Log("SCAN END: %s;%d;%d;%d;%.3fms;%s",
		l.runID, r.Checked, r.Primes, r.Composites, r.ElapsedMillis(), r.Digest)
}

// LogSummary logs check latency statistics.
func (l *Logger) LogSummary(s timing.Summary) {
	l.Log("CHECK LATENCY: %s", s)
}

// LogCheck logs a single candidate when VerboseChecks is set.
func (l *Logger) LogCheck(candidate int64, isPrime bool, d time.Duration) {
	l.LogVerbose(VerboseChecks, "CHECK: %d;%t;%.3fms", candidate, isPrime, timing.Millis(d))
}

// LogConfig logs a configuration directive when VerboseConfig is set.
func (l *Logger) LogConfig(key string, value interface{}) {
	l.LogVerbose(VerboseConfig, "CONFIG: %s=%v", key, value)
}

// CheckLogger adapts a Logger to scan.Observer so per-candidate lines are
// written as the scan progresses.
type CheckLogger struct {
	*Logger
}

// ObserveCheck implements scan.Observer.
func (c CheckLogger) ObserveCheck(candidate int64, isPrime bool, d time.Duration) {
	c.LogCheck(candidate, isPrime, d)
}

// ObserveScan implements scan.Observer.
func (c CheckLogger) ObserveScan(r *scan.Report) {
	c.LogScanEnd(r)
}
