// Package scan runs the primality check over a range of candidates and
// reports each result followed by the total elapsed time.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oceanplexian/primescan/internal/prime"
	"github.com/oceanplexian/primescan/internal/timing"
)

// Default range and time label.
const (
	DefaultStart      int64 = 2000
	DefaultEnd        int64 = 2400
	DefaultTimeSuffix       = "ms"
)

// maxPrealloc bounds the up-front allocation for very wide ranges.
const maxPrealloc = 1 << 16

// capHint returns the initial capacity for per-candidate slices. The width is
// computed in uint64 so ranges spanning the whole int64 domain do not overflow.
func capHint(c Config) int {
	if span := uint64(c.End) - uint64(c.Start); span < maxPrealloc {
		return int(span)
	}
	return maxPrealloc
}

// ErrInvalidRange is returned when Start is greater than End.
var ErrInvalidRange = errors.New("invalid candidate range")

// Config selects the candidates [Start, End) and the label printed after the
// elapsed milliseconds.
type Config struct {
	Start      int64
	End        int64
	TimeSuffix string
}

// DefaultConfig returns the [2000, 2400) range.
func DefaultConfig() Config {
	return Config{Start: DefaultStart, End: DefaultEnd, TimeSuffix: DefaultTimeSuffix}
}

// Validate checks the range bounds.
func (c Config) Validate() error {
	if c.Start > c.End {
		return fmt.Errorf("%w: start %d > end %d", ErrInvalidRange, c.Start, c.End)
	}
	return nil
}

// Observer receives per-candidate and end-of-scan notifications. Per-candidate
// calls are delivered in scan order once the end timestamp has been taken.
type Observer interface {
	ObserveCheck(candidate int64, isPrime bool, d time.Duration)
	ObserveScan(r *Report)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

// ObserveCheck implements Observer.
func (obs Observers) ObserveCheck(candidate int64, isPrime bool, d time.Duration) {
	for _, o := range obs {
		o.ObserveCheck(candidate, isPrime, d)
	}
}

// ObserveScan implements Observer.
func (obs Observers) ObserveScan(r *Report) {
	for _, o := range obs {
		o.ObserveScan(r)
	}
}

// Report describes a completed scan.
type Report struct {
	Start      int64
	End        int64
	Checked    int
	Primes     int
	Composites int
	Elapsed    time.Duration
	Digest     string
	// Durations holds one check duration per candidate, in scan order.
	Durations []time.Duration
}

// ElapsedMillis returns the elapsed time in fractional milliseconds.
func (r *Report) ElapsedMillis() float64 {
	return timing.Millis(r.Elapsed)
}

// Summary returns latency statistics for the individual checks.
func (r *Report) Summary() timing.Summary {
	return timing.Summarize(r.Durations)
}

// Scanner writes one "<candidate>: <bool>" line per candidate to Out and a
// final "Time: <ms><suffix>" line.
type Scanner struct {
	Config   Config
	Out      io.Writer
	Clock    Clock    // nil uses SystemClock
	Observer Observer // optional
}

// New creates a Scanner writing to out with the system clock.
func New(cfg Config, out io.Writer) *Scanner {
	return &Scanner{Config: cfg, Out: out, Clock: SystemClock{}}
}

// Run performs the scan. Lines already written stay written if an error
// interrupts it.
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	clock := s.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	w := bufio.NewWriter(s.Out)
	dg := newDigest()
	r := &Report{
		Start:     s.Config.Start,
		End:       s.Config.End,
		Durations: make([]time.Duration, 0, capHint(s.Config)),
	}
	// Observers run after the end timestamp so their cost stays out of Elapsed.
	var results []bool
	if s.Observer != nil {
		results = make([]bool, 0, cap(r.Durations))
	}

	line := make([]byte, 0, 32)
	start := clock.Now()
	for v := s.Config.Start; v < s.Config.End; v++ {
		if err := ctx.Err(); err != nil {
			w.Flush()
			return nil, fmt.Errorf("scan interrupted at %d: %w", v, err)
		}

		// Candidates go through their text form before being checked.
		n, err := prime.Parse(strconv.FormatInt(v, 10))
		if err != nil {
			w.Flush()
			return nil, fmt.Errorf("coerce candidate %d: %w", v, err)
		}
		checkStart := time.Now()
		isPrime := prime.IsPrime(n)
		d := time.Since(checkStart)

		line = strconv.AppendInt(line[:0], v, 10)
		line = append(line, ": "...)
		line = strconv.AppendBool(line, isPrime)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write result for %d: %w", v, err)
		}
		dg.add(line)

		r.Checked++
		if isPrime {
			r.Primes++
		} else {
			r.Composites++
		}
		r.Durations = append(r.Durations, d)
		if s.Observer != nil {
			results = append(results, isPrime)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush results: %w", err)
	}
	end := clock.Now()

	r.Elapsed = end.Sub(start)
	if r.Elapsed < 0 {
		r.Elapsed = 0
	}
	r.Digest = dg.hex()

	if _, err := fmt.Fprintf(w, "Time: %.3f%s\n", r.ElapsedMillis(), s.Config.TimeSuffix); err != nil {
		return nil, fmt.Errorf("write elapsed time: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush output: %w", err)
	}

	if s.Observer != nil {
		for i, isPrime := range results {
			s.Observer.ObserveCheck(r.Start+int64(i), isPrime, r.Durations[i])
		}
		s.Observer.ObserveScan(r)
	}
	return r, nil
}
