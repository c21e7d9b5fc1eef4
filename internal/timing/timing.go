// Package timing summarizes per-candidate check latencies.
package timing

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds distribution statistics for a set of durations.
type Summary struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	P50    time.Duration
	P95    time.Duration
}

// Summarize computes a Summary. An empty slice yields the zero Summary.
func Summarize(ds []time.Duration) Summary {
	if len(ds) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(ds))
	for i, d := range ds {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)

	s := Summary{
		Count: len(xs),
		Min:   time.Duration(floats.Min(xs)),
		Max:   time.Duration(floats.Max(xs)),
		P50:   time.Duration(stat.Quantile(0.5, stat.Empirical, xs, nil)),
		P95:   time.Duration(stat.Quantile(0.95, stat.Empirical, xs, nil)),
	}
	if len(xs) == 1 {
		s.Mean = time.Duration(xs[0])
		return s
	}
	mean, std := stat.MeanStdDev(xs, nil)
	s.Mean = time.Duration(mean)
	s.StdDev = time.Duration(std)
	return s
}

// String renders the summary in milliseconds.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%.3fms p50=%.3fms p95=%.3fms max=%.3fms mean=%.3fms stddev=%.3fms",
		s.Count, ms(s.Min), ms(s.P50), ms(s.P95), ms(s.Max), ms(s.Mean), ms(s.StdDev))
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return ms(d)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
