// Scale benchmark: runs the scanner over ranges of increasing width, repeats
// each scan several times and records whole-scan and per-check latency.
//
// Usage: go run ./bench/scale -runs 5 -out bench/scale_results.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oceanplexian/primescan/internal/scan"
	"github.com/oceanplexian/primescan/internal/timing"
)

type scenario struct {
	start int64
	end   int64
}

var allScenarios = []scenario{
	{2000, 2400}, // baseline
	{2000, 4000},
	{2000, 10000},
	{10000, 20000},
	{50000, 60000},
}

type result struct {
	sc      scenario
	primes  int
	scans   timing.Summary
	checks  timing.Summary
	digest  string
	checked int
}

func runScenario(ctx context.Context, sc scenario, runs int) (result, error) {
	res := result{sc: sc}
	var elapsed, checks []time.Duration
	for i := 0; i < runs; i++ {
		s := scan.New(scan.Config{Start: sc.start, End: sc.end, TimeSuffix: "ms"}, io.Discard)
		r, err := s.Run(ctx)
		if err != nil {
			return res, err
		}
		if res.digest != "" && res.digest != r.Digest {
			return res, fmt.Errorf("digest changed between runs: %s != %s", res.digest, r.Digest)
		}
		res.digest = r.Digest
		res.primes = r.Primes
		res.checked = r.Checked
		elapsed = append(elapsed, r.Elapsed)
		checks = append(checks, r.Durations...)
	}
	res.scans = timing.Summarize(elapsed)
	res.checks = timing.Summarize(checks)
	return res, nil
}

func main() {
	outFile := flag.String("out", "bench/scale_results.csv", "output CSV")
	runs := flag.Int("runs", 5, "scans per scenario")
	only := flag.Int64("only", 0, "run only the scenario starting at this candidate (0=all)")
	flag.Parse()

	var scenarios []scenario
	if *only > 0 {
		for _, sc := range allScenarios {
			if sc.start == *only {
				scenarios = append(scenarios, sc)
			}
		}
		if len(scenarios) == 0 {
			fmt.Fprintf(os.Stderr, "No scenario starting at %d\n", *only)
			os.Exit(1)
		}
	} else {
		scenarios = allScenarios
	}

	f, err := os.Create(*outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{
		"start", "end", "candidates", "primes",
		"scan_mean_ms", "scan_p95_ms", "check_p50_ms", "check_p95_ms", "check_max_ms", "digest",
	})

	ctx := context.Background()
	for _, sc := range scenarios {
		fmt.Printf("\n=== [%d, %d) x %d runs ===\n", sc.start, sc.end, *runs)
		res, err := runScenario(ctx, sc, *runs)
		if err != nil {
			fmt.Printf("  ERROR: %v, skipping\n", err)
			continue
		}
		fmt.Printf("  primes: %d of %d\n", res.primes, res.checked)
		fmt.Printf("  scan:   %s\n", res.scans)
		fmt.Printf("  check:  %s\n", res.checks)

		w.Write([]string{
			fmt.Sprintf("%d", sc.start),
			fmt.Sprintf("%d", sc.end),
			fmt.Sprintf("%d", res.checked),
			fmt.Sprintf("%d", res.primes),
			fmt.Sprintf("%.3f", timing.Millis(res.scans.Mean)),
			fmt.Sprintf("%.3f", timing.Millis(res.scans.P95)),
			fmt.Sprintf("%.4f", timing.Millis(res.checks.P50)),
			fmt.Sprintf("%.4f", timing.Millis(res.checks.P95)),
			fmt.Sprintf("%.4f", timing.Millis(res.checks.Max)),
			res.digest,
		})
		w.Flush()
	}
	fmt.Printf("\nResults written to %s\n", *outFile)
}
