package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/oceanplexian/primescan/internal/config"
	"github.com/oceanplexian/primescan/internal/logging"
	"github.com/oceanplexian/primescan/internal/metrics"
	"github.com/oceanplexian/primescan/internal/scan"
)

const version = "1.0.0"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	configFile  string
	start       *int64
	end         *int64
	metricsFile string
	quiet       bool
	verbose     int
	help        bool
	version     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if opts.help {
		printUsage(stdout)
		return exitOK
	}
	if opts.version {
		fmt.Fprintf(stdout, "primescan %s\n", version)
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitUsage
	}

	logger, err := logging.NewLogger(cfg.LogFile, cfg.LogStderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitFailure
	}
	defer logger.Close()
	if cfg.LogStderr {
		logger.SetStderr(stderr)
	}
	logger.Verbosity = cfg.Verbosity
	logConfig(logger, cfg)

	collector := metrics.NewCollector()
	s := scan.New(cfg.ScanConfig(), stdout)
	s.Observer = scan.Observers{collector, logging.CheckLogger{Logger: logger}}

	logger.LogScanStart(s.Config)
	report, err := s.Run(ctx)
	if err != nil {
		logger.Log("SCAN FAILED: %s;%v", logger.RunID(), err)
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitFailure
	}
	logger.LogSummary(report.Summary())

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Log("METRICS WRITE FAILED: %v", err)
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return exitFailure
		}
	}

	if cfg.ExpectDigest != "" && cfg.ExpectDigest != report.Digest {
		logger.Log("DIGEST MISMATCH: expected %s, got %s", cfg.ExpectDigest, report.Digest)
		fmt.Fprintf(stderr, "Error: result digest %s does not match expected %s\n", report.Digest, cfg.ExpectDigest)
		return exitFailure
	}
	return exitOK
}

// loadConfig layers defaults, config file, .env/environment and flags.
func loadConfig(opts *options) (*config.MainConfig, error) {
	cfg := config.NewMainConfig()
	if opts.configFile != "" {
		var err error
		cfg, err = config.ReadMainConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
	}

	env, err := config.LoadEnvFiles(".env")
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	if opts.start != nil {
		cfg.RangeStart = *opts.start
	}
	if opts.end != nil {
		cfg.RangeEnd = *opts.end
	}
	if opts.metricsFile != "" {
		cfg.MetricsFile = opts.metricsFile
	}
	if opts.quiet {
		cfg.LogStderr = false
	}
	switch {
	case opts.verbose >= 2:
		cfg.Verbosity |= logging.VerboseConfig | logging.VerboseChecks
	case opts.verbose == 1:
		cfg.Verbosity |= logging.VerboseConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logConfig(l *logging.Logger, cfg *config.MainConfig) {
	l.LogConfig("range_start", cfg.RangeStart)
	l.LogConfig("range_end", cfg.RangeEnd)
	l.LogConfig("time_suffix", cfg.TimeSuffix)
	l.LogConfig("log_file", cfg.LogFile)
	l.LogConfig("verbosity", cfg.Verbosity)
	l.LogConfig("metrics_file", cfg.MetricsFile)
	l.LogConfig("expect_digest", cfg.ExpectDigest)
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Options that take a value.
		switch arg {
		case "-s", "--start", "-e", "--end", "-m", "--metrics":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("option %s requires a value", arg)
			}
			i++
			if err := opts.setValue(arg, args[i]); err != nil {
				return nil, err
			}
			continue
		}

		switch arg {
		case "-q", "--quiet":
			opts.quiet = true
		case "-v", "--verbose":
			opts.verbose++
		case "-h", "--help":
			opts.help = true
		case "-V", "--version":
			opts.version = true
		default:
			if strings.HasPrefix(arg, "-") && len(arg) > 1 {
				// Combined flags like -vv or -qv
				if arg[1] == '-' {
					return nil, fmt.Errorf("unknown option: %s", arg)
				}
				for _, ch := range arg[1:] {
					switch ch {
					case 'v':
						opts.verbose++
					case 'q':
						opts.quiet = true
					default:
						return nil, fmt.Errorf("unknown option: -%c", ch)
					}
				}
				continue
			}
			if opts.configFile != "" {
				return nil, fmt.Errorf("more than one config file given: %s, %s", opts.configFile, arg)
			}
			opts.configFile = arg
		}
	}
	return opts, nil
}

func (o *options) setValue(flag, val string) error {
	switch flag {
	case "-m", "--metrics":
		o.metricsFile = val
		return nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("option %s: invalid integer %q", flag, val)
	}
	switch flag {
	case "-s", "--start":
		o.start = &n
	case "-e", "--end":
		o.end = &n
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "\nprimescan %s\n", version)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: primescan [options] [config_file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tests every integer in [start, end) for primality by trial division and")
	fmt.Fprintln(w, "prints '<n>: <true|false>' per candidate followed by 'Time: <ms>'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -s, --start N                 First candidate (default 2000)")
	fmt.Fprintln(w, "  -e, --end N                   Exclusive upper bound (default 2400)")
	fmt.Fprintln(w, "  -m, --metrics FILE            Write Prometheus metrics to FILE after the scan")
	fmt.Fprintln(w, "  -q, --quiet                   Do not log to stderr")
	fmt.Fprintln(w, "  -v, --verbose                 Log configuration (-v -v also logs every check)")
	fmt.Fprintln(w, "  -V, --version                 Print version information")
	fmt.Fprintln(w, "  -h, --help                    Print this help message")
	fmt.Fprintln(w)
}
