// Command fsbench measures file system metadata and data operations against
// the file system named by a configuration resource.
//
//	fsbench -conf core-site.xml -ops create,delete -benchtime 1000x
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/fsbench"
	"github.com/hupe1980/fsbench/harness"
	"github.com/hupe1980/fsbench/prommetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fsbench:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fl := flag.NewFlagSet("fsbench", flag.ContinueOnError)
	var (
		conf      = fl.String("conf", fsbench.DefaultConfig, "configuration resource (XML or YAML), DEFAULT for the local file system")
		baseDir   = fl.String("base-dir", fsbench.DefaultBaseDir, "directory below which the run root is created")
		runID     = fl.String("run-id", "", "suffix for the run root, for concurrent runs on one base directory")
		ops       = fl.String("ops", "all", "comma separated operations to measure")
		benchtime = fl.String("benchtime", "100x", "per-operation run length, as accepted by go test -benchtime")
		seed      = fl.Uint64("seed", 0, "seed for names and payload, 0 for a random seed")
		workers   = fl.Int("fixture-workers", fsbench.DefaultFixtureWorkers, "parallel fixture writes")
		metrics   = fl.String("metrics-addr", "", "serve Prometheus fixture metrics on this address, e.g. :2112")
		logLevel  slog.Level
	)
	fl.TextVar(&logLevel, "log-level", slog.LevelWarn, "log level (debug, info, warn, error)")
	if err := fl.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	selected, err := fsbench.ParseOperations(*ops)
	if err != nil {
		return err
	}

	testing.Init()
	if err := flag.Set("test.benchtime", *benchtime); err != nil {
		return fmt.Errorf("invalid -benchtime %q: %w", *benchtime, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := fsbench.NewTextLogger(logLevel)
	stats := &fsbench.BasicMetricsCollector{}
	var collector fsbench.MetricsCollector = stats
	if *metrics != "" {
		reg := prometheus.NewRegistry()
		collector = teeCollector{stats, prommetrics.NewCollector(reg)}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metrics, mux); err != nil {
				logger.Error("metrics server failed", "addr", *metrics, "error", err)
			}
		}()
	}

	optFns := []fsbench.Option{
		fsbench.WithBaseDir(*baseDir),
		fsbench.WithRunID(*runID),
		fsbench.WithFixtureWorkers(*workers),
		fsbench.WithLogger(logger),
		fsbench.WithMetricsCollector(collector),
	}
	if *seed != 0 {
		optFns = append(optFns, fsbench.WithRandSeed(*seed))
	}

	c, err := fsbench.Open(ctx, *conf, optFns...)
	if err != nil {
		return err
	}
	defer c.Teardown(context.WithoutCancel(ctx))

	start := time.Now()
	if err := c.Setup(ctx); err != nil {
		return err
	}
	probe := c.ProbeAppendSupport(ctx)

	fmt.Printf("file system: %s\n", c.FileSystem().URI())
	fmt.Printf("run root:    %s\n", c.Paths().Root)
	fmt.Printf("append:      %s\n", probe.Outcome)
	if probe.Cause != nil {
		fmt.Printf("             %v\n", probe.Cause)
	}
	fmt.Printf("setup:       %s\n\n", time.Since(start).Round(time.Millisecond))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "operation\tn\tns/op\tB/op\tallocs/op\t")
	for _, bc := range harness.Suite(ctx, c, selected...) {
		if ctx.Err() != nil {
			break
		}
		res := testing.Benchmark(bc.F)
		if res.N == 0 {
			tw.Flush()
			return fmt.Errorf("%s: benchmark failed", bc.Name)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n",
			bc.Name, res.N, res.NsPerOp(), res.AllocedBytesPerOp(), res.AllocsPerOp())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	st := stats.GetStats()
	fmt.Printf("\nrepairs: %d (%d failed, avg %s)\n",
		st.RepairCount, st.RepairErrors, time.Duration(st.RepairAvgNanos))
	return ctx.Err()
}

// teeCollector forwards every record to each collector.
type teeCollector []fsbench.MetricsCollector

func (t teeCollector) RecordProbe(capability string, outcome fsbench.ProbeOutcome) {
	for _, c := range t {
		c.RecordProbe(capability, outcome)
	}
}

func (t teeCollector) RecordRepair(stage string, d time.Duration, err error) {
	for _, c := range t {
		c.RecordRepair(stage, d, err)
	}
}

func (t teeCollector) RecordCleanup(d time.Duration, err error) {
	for _, c := range t {
		c.RecordCleanup(d, err)
	}
}
