// Command attractor-analyze scores a corpus of model responses and writes the
// report to the configured sinks (or stdout when none are set)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"attractor/internal/adapters/ingest"
	"attractor/internal/adapters/sink/sinkset"
	"attractor/internal/core/version"
	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	analyzemod "attractor/internal/services/analyze/module"
	"attractor/internal/services/analyze/service"
)

const name = "attractor-analyze"

// paths collects repeated -in flags
type paths []string

func (p *paths) String() string { return strings.Join(*p, ",") }
func (p *paths) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func setEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var in paths
	fs.Var(&in, "in", "input file or directory (repeatable)")
	var (
		format   = fs.String("format", "auto", "input format: csv|jsonl|completion|auto")
		profile  = fs.String("profile", "", "profile file (yaml or json); empty uses the embedded default")
		mode     = fs.String("mode", "", "counting mode: multiset|distinct")
		window   = fs.Int("window", 0, "rolling window in days (0 keeps the profile value)")
		minNode  = fs.Int("min-node", -1, "graph node frequency threshold (-1 keeps the profile value)")
		minEdge  = fs.Int("min-edge", -1, "graph edge weight threshold (-1 keeps the profile value)")
		workers  = fs.Int("workers", 0, "scoring workers (0 = NumCPU)")
		reqTS    = fs.Bool("require-timestamp", false, "reject records without a timestamp")
		out      = fs.String("out", "", "directory for report.json and the CSV tables")
		sqlite   = fs.String("sqlite", "", "sqlite file to write the report into")
		usePG    = fs.Bool("pg", false, "write to postgres (PG_URL)")
		useCH    = fs.Bool("ch", false, "write to clickhouse (CH_URL)")
		useNATS  = fs.Bool("nats", false, "publish the summary on NATS (NATS_URL, NATS_SUBJECT)")
		records  = fs.Bool("records", false, "include per-record scores")
		showVers = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *showVers {
		fmt.Fprintln(stdout, version.Info(name))
		return 0
	}

	setEnv("LOG_SERVICE", name)
	l := logger.Get()

	// flags land in CORE_ANALYZE_* so the module reads one config surface
	setEnv("CORE_ANALYZE_PROFILE", *profile)
	setEnv("CORE_ANALYZE_COUNTING_MODE", *mode)
	if *window != 0 {
		setEnv("CORE_ANALYZE_WINDOW", strconv.Itoa(*window))
	}
	if *minNode >= 0 {
		setEnv("CORE_ANALYZE_MIN_NODE_FREQUENCY", strconv.Itoa(*minNode))
	}
	if *minEdge >= 0 {
		setEnv("CORE_ANALYZE_MIN_EDGE_WEIGHT", strconv.Itoa(*minEdge))
	}
	if *workers > 0 {
		setEnv("CORE_ANALYZE_WORKERS", strconv.Itoa(*workers))
	}
	if *reqTS {
		setEnv("CORE_ANALYZE_REQUIRE_TIMESTAMP", "true")
	}
	if *records {
		setEnv("CORE_ANALYZE_KEEP_RECORDS", "true")
	}

	err := analyze(ctx, config.New(), in, *format, sinkset.Options{
		OutDir:     *out,
		SQLitePath: *sqlite,
		PG:         *usePG,
		CH:         *useCH,
		NATS:       *useNATS,
	}, stdout)
	if err != nil {
		l.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("analyze failed")
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
	}
	return perr.ExitCode(err)
}

func analyze(ctx context.Context, root config.Conf, in []string, format string, so sinkset.Options, stdout io.Writer) error {
	opts, err := analyzemod.FromConfig(root)
	if err != nil {
		return err
	}
	svc, err := opts.NewService()
	if err != nil {
		return err
	}
	f, err := ingest.ParseFormat(format)
	if err != nil {
		return err
	}

	batch, err := (&ingest.Source{Paths: in, Format: f}).Load(ctx)
	if err != nil {
		return err
	}

	sinks, err := sinkset.Open(ctx, root, so)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sinks.Close(context.Background()); cerr != nil {
			logger.Get().Warn().Err(cerr).Msg("close sinks")
		}
	}()

	rep, err := svc.Analyze(ctx, batch)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if len(sinks.Sinks) == 0 {
		if err := enc.Encode(rep); err != nil {
			return perr.Wrap(err, perr.ErrorCodeIO, "write report")
		}
		return nil
	}
	if err := service.Deliver(ctx, rep, sinks.Sinks...); err != nil {
		return err
	}
	if err := enc.Encode(rep.Summary); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write summary")
	}
	return nil
}
