// Adjacent-index-key removal stress test for docstore.
//
// Seeds 100 documents whose array field holds 11 consecutive integers, so the
// index over the field is densely packed with adjacent keys. One goroutine
// then removes and reinserts random documents while the main goroutine drains
// full index-hinted scans. Any scan result that carries an error fails the
// run.
//
// On failure the run record (seed, config, stats, error) is written to
// --artifact-dir/run.json; rerun with --seed to replay the worker's draws.
//
// Usage: go run ./cmd/removestress [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/aalhour/docstore"
	"github.com/aalhour/docstore/internal/logging"
	"github.com/aalhour/docstore/internal/stress"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one stress run and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "removestress: %v\n", err)
		return 2
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewLogger(stderr, level)

	opts, err := cfg.StoreOptions(logger)
	if err != nil {
		fmt.Fprintf(stderr, "removestress: %v\n", err)
		return 2
	}
	store, err := docstore.Open(opts)
	if err != nil {
		fmt.Fprintf(stderr, "removestress: open store: %v\n", err)
		return 1
	}
	defer store.Close()

	coll, err := store.Collection(cfg.Collection)
	if err != nil {
		fmt.Fprintf(stderr, "removestress: %v\n", err)
		return 1
	}

	h, err := stress.New(stress.FromStore(coll), cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "removestress: %v\n", err)
		return 2
	}
	printBanner(stdout, cfg, h.Seed())

	report, runErr := h.Run(ctx)
	printStats(stdout, report)

	if runErr != nil {
		fmt.Fprintf(stdout, "\n❌ STRESS TEST FAILED (%s): %v\n", stress.Class(runErr), runErr)
		if cfg.ArtifactDir != "" {
			path, err := stress.WriteArtifact(cfg.ArtifactDir, stress.NewRunInfo(cfg, report, runErr))
			if err != nil {
				fmt.Fprintf(stderr, "removestress: %v\n", err)
			} else {
				fmt.Fprintf(stdout, "📁 Run record: %s\n", path)
			}
		}
		fmt.Fprintf(stdout, "Replay with: --seed=%d\n", report.Seed)
		return 1
	}

	if report.TeardownErr != nil {
		fmt.Fprintf(stdout, "⚠️  %v\n", report.TeardownErr)
	}
	fmt.Fprintln(stdout, "✅ STRESS TEST PASSED")
	return 0
}

// parseFlags layers the config file (if any) over the defaults, then any flag
// set explicitly on the command line over that.
func parseFlags(args []string, stderr io.Writer) (stress.Config, error) {
	fs := flag.NewFlagSet("removestress", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := stress.DefaultConfig()
	configPath := fs.String("config", "", "JSONC config file; flags override its values")
	collection := fs.String("collection", def.Collection, "Collection to run against")
	documents := fs.Int("documents", def.Documents, "Number of seeded documents (key space is 11x this)")
	iterations := fs.Int("iterations", def.Iterations, "Worker remove/reinsert iterations")
	repetitions := fs.Int("repetitions", def.Repetitions, "Probe scan repetitions")
	seed := fs.Int64("seed", def.Seed, "Worker random seed (0 for time-based)")
	timeout := fs.Duration("timeout", time.Duration(def.Timeout), "Abort the run after this long (0 to disable)")
	compressionType := fs.String("compression", def.Compression, "Record compression: none, snappy, zlib, lz4, zstd")
	checksumType := fs.String("checksum", def.Checksum, "Record checksum: crc32c, xxh3")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: error, warn, info, debug")
	verbose := fs.BoolP("verbose", "v", false, "Shorthand for --log-level=debug")
	artifactDir := fs.String("artifact-dir", def.ArtifactDir, "Write run.json here when the run fails")

	if err := fs.Parse(args); err != nil {
		return stress.Config{}, err
	}
	if fs.NArg() > 0 {
		return stress.Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := def
	if *configPath != "" {
		loaded, err := stress.LoadConfig(*configPath)
		if err != nil {
			return stress.Config{}, err
		}
		cfg = loaded
	}

	if fs.Changed("collection") {
		cfg.Collection = *collection
	}
	if fs.Changed("documents") {
		cfg.Documents = *documents
	}
	if fs.Changed("iterations") {
		cfg.Iterations = *iterations
	}
	if fs.Changed("repetitions") {
		cfg.Repetitions = *repetitions
	}
	if fs.Changed("seed") {
		cfg.Seed = *seed
	}
	if fs.Changed("timeout") {
		cfg.Timeout = stress.Duration(*timeout)
	}
	if fs.Changed("compression") {
		cfg.Compression = *compressionType
	}
	if fs.Changed("checksum") {
		cfg.Checksum = *checksumType
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if fs.Changed("artifact-dir") {
		cfg.ArtifactDir = *artifactDir
	}

	return cfg, cfg.Validate()
}

func printBanner(w io.Writer, cfg stress.Config, seed int64) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  docstore adjacent-index-key removal stress test")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Collection:   %s (index {%s: 1})\n", cfg.Collection, cfg.Field)
	fmt.Fprintf(w, "  Documents:    %d (keys [0, %d))\n", cfg.Documents, cfg.KeySpace())
	fmt.Fprintf(w, "  Iterations:   %d\n", cfg.Iterations)
	fmt.Fprintf(w, "  Repetitions:  %d\n", cfg.Repetitions)
	fmt.Fprintf(w, "  Records:      compression=%s checksum=%s\n", cfg.Compression, cfg.Checksum)
	if cfg.Timeout > 0 {
		fmt.Fprintf(w, "  Timeout:      %s\n", time.Duration(cfg.Timeout))
	}
	fmt.Fprintf(w, "  Seed:         %d\n", seed)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

func printStats(w io.Writer, r stress.Report) {
	s := r.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "📊 Statistics (%s, state %s):\n", r.Elapsed.Round(time.Millisecond), r.State)
	fmt.Fprintf(w, "   Seeded:     %d\n", s.Seeded)
	fmt.Fprintf(w, "   Iterations: %d (skipped %d)\n", s.Iterations, s.Skips)
	fmt.Fprintf(w, "   Lookups:    %d\n", s.Lookups)
	fmt.Fprintf(w, "   Removes:    %d\n", s.Removes)
	fmt.Fprintf(w, "   Inserts:    %d\n", s.Inserts)
	fmt.Fprintf(w, "   Scans:      %d (%d results)\n", s.Scans, s.Scanned)
}
