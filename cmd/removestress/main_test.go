package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalhour/docstore/internal/stress"
)

func TestParseFlagsLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.jsonc")
	err := os.WriteFile(path, []byte(`{
		// file values
		"iterations": 10,
		"repetitions": 5,
		"seed": 7,
	}`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := parseFlags([]string{"--config", path, "--seed=99", "--timeout=3s", "-v"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Iterations != 10 || cfg.Repetitions != 5 {
		t.Errorf("Iterations, Repetitions = %d, %d, want file values 10, 5", cfg.Iterations, cfg.Repetitions)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want flag value 99", cfg.Seed)
	}
	if time.Duration(cfg.Timeout) != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", time.Duration(cfg.Timeout))
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Documents != stress.DefaultConfig().Documents {
		t.Errorf("Documents = %d, want default", cfg.Documents)
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--documents=0"},
		{"--compression=brotli"},
		{"--no-such-flag"},
		{"extra"},
	} {
		if _, err := parseFlags(args, &bytes.Buffer{}); err == nil {
			t.Errorf("parseFlags(%q) succeeded", args)
		}
	}
}

func TestRunPasses(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--seed=42", "--iterations=200", "--repetitions=20", "--log-level=error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout.String(), stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"Seed:         42", "STRESS TEST PASSED", "Iterations: 200", "Lookups:    200"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRunFailureWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--seed=5", "--artifact-dir", dir, "--log-level=error"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1\nstdout:\n%s", code, stdout.String())
	}
	if !strings.Contains(stdout.String(), "--seed=5") {
		t.Errorf("stdout missing replay hint:\n%s", stdout.String())
	}

	info, err := stress.ReadArtifact(filepath.Join(dir, stress.ArtifactFile))
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if info.Seed != 5 || info.State != "idle" || info.ErrorClass != "canceled" {
		t.Errorf("artifact = seed %d state %q class %q, want 5 idle canceled", info.Seed, info.State, info.ErrorClass)
	}
}
