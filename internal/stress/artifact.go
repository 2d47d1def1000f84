package stress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/natefinch/atomic"
)

// ArtifactFile is the name of the failure record written into the artifact
// directory.
const ArtifactFile = "run.json"

// RunInfo is the failure record of a run: enough to replay it with the same
// seed and to see how far it got.
type RunInfo struct {
	Timestamp time.Time `json:"timestamp"`
	GoVersion string    `json:"go_version"`
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`

	Seed   int64  `json:"seed"`
	Config Config `json:"config"`

	// State is the state the run reached: the state it failed in, or done.
	State      string        `json:"state"`
	ErrorClass string        `json:"error_class,omitempty"`
	Error      string        `json:"error,omitempty"`
	Elapsed    string        `json:"elapsed"`
	Stats      StatsSnapshot `json:"stats"`
}

// NewRunInfo builds the record for a finished run.
func NewRunInfo(cfg Config, report Report, runErr error) RunInfo {
	info := RunInfo{
		Timestamp:  time.Now().UTC(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Seed:       report.Seed,
		Config:     cfg,
		State:      report.State.String(),
		ErrorClass: Class(runErr),
		Elapsed:    report.Elapsed.String(),
		Stats:      report.Stats,
	}
	info.Config.Seed = report.Seed
	if report.State == StateFailed {
		info.State = report.FailedIn.String()
	}
	if runErr != nil {
		info.Error = runErr.Error()
	}
	return info
}

// WriteArtifact writes info to dir/run.json, creating dir if needed. The file
// is replaced atomically so a reader never sees a partial record.
func WriteArtifact(dir string, info RunInfo) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run info: %w", err)
	}
	path := filepath.Join(dir, ArtifactFile)
	if err := atomic.WriteFile(path, bytes.NewReader(append(data, '\n'))); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadArtifact loads a record written by WriteArtifact.
func ReadArtifact(path string) (RunInfo, error) {
	var info RunInfo
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parse %s: %w", path, err)
	}
	return info, nil
}
