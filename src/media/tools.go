package media

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/oops"
)

// runTool invokes an external media tool with a hard timeout, returning its
// stdout. It is a variable so tests can substitute a fake.
var runTool = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, config.Config.Media.ToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, oops.New(err, "failed to run %s: %s", name, stderr.String())
	}
	return stdout.Bytes(), nil
}

// withTempFile writes data to a transient file and calls fn with its path.
// The file is removed on every exit path.
func withTempFile(pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return oops.New(err, "failed to create temp file")
	}
	defer os.Remove(f.Name())

	_, err = f.Write(data)
	closeErr := f.Close()
	if err != nil {
		return oops.New(err, "failed to write temp file")
	}
	if closeErr != nil {
		return oops.New(closeErr, "failed to close temp file")
	}

	return fn(f.Name())
}

// withTempPath reserves a transient output path for a tool to write to and
// calls fn with it. The file is removed on every exit path.
func withTempPath(pattern string, fn func(path string) error) error {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return oops.New(err, "failed to create temp file")
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	return fn(path)
}
