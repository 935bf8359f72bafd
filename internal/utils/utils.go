package utils

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every external tool invocation. Local file
// I/O is never wrapped in a deadline; only process-boundary calls are.
const DefaultCommandTimeout = 5 * time.Second

var osUserHomeDir = os.UserHomeDir

// ExpandPath expands a leading ~/ against the current home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := osUserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func PathExists(path string) bool {
	_, err := os.Stat(ExpandPath(path))
	return err == nil
}

func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// CanWrite reports whether the current user may rewrite the file: the file
// itself when it exists, its parent directory otherwise.
func CanWrite(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return isWritable(path)
	}
	return isWritable(filepath.Dir(path))
}

func isWritable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err == nil {
		f.Close()
		return true
	}
	if os.IsPermission(err) {
		return false
	}
	// Directories reject O_WRONLY; fall back to a unix access-style probe
	// via a temp file when the target is a directory.
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		probe, probeErr := os.CreateTemp(path, ".probe-*")
		if probeErr != nil {
			return false
		}
		probe.Close()
		os.Remove(probe.Name())
		return true
	}
	return false
}

// RunCommand runs an external tool with a deadline and returns its combined
// trimmed stdout. A missing binary surfaces as exec.ErrNotFound via the
// returned error; a deadline hit surfaces as context.DeadlineExceeded.
func RunCommand(timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return strings.TrimSpace(string(output)), err
}

// RunCommandQuiet runs an external tool for its side effect only, ignoring
// its exit status but still reporting missing binaries and timeouts.
func RunCommandQuiet(timeout time.Duration, name string, args ...string) error {
	if !CommandExists(name) {
		return exec.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	_ = cmd.Run()
	return ctx.Err()
}
