package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath_ExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".npmrc"), ExpandPath("~/.npmrc"))
	assert.Equal(t, "/etc/environment", ExpandPath("/etc/environment"))
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, PathExists(file))
	assert.False(t, PathExists(filepath.Join(dir, "absent")))
}

func TestCanWrite_ChecksFileThenParentDir(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.True(t, CanWrite(file))

	// Absent file in a writable directory.
	assert.True(t, CanWrite(filepath.Join(dir, "new.txt")))
}

func TestRunCommand_ReturnsTrimmedOutput(t *testing.T) {
	out, err := RunCommand(DefaultCommandTimeout, "echo", "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRunCommand_ReportsDeadline_WhenCommandHangs(t *testing.T) {
	_, err := RunCommand(50*time.Millisecond, "sleep", "5")
	assert.Error(t, err)
}

func TestRunCommandQuiet_ReportsMissingBinary(t *testing.T) {
	err := RunCommandQuiet(DefaultCommandTimeout, "definitely-not-a-real-binary-xyz")
	assert.Error(t, err)
}

func TestRunCommandQuiet_IgnoresExitStatus(t *testing.T) {
	err := RunCommandQuiet(DefaultCommandTimeout, "false")
	assert.NoError(t, err)
}

func TestCommandExists(t *testing.T) {
	assert.True(t, CommandExists("echo"))
	assert.False(t, CommandExists("definitely-not-a-real-binary-xyz"))
}
