package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "code", "abc")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "code=abc")

	_, err = New(&buf, "loud")
	assert.Error(t, err)
}

func TestInit_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	l, closeFn, err := Init("debug", path)
	require.NoError(t, err)
	l.Debug("hello", "seat", "A")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "seat=A")
}

func TestInit_RotatesLargeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), maxLogSize+1), 0o644))

	_, closeFn, err := Init("info", path)
	require.NoError(t, err)
	closeFn()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "server.log.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestInit_Stderr(t *testing.T) {
	t.Parallel()

	l, closeFn, err := Init("info", "")
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.NotPanics(t, closeFn)

	_, _, err = Init("nope", "")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Discard().Error("ignored", "err", "x") })
}
