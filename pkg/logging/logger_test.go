package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// useTempLogDir points the package at a fresh log directory and session,
// restoring the previous state when the test ends.
func useTempLogDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	prev, prevLevel := current, level.Level()
	current = &session{dir: dir}

	t.Cleanup(func() {
		current = prev
		level.SetLevel(prevLevel)
	})
	return dir
}

// readLog closes l and returns its file content.
func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	require.NoError(t, l.Close())
	content, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(content)
}

func TestNewLoggerCreatesSessionFile(t *testing.T) {
	dir := useTempLogDir(t)

	l, err := NewLogger("driver")
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "driver", l.Component())
	assert.NotEmpty(t, l.SessionID())
	assert.Equal(t, dir, filepath.Dir(l.LogPath()))
	assert.FileExists(t, l.LogPath())

	name := filepath.Base(l.LogPath())
	assert.Equal(t, l.SessionID()+"-clay.log", name)
	assert.Len(t, strings.Split(l.SessionID(), "-"), 5, "uuid session id")
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   zapcore.Level
		want    []string
		notWant []string
	}{
		{
			name:  "debug",
			level: zapcore.DebugLevel,
			want: []string{
				"INFO notebook printed 7",
				"DEBUG notebook polling",
				"INFO notebook opened",
				"WARN notebook slow",
				"ERROR notebook failed",
			},
		},
		{
			name:    "info",
			level:   zapcore.InfoLevel,
			want:    []string{"INFO notebook opened", "WARN notebook slow"},
			notWant: []string{"polling"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempLogDir(t)
			level.SetLevel(tt.level)

			l, err := NewLogger("notebook")
			require.NoError(t, err)
			l.Printf("printed %d", 7)
			l.Debugf("polling")
			l.Infof("opened")
			l.Warnf("slow")
			l.Errorf("failed")

			content := readLog(t, l)
			for _, s := range tt.want {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestSetVerbose(t *testing.T) {
	useTempLogDir(t)
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(true)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	SetVerbose(false)
	assert.Equal(t, zapcore.InfoLevel, level.Level())
}

func TestComponentsShareSessionFile(t *testing.T) {
	useTempLogDir(t)

	cli, err := NewLogger("cli")
	require.NoError(t, err)
	driver, err := NewLogger("driver")
	require.NoError(t, err)

	assert.Equal(t, cli.SessionID(), driver.SessionID())
	assert.Equal(t, cli.LogPath(), driver.LogPath())

	cli.Infof("opening notebook")
	driver.Infof("browser ready")
	require.NoError(t, driver.Close())

	content := readLog(t, cli)
	assert.Contains(t, content, "cli opening notebook")
	assert.Contains(t, content, "driver browser ready")
}

func TestWith(t *testing.T) {
	useTempLogDir(t)

	l, err := NewLogger("cells")
	require.NoError(t, err)
	child := l.With("cell", 3)
	child.Infof("typed")

	assert.Equal(t, l.LogPath(), child.LogPath())
	assert.Equal(t, "cells", child.Component())
	assert.Contains(t, readLog(t, l), `typed {"cell": 3}`)
}

func TestSessionAndDirectory(t *testing.T) {
	dir := useTempLogDir(t)

	id := GetSessionID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetSessionID())

	got, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, got)
}

func TestCloseTwice(t *testing.T) {
	useTempLogDir(t)

	l, err := NewLogger("cli")
	require.NoError(t, err)
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infof("dropped %d", 1)
	l.With("k", "v").Errorf("dropped")

	assert.Empty(t, l.LogPath())
	assert.Equal(t, os.Stderr, l.Writer())
	assert.NoError(t, l.Close())
}
