// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesLeveledLines(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	l.Infof("created %s", "_posts/a.html")
	l.Warnf("unknown category %q\n", "Unknown")
	l.Errorf("placing failed:\nline two")
	require.NoError(t, l.Close())

	assert.Equal(t, filepath.Join(dir, "logs", FileName), l.Path())
	lines, err := Tail(l.Path(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2026-03-14T09:30:00Z INFO  created _posts/a.html",
		`2026-03-14T09:30:00Z WARN  unknown category "Unknown"`,
		"2026-03-14T09:30:00Z ERROR placing failed: | line two",
	}, lines)
}

func TestLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		l, err := New(dir)
		require.NoError(t, err)
		l.Infof("run %d", i)
		require.NoError(t, l.Close())
	}
	lines, err := Tail(filepath.Join(dir, "logs", FileName), 10)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Infof("ignored")
	assert.NoError(t, l.Close())
	assert.Empty(t, l.Path())
}

func TestTail(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		l.Infof("line %d", i)
	}
	require.NoError(t, l.Close())

	lines, err := Tail(l.Path(), 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "line 3")
	assert.Contains(t, lines[1], "line 4")

	missing, err := Tail(filepath.Join(dir, "nope.log"), 3)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
