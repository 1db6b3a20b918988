// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging appends timestamped run records to
// <state dir>/logs/postsmith.log so a batch can be inspected after the
// console output is gone.
package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// FileName is the log file name inside the logs directory.
const FileName = "postsmith.log"

// Logger writes leveled lines to the run log. A nil *Logger discards
// everything, so callers never need to check.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string
	now  func() time.Time
}

// New opens (or creates) stateDir/logs/postsmith.log for appending.
func New(stateDir string) (*Logger, error) {
	dir := filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, path: path, now: time.Now}, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Log writes one line at level.
func (l *Logger) Log(level Level, format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	msg = strings.ReplaceAll(msg, "\n", " | ")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "%s %-5s %s\n", l.now().UTC().Format(time.RFC3339), level, msg)
}

// Infof logs at INFO.
func (l *Logger) Infof(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Warnf logs at WARN.
func (l *Logger) Warnf(format string, args ...any) { l.Log(LevelWarn, format, args...) }

// Errorf logs at ERROR.
func (l *Logger) Errorf(format string, args ...any) { l.Log(LevelError, format, args...) }

// Tail returns up to n of the most recent lines of the log file at path.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logging: read log file: %w", err)
	}
	return lines, nil
}
