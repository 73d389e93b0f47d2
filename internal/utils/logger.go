// Package utils contains the file-backed logger shared by every component.
package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger is a logrus logger writing to a log file (or stdout when the file
// cannot be opened).
type Logger struct {
	*logrus.Logger
	file *os.File
}

// DefaultLogPath returns logs/dashsync.log next to the running executable,
// or under the temp directory when the executable cannot be resolved.
func DefaultLogPath() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, rerr := filepath.EvalSymlinks(exe); rerr == nil && resolved != "" {
			exe = resolved
		}
		return filepath.Join(filepath.Dir(exe), "logs", "dashsync.log")
	}
	return filepath.Join(os.TempDir(), "dashsync", "logs", "dashsync.log")
}

// NewLogger opens logFile for appending. An empty path selects
// DefaultLogPath; "-" logs to stdout only.
func NewLogger(logFile, level string) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	if logFile == "-" {
		l.SetOutput(os.Stdout)
		return l
	}
	if logFile == "" {
		logFile = DefaultLogPath()
	}

	// Try to ensure directory exists first
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.SetOutput(os.Stdout)
		l.WithError(err).WithField("path", logFile).Warn("Error opening log file; logging to stdout")
		return l
	}
	l.file = f
	l.SetOutput(io.MultiWriter(f, os.Stdout))
	return l
}

// Close flushes and closes the log file.
func (l *Logger) Close() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.file.Sync()
	_ = l.file.Close()
	l.file = nil
	l.SetOutput(os.Stdout)
}

// File returns the underlying log file when available.
func (l *Logger) File() *os.File {
	if l == nil {
		return nil
	}
	return l.file
}
