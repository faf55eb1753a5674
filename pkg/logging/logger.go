// Package logging writes per-session debug logs for clay.
//
// Each process gets one session id and one log file under ~/.clay/logs, and
// every component logger appends to it. Verbose mode lowers the level to
// debug and mirrors entries to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// session is the log destination shared by every Logger of the process.
type session struct {
	idOnce sync.Once
	id     string

	dirOnce sync.Once
	dir     string
	dirErr  error
}

func (s *session) ID() string {
	s.idOnce.Do(func() { s.id = uuid.New().String() })
	return s.id
}

// Dir creates the log directory on first use. An empty dir means
// ~/.clay/logs.
func (s *session) Dir() (string, error) {
	s.dirOnce.Do(func() {
		if s.dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				s.dirErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			s.dir = filepath.Join(home, ".clay", "logs")
		}
		if err := os.MkdirAll(s.dir, 0750); err != nil {
			s.dirErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return s.dir, s.dirErr
}

func (s *session) file() string {
	return filepath.Join(s.dir, s.ID()+"-clay.log")
}

var (
	current = &session{}

	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mirrorMu sync.RWMutex
	mirror   io.Writer
)

// SetVerbose switches every logger created afterwards between info and
// debug. Verbose loggers also write to stderr.
func SetVerbose(verbose bool) {
	mirrorMu.Lock()
	defer mirrorMu.Unlock()

	mirror = nil
	level.SetLevel(zapcore.InfoLevel)
	if verbose {
		mirror = os.Stderr
		level.SetLevel(zapcore.DebugLevel)
	}
}

func sinks(primary zapcore.WriteSyncer) zapcore.WriteSyncer {
	mirrorMu.RLock()
	defer mirrorMu.RUnlock()
	if mirror == nil {
		return primary
	}
	return zapcore.NewMultiWriteSyncer(primary, zapcore.AddSync(mirror))
}

func encoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(cfg)
}

// Logger is a component-scoped logger backed by the session file.
type Logger struct {
	component string
	session   string
	path      string

	file      *os.File
	sugar     *zap.SugaredLogger
	closeOnce sync.Once
}

// NewLogger opens the session log file for component. When the file cannot
// be opened the returned logger writes to stderr and the error says why.
func NewLogger(component string) (*Logger, error) {
	if _, err := current.Dir(); err != nil {
		return stderrLogger(component, err), err
	}

	path := current.file()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return stderrLogger(component, err), err
	}

	core := zapcore.NewCore(encoder(), sinks(zapcore.AddSync(f)), level)
	return &Logger{
		component: component,
		session:   current.ID(),
		path:      path,
		file:      f,
		sugar:     zap.New(core).Named(component).Sugar(),
	}, nil
}

// MustLogger is NewLogger for callers that are fine with the stderr
// fallback.
func MustLogger(component string) *Logger {
	l, _ := NewLogger(component)
	return l
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{component: "nop", session: current.ID(), sugar: zap.NewNop().Sugar()}
}

func stderrLogger(component string, cause error) *Logger {
	core := zapcore.NewCore(encoder(), zapcore.Lock(os.Stderr), level)
	l := &Logger{
		component: component,
		session:   current.ID(),
		sugar:     zap.New(core).Named(component).Sugar(),
	}
	l.sugar.Warnf("logging to stderr: %v", cause)
	return l
}

// Printf is Infof, for code that expects a log.Logger-like value.
func (l *Logger) Printf(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a child logger that adds keysAndValues to every entry. The
// child shares the parent's file; closing the parent closes it.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		component: l.component,
		session:   l.session,
		path:      l.path,
		sugar:     l.sugar.With(keysAndValues...),
	}
}

// Writer exposes the underlying file, or stderr for fallback loggers.
func (l *Logger) Writer() io.Writer {
	if l.file == nil {
		return os.Stderr
	}
	return l.file
}

func (l *Logger) SessionID() string { return l.session }
func (l *Logger) Component() string { return l.component }

// LogPath is empty for fallback and nop loggers.
func (l *Logger) LogPath() string { return l.path }

// Close flushes and closes the file. Repeated calls return nil.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		_ = l.sugar.Sync()
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the process-wide session id.
func GetSessionID() string { return current.ID() }

// GetLogDirectory returns the log directory, creating it if needed.
func GetLogDirectory() (string, error) { return current.Dir() }
