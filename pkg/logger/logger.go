package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/mr-shifu/textbook-rsa/pkg/config"
	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
)

// Logger is the structured logging interface used outside the core math
// packages. args are slog key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// New returns a text logger writing to w.
func New(w io.Writer, level string) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &slogLogger{logger: slog.New(slog.NewTextHandler(w, opts))}
}

// NewConsoleLogger returns a text logger writing to stderr.
func NewConsoleLogger(level string) Logger {
	return New(os.Stderr, level)
}

// NewFileLogger returns a JSON logger writing to a rotated file.
func NewFileLogger(s *config.LoggerSettings) Logger {
	writer := &lumberjack.Logger{
		Filename:   s.FilePath,
		MaxSize:    s.MaxSize,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAge,
		Compress:   true,
	}
	opts := &slog.HandlerOptions{Level: parseLevel(s.LogLevel)}
	return &slogLogger{logger: slog.New(slog.NewJSONHandler(writer, opts))}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return New(io.Discard, config.LogLevelError)
}

// NewLogger builds the logger described by s.
func NewLogger(s *config.LoggerSettings) (Logger, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.WithMessage(err, "logger: invalid config")
	}

	switch s.LogType {
	case config.LogTypeConsole:
		return NewConsoleLogger(s.LogLevel), nil
	case config.LogTypeFile:
		return NewFileLogger(s), nil
	default:
		return nil, errors.Errorf("logger: unsupported log type: %s", s.LogType)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
