package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel converts a config value such as "debug" to a LogLevel.
// Unknown values map to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "fatal":
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})

	SetLevel(level LogLevel)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogFormat represents the log output format
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// ParseLogFormat converts "json" or "text" to a LogFormat
func ParseLogFormat(s string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return LogFormatJSON
	}
	return LogFormatText
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level       LogLevel
	Format      LogFormat
	Output      io.Writer
	EnableFile  bool
	FilePath    string
	MaxSizeMB   int // Rotate after this many megabytes
	MaxFiles    int // Rotated files to keep, 0 keeps all
	MaxAgeDays  int
	EnableColor bool
}

// DefaultLoggerConfig returns a default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		Output:      os.Stderr,
		MaxSizeMB:   10,
		MaxFiles:    3,
		MaxAgeDays:  7,
		EnableColor: true,
	}
}

// SplitLogger is the zap backed Logger implementation
type SplitLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
	file  io.Closer
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) (*SplitLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	level := zap.NewAtomicLevelAt(config.Level.zapLevel())

	consoleEnc := newEncoder(config.Format, config.EnableColor)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.AddSync(config.Output), level),
	}

	var file io.Closer
	if config.EnableFile && config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		rotating := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxFiles,
			MaxAge:     config.MaxAgeDays,
			LocalTime:  true,
		}
		file = rotating

		// Files always get uncolored JSON
		cores = append(cores, zapcore.NewCore(newEncoder(LogFormatJSON, false), zapcore.AddSync(rotating), level))
	}

	l := newLoggerFromCore(zapcore.NewTee(cores...), level)
	l.file = file
	return l, nil
}

func newLoggerFromCore(core zapcore.Core, level zap.AtomicLevel) *SplitLogger {
	return &SplitLogger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func newEncoder(format LogFormat, color bool) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	if format == LogFormatJSON {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Debug logs a debug message
func (l *SplitLogger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

// Info logs an info message
func (l *SplitLogger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

// Warn logs a warning message
func (l *SplitLogger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

// Error logs an error message
func (l *SplitLogger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Fatal logs a fatal message and exits
func (l *SplitLogger) Fatal(msg string, args ...interface{}) {
	l.sugar.Fatalf(msg, args...)
}

// SetLevel sets the logging level
func (l *SplitLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// WithField returns a logger with an additional field
func (l *SplitLogger) WithField(key string, value interface{}) Logger {
	return &SplitLogger{
		sugar: l.sugar.With(key, value),
		level: l.level,
		file:  l.file,
	}
}

// WithFields returns a logger with additional fields
func (l *SplitLogger) WithFields(fields map[string]interface{}) Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &SplitLogger{
		sugar: l.sugar.With(args...),
		level: l.level,
		file:  l.file,
	}
}

// Close flushes buffered entries and closes the log file
func (l *SplitLogger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Global logger instance
var globalLogger Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) (*SplitLogger, error) {
	logger, err := NewLogger(config)
	if err != nil {
		return nil, err
	}
	globalLogger = logger
	return logger, nil
}

// SetGlobalLogger replaces the global logger
func SetGlobalLogger(logger Logger) {
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalLogger == nil {
		// Initialize with default config if not set
		logger, _ := NewLogger(DefaultLoggerConfig())
		globalLogger = logger
	}
	return globalLogger
}

// NopLogger returns a logger that discards everything
func NopLogger() Logger {
	return &SplitLogger{
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevel(),
	}
}
