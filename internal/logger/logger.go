package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"cloudriddle/internal/config"
)

// Log files, one per level.
const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	zl     zerolog.Logger
	logDir string
	mu     *sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) *Logger {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	writer := &levelWriter{
		stdout: zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006/01/02 15:04:05"},
		stderr: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006/01/02 15:04:05"},
		files: map[zerolog.Level]io.Writer{
			zerolog.InfoLevel:  openLogFile(filepath.Join(config.LogDirectory, InfoFile)),
			zerolog.WarnLevel:  openLogFile(filepath.Join(config.LogDirectory, WarningFile)),
			zerolog.ErrorLevel: openLogFile(filepath.Join(config.LogDirectory, ErrorFile)),
		},
	}

	return &Logger{
		zl:     zerolog.New(writer).Level(parseLevel(config.LogLevel)).With().Timestamp().Logger(),
		logDir: config.LogDirectory,
		mu:     &sync.Mutex{},
	}
}

// NewWriterLogger creates a Logger that writes JSON lines to w only.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{
		zl: zerolog.New(w).With().Timestamp().Logger(),
		mu: &sync.Mutex{},
	}
}

// NewNop creates a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop(), mu: &sync.Mutex{}}
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// openLogFile opens or creates a log file for appending.
func openLogFile(filename string) *os.File {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", filename, err)
	}
	return file
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		zl:     l.zl.With().Str(key, value).Logger(),
		logDir: l.logDir,
		mu:     l.mu,
	}
}

// Debug writes a formatted debug-level log entry.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// LogDir returns the directory holding the log files.
func (l *Logger) LogDir() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logDir == "" {
		return fmt.Errorf("logger has no log directory")
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	if err := os.Truncate(filePath, 0); err != nil {
		l.Error("Error truncating log file %s: %v", fileName, err)
		return err
	}

	l.Info("Log file %s has been cleared.", fileName)
	return nil
}

// levelWriter sends every entry to the console and to the file of its level.
type levelWriter struct {
	stdout io.Writer
	stderr io.Writer
	files  map[zerolog.Level]io.Writer
	mu     sync.Mutex
}

func (w *levelWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	console := w.stdout
	if level >= zerolog.ErrorLevel {
		console = w.stderr
	}
	if _, err := console.Write(p); err != nil {
		return 0, err
	}

	file, ok := w.files[level]
	if !ok {
		if level < zerolog.InfoLevel {
			return len(p), nil
		}
		file = w.files[zerolog.ErrorLevel]
	}
	return file.Write(p)
}
