// Package logger provides leveled, colored logging for the game binaries.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel controls which messages a logger emits.
type LogLevel int

// Available log levels, from most to least verbose.
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Named logger instances shared across the binaries.
var (
	Server = New("SERVER")
	Client = New("CLIENT")
)

var loggers = []*Logger{Server, Client}

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColors = map[LogLevel]*color.Color{
	DEBUG: color.New(color.FgCyan),
	INFO:  color.New(color.FgGreen),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed, color.Bold),
}

// Logger writes timestamped, leveled messages to the console and
// optionally to a file. The console copy carries a colored level tag,
// the file copy is plain text.
type Logger struct {
	mu    sync.Mutex
	name  string
	level LogLevel
	file  *os.File
}

// New creates a logger tagged with the given component name.
func New(name string) *Logger {
	return &Logger{
		name:  name,
		level: INFO,
	}
}

// SetGlobalLogLevel applies the given level to all named loggers.
func SetGlobalLogLevel(level LogLevel) {
	for _, l := range loggers {
		l.SetLevel(level)
	}
}

// InitializeFileLogging attaches a log file under dir to every named
// logger, one file per logger.
func InitializeFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	for _, l := range loggers {
		path := filepath.Join(dir, strings.ToLower(l.name)+".log")
		if err := l.SetFile(path); err != nil {
			return err
		}
	}
	return nil
}

// SetLevel changes the minimum level this logger emits.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFile directs a copy of this logger's output to the given file,
// replacing any previously attached file.
func (l *Logger) SetFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Fatal logs a message at ERROR level and exits the process.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
	os.Exit(1)
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)

	tag := levelColors[level].Sprintf("[%s]", levelNames[level])
	fmt.Printf("[%s] %s [%s] %s\n", timestamp, tag, l.name, message)

	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] [%s] [%s] %s\n", timestamp, levelNames[level], l.name, message)
	}
}
