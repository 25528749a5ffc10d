// Package applog provides structured logging for vcsview. It wraps
// tea.LogToFile with level/category fields, narrowed from the teacher's
// internal/log to the categories this domain's event loop actually emits.
package applog

import (
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kestrel-tools/vcsview/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatMode    Category = "mode"    // mode FSM transitions
	CatBackend Category = "backend" // backend command invocations
	CatWorker  Category = "worker"  // background job lifecycle
	CatUI      Category = "ui"      // drawer/render and top-level loop
)

// Logger is a file-backed structured logger with a pubsub tail.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init enables logging to path using bubbletea's own debug-log helper
// (tea.LogToFile), exactly as the teacher's InitWithTeaLog does. Returns a
// cleanup function to close the file, and a no-op if called more than
// once in a process.
func Init(path string) (func(), error) {
	var initErr error
	once.Do(func() {
		f, err := tea.LogToFile(path, "vcsview")
		if err != nil {
			initErr = err
			return
		}
		defaultLogger = &Logger{
			file:     f,
			enabled:  true,
			minLevel: LevelDebug,
			broker:   pubsub.NewBroker[string](),
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return func() {}, nil
	}
	return func() { _ = defaultLogger.file.Close() }, nil
}

// Broker exposes the log-tail broker, or nil if logging was never
// initialized. A future log-tail view subscribes via this.
func Broker() *pubsub.Broker[string] {
	if defaultLogger == nil {
		return nil
	}
	return defaultLogger.broker
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields...) }
func Info(cat Category, msg string, fields ...any)  { write(LevelInfo, cat, msg, fields...) }
func Warn(cat Category, msg string, fields ...any)  { write(LevelWarn, cat, msg, fields...) }
func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields...) }

func write(level Level, cat Category, msg string, fields ...any) {
	if defaultLogger == nil || !defaultLogger.enabled || level < defaultLogger.minLevel {
		return
	}

	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	entry := fmt.Sprintf("%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	entry += "\n"

	_, _ = defaultLogger.file.WriteString(entry)
	defaultLogger.broker.Publish(pubsub.CreatedEvent, entry)
}
