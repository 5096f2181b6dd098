// Package logger provides charmbracelet/log loggers for the packages and
// commands. Everything goes to stderr by default; in serve mode stdout
// carries the msgpack stream and must stay clean.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
)

// SetOutput redirects loggers created afterwards, and the global logger.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
	log.SetOutput(w)
}

func writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// Setup configures the global logger: Warn level by default, Debug with
// timestamps and caller info when debug is set.
func Setup(debug bool) {
	log.SetOutput(writer())
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
	log.SetReportCaller(false)
}

// New creates a prefixed logger with timestamps at the global level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(writer(), log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Interactive creates a prefixed logger without timestamps for the CLI shell.
func Interactive(prefix string) *log.Logger {
	l := New(prefix)
	l.SetReportTimestamp(false)
	return l
}
