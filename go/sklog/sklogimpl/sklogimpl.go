// Package sklogimpl holds the pluggable backend behind package sklog. It is a
// separate package so that backends can import it without importing sklog.
package sklogimpl

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Severity is the level of a log message.
type Severity int

// The severities, in increasing order.
const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	}
	return "UNKNOWN"
}

// ParseSeverity converts a name such as "info" or "WARNING" into a Severity.
func ParseSeverity(name string) (Severity, error) {
	for s := Debug; s <= Fatal; s++ {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return Info, errors.Errorf("unknown log severity %q", name)
}

// Logger is implemented by logging backends.
type Logger interface {
	// Log writes a message. depth is the number of stack frames between the
	// caller of the sklog function and the call to Log. If format is empty
	// the args are formatted with fmt.Sprint, otherwise with fmt.Sprintf.
	Log(depth int, severity Severity, format string, args ...interface{})

	// Flush writes out any buffered messages.
	Flush()
}

var (
	mutex  sync.RWMutex
	logger Logger
)

// SetLogger replaces the backend used by package sklog.
func SetLogger(l Logger) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = l
}

// Log forwards to the current backend, if any.
func Log(depth int, severity Severity, format string, args ...interface{}) {
	mutex.RLock()
	l := logger
	mutex.RUnlock()
	if l != nil {
		l.Log(depth+1, severity, format, args...)
	}
}

// Flush flushes the current backend, if any.
func Flush() {
	mutex.RLock()
	l := logger
	mutex.RUnlock()
	if l != nil {
		l.Flush()
	}
}
