// Package stdlogging implements sklogimpl.Logger on top of
// github.com/jcgregorio/logger, writing to any SyncWriter such as os.Stderr.
package stdlogging

import (
	"github.com/jcgregorio/logger"

	"github.com/pairedstats/infra/go/sklog/sklogimpl"
)

type stdlog struct {
	logger *logger.Logger
	min    sklogimpl.Severity
}

// New returns a sklogimpl.Logger that writes every severity to dst.
func New(dst logger.SyncWriter) sklogimpl.Logger {
	return NewWithMinSeverity(dst, sklogimpl.Debug)
}

// NewWithMinSeverity returns a sklogimpl.Logger that drops messages below
// min. Fatal messages are always written.
func NewWithMinSeverity(dst logger.SyncWriter, min sklogimpl.Severity) sklogimpl.Logger {
	if min > sklogimpl.Fatal {
		min = sklogimpl.Fatal
	}
	return &stdlog{
		logger: logger.NewFromOptions(&logger.Options{
			SyncWriter:   dst,
			DepthDelta:   3,
			IncludeDebug: min <= sklogimpl.Debug,
		}),
		min: min,
	}
}

// Log implements sklogimpl.Logger.
func (s *stdlog) Log(_ int, severity sklogimpl.Severity, format string, args ...interface{}) {
	if severity < s.min {
		return
	}
	plain := format == ""
	switch severity {
	case sklogimpl.Debug:
		if plain {
			s.logger.Debug(args...)
		} else {
			s.logger.Debugf(format, args...)
		}
	case sklogimpl.Info:
		if plain {
			s.logger.Info(args...)
		} else {
			s.logger.Infof(format, args...)
		}
	case sklogimpl.Warning:
		if plain {
			s.logger.Warning(args...)
		} else {
			s.logger.Warningf(format, args...)
		}
	case sklogimpl.Fatal:
		if plain {
			s.logger.Fatal(args...)
		} else {
			s.logger.Fatalf(format, args...)
		}
	default:
		if plain {
			s.logger.Error(args...)
		} else {
			s.logger.Errorf(format, args...)
		}
	}
}

// Flush implements sklogimpl.Logger. Every write is already synced.
func (s *stdlog) Flush() {}
