// Package sklog is the logging facade used by every binary and library in
// this module. The backend is chosen with sklogimpl.SetLogger and defaults to
// a jcgregorio/logger writing to stderr.
package sklog

import (
	"os"

	"github.com/pairedstats/infra/go/sklog/sklogimpl"
	"github.com/pairedstats/infra/go/sklog/stdlogging"
)

func init() {
	sklogimpl.SetLogger(stdlogging.New(os.Stderr))
}

// Debug, Info, Warning, Error and Fatal format their arguments with
// fmt.Sprint, the f variants with fmt.Sprintf. The WithDepth variants skip
// depth extra stack frames when reporting the caller.

func Debug(msg ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Debug, "", msg...)
}

func Debugf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Debug, format, v...)
}

func DebugfWithDepth(depth int, format string, v ...interface{}) {
	sklogimpl.Log(1+depth, sklogimpl.Debug, format, v...)
}

func Info(msg ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Info, "", msg...)
}

func Infof(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Info, format, v...)
}

func InfofWithDepth(depth int, format string, v ...interface{}) {
	sklogimpl.Log(1+depth, sklogimpl.Info, format, v...)
}

func Warning(msg ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Warning, "", msg...)
}

func Warningf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Warning, format, v...)
}

func Error(msg ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Error, "", msg...)
}

func Errorf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Error, format, v...)
}

func ErrorfWithDepth(depth int, format string, v ...interface{}) {
	sklogimpl.Log(1+depth, sklogimpl.Error, format, v...)
}

// Fatal and Fatalf exit the program after logging.
func Fatal(msg ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Fatal, "", msg...)
}

func Fatalf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Fatal, format, v...)
}

// Flush writes out any buffered log messages.
func Flush() {
	sklogimpl.Flush()
}
