package sklogimpl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines   []string
	flushed int
}

func (r *recordingLogger) Log(depth int, severity Severity, format string, args ...interface{}) {
	msg := fmt.Sprint(args...)
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	r.lines = append(r.lines, fmt.Sprintf("%s %d %s", severity, depth, msg))
}

func (r *recordingLogger) Flush() {
	r.flushed++
}

func TestLog_ForwardsToBackendWithExtraDepth(t *testing.T) {
	r := &recordingLogger{}
	SetLogger(r)
	defer SetLogger(nil)

	Log(1, Warning, "%d pairs", 3)
	Log(0, Info, "", "plain ", "text")
	Flush()

	assert.Equal(t, []string{"WARNING 2 3 pairs", "INFO 1 plain text"}, r.lines)
	assert.Equal(t, 1, r.flushed)
}

func TestLog_NoBackend_DoesNotPanic(t *testing.T) {
	SetLogger(nil)
	Log(0, Error, "nobody is listening")
	Flush()
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("warning")
	require.NoError(t, err)
	assert.Equal(t, Warning, s)

	s, err = ParseSeverity("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, Debug, s)

	_, err = ParseSeverity("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}
