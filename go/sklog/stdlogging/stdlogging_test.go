package stdlogging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pairedstats/infra/go/sklog/sklogimpl"
)

type fauxSyncWriter struct {
	bytes.Buffer
}

func (f *fauxSyncWriter) Sync() error {
	return nil
}

func TestNew_WritesFormattedAndPlainMessages(t *testing.T) {
	var w fauxSyncWriter
	l := New(&w)
	l.Log(0, sklogimpl.Info, "p-value %.2f", 0.25)
	l.Log(0, sklogimpl.Error, "", "plain", " message")
	l.Flush()

	out := w.String()
	assert.Contains(t, out, "p-value 0.25")
	assert.Contains(t, out, "plain message")
}

func TestNewWithMinSeverity_DropsLowerSeverities(t *testing.T) {
	var w fauxSyncWriter
	l := NewWithMinSeverity(&w, sklogimpl.Warning)
	l.Log(0, sklogimpl.Debug, "debug line")
	l.Log(0, sklogimpl.Info, "info line")
	l.Log(0, sklogimpl.Warning, "warning line")
	l.Log(0, sklogimpl.Error, "error line")

	out := w.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warning line")
	assert.Contains(t, out, "error line")
}
