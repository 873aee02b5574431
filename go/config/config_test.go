package config

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Enabled bool     `json:"enabled"`
	Timeout Duration `json:"timeout" optional:"true"`
	Note    string   `json:"note" optional:"true"`
}

func TestLoadFromJSON5_Success(t *testing.T) {
	var c testConfig
	require.NoError(t, LoadFromJSON5(&c, filepath.Join("testdata", "full.json5")))
	assert.Equal(t, testConfig{
		Name:    "nightly",
		Count:   12,
		Timeout: Duration{Duration: 90 * time.Second},
	}, c)
}

func TestLoadFromJSON5_RequiredFieldsMissing_ReportsAll(t *testing.T) {
	var c testConfig
	err := LoadFromJSON5(&c, filepath.Join("testdata", "missing.json5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Count")
	assert.NotContains(t, err.Error(), "Note")
}

func TestLoadFromJSON5_DefaultsSurviveWhenNotOverridden(t *testing.T) {
	c := testConfig{Name: "default", Count: 3, Note: "kept"}
	require.NoError(t, LoadFromJSON5(&c, filepath.Join("testdata", "missing.json5")))
	assert.Equal(t, "kept", c.Note)
	assert.True(t, c.Enabled)
}

func TestLoadFromJSON5_BadDuration_Error(t *testing.T) {
	var c testConfig
	err := LoadFromJSON5(&c, filepath.Join("testdata", "bad_duration.json5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forever")
}

func TestLoadFromJSON5_MissingFile_Error(t *testing.T) {
	var c testConfig
	err := LoadFromJSON5(&c, filepath.Join("testdata", "nope.json5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json5")
}

func TestLoadFromJSON5_NotAStructPointer_Error(t *testing.T) {
	var s string
	require.Error(t, LoadFromJSON5(&s, filepath.Join("testdata", "full.json5")))
	require.Error(t, LoadFromJSON5(testConfig{}, filepath.Join("testdata", "full.json5")))
}

func TestDuration_MarshalJSON_UsesStringForm(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 5 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, `"5m0s"`, string(b))
}
