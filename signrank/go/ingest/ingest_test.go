package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromFilename(t *testing.T) {
	test := func(name, filename string, expected Format) {
		t.Run(name, func(t *testing.T) {
			f, err := FormatFromFilename(filename)
			require.NoError(t, err)
			assert.Equal(t, expected, f)
		})
	}
	test("json", "runs/before.json", JSON)
	test("yaml", "after.yaml", YAML)
	test("yml upper case", "AFTER.YML", YAML)

	_, err := FormatFromFilename("data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.csv")
}

func TestReadSamplesFromFile_JSONAndYAML_DecodeTheSameTraces(t *testing.T) {
	before, err := ReadSamplesFromFile(filepath.Join("testdata", "before.json"))
	require.NoError(t, err)
	after, err := ReadSamplesFromFile(filepath.Join("testdata", "after.yaml"))
	require.NoError(t, err)

	assert.Equal(t, map[string]Samples{
		"draw_rects": {
			Params: map[string]string{"name": "draw_rects", "config": "gl"},
			Values: []float64{12, 11, 13, 15},
		},
		"draw_text": {
			Params: map[string]string{"name": "draw_text"},
			Values: []float64{5, 5, 5, 5},
		},
	}, before)
	require.Len(t, after, 2)
	assert.Equal(t, []float64{2, 1, 3, 5}, after["draw_rects"].Values)
	assert.Equal(t, before["draw_rects"].Params, after["draw_rects"].Params)
}

func TestReadSamples_DuplicateName_Error(t *testing.T) {
	_, err := ReadSamples(strings.NewReader(`{"traces": [{"name": "a", "values": [1]}, {"name": "a", "values": [2]}]}`), JSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestReadSamples_MissingName_Error(t *testing.T) {
	_, err := ReadSamples(strings.NewReader("traces:\n  - values: [1, 2]\n"), YAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestReadSamples_Malformed_Error(t *testing.T) {
	_, err := ReadSamples(strings.NewReader(`{"traces": [`), JSON)
	require.Error(t, err)

	_, err = ReadSamples(strings.NewReader(`{}`), Format("toml"))
	require.Error(t, err)
}

func TestReadSamples_EmptyYAML_NoTraces(t *testing.T) {
	s, err := ReadSamples(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestReadSamplesFromFile_MissingFile_Error(t *testing.T) {
	_, err := ReadSamplesFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}
