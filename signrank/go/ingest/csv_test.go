package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPairsFromFile_HeaderAndBlankLines_AreSkipped(t *testing.T) {
	x, y, err := ReadPairsFromFile(filepath.Join("testdata", "pairs.csv"), ParseFloat64)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 6, 5.5, 11}, x)
	assert.Equal(t, []float64{8.5, 9, 6.5, 10.5}, y)
}

func TestReadPairs_NoHeader_FirstRowIsData(t *testing.T) {
	x, y, err := ReadPairs(strings.NewReader("1, 2\n-3, 4\n"), ParseInt64)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -3}, x)
	assert.Equal(t, []int64{2, 4}, y)
}

func TestReadPairs_WrongColumnCount_ErrorNamesLine(t *testing.T) {
	_, _, err := ReadPairs(strings.NewReader("1,2\n3,4,5\n"), ParseFloat64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadPairs_BadNumberAfterFirstRow_ErrorNamesLine(t *testing.T) {
	_, _, err := ReadPairs(strings.NewReader("x,y\n1,2\n3,abc\n"), ParseFloat64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadPairs_FirstRowHalfNumeric_IsAnErrorNotAHeader(t *testing.T) {
	_, _, err := ReadPairs(strings.NewReader("1.5,abc\n2,3\n"), ParseFloat64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadPairs_IntKind_RejectsFractions(t *testing.T) {
	_, _, err := ReadPairs(strings.NewReader("1,2\n1.5,2\n"), ParseInt64)
	require.Error(t, err)
}

func TestReadPairs_Empty_ReturnsEmptySlices(t *testing.T) {
	x, y, err := ReadPairs(strings.NewReader(""), ParseFloat64)
	require.NoError(t, err)
	assert.Empty(t, x)
	assert.Empty(t, y)
}
