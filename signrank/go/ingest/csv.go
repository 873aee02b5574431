package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pairedstats/infra/go/util"
	"github.com/pairedstats/infra/signrank/go/stats"
)

// ParseFloat64 parses a field as a float64.
func ParseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// ParseInt64 parses a field as a base 10 int64.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// ReadPairs reads two columns x,y from CSV. A first row where neither field
// parses is treated as a header and skipped. Blank lines are ignored.
func ReadPairs[T stats.Number](r io.Reader, parse func(string) (T, error)) ([]T, []T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	x := []T{}
	y := []T{}
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading CSV")
		}
		line, _ := cr.FieldPos(0)
		if len(record) != 2 {
			return nil, nil, errors.Errorf("line %d: want 2 columns, got %d", line, len(record))
		}
		a, errA := parse(strings.TrimSpace(record[0]))
		b, errB := parse(strings.TrimSpace(record[1]))
		if errA != nil && errB != nil && first {
			first = false
			continue
		}
		if errA != nil || errB != nil {
			if errA == nil {
				errA = errB
			}
			return nil, nil, errors.Wrapf(errA, "line %d", line)
		}
		first = false
		x = append(x, a)
		y = append(y, b)
	}
	return x, y, nil
}

// ReadPairsFromFile is ReadPairs on the named file.
func ReadPairsFromFile[T stats.Number](filename string, parse func(string) (T, error)) ([]T, []T, error) {
	var x, y []T
	err := util.WithReadFile(filename, func(r io.Reader) error {
		var err error
		x, y, err = ReadPairs(r, parse)
		return err
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading pairs from %s", filename)
	}
	return x, y, nil
}
