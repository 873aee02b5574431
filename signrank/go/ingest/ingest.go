// Package ingest reads paired samples from CSV files and named traces from
// JSON or YAML trace set files.
package ingest

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pairedstats/infra/go/util"
)

// Samples are the measurements of a single trace.
type Samples struct {
	// Params describe the trace, e.g. {"config": "gl", "name": "draw_rects"}.
	Params map[string]string

	Values []float64
}

// Trace is a named series of values as stored in a trace set file.
type Trace struct {
	Name   string            `json:"name" yaml:"name"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Values []float64         `json:"values" yaml:"values"`
}

// TraceSet is the top level of a trace set file.
type TraceSet struct {
	Traces []Trace `json:"traces" yaml:"traces"`
}

// Format of a trace set file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromFilename picks the Format from the file extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", errors.Errorf("unknown trace set format for %q, want .json, .yaml or .yml", filename)
}

// ReadTraceSet decodes a trace set in the given format.
func ReadTraceSet(r io.Reader, format Format) (TraceSet, error) {
	var ts TraceSet
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&ts); err != nil {
			return ts, errors.Wrap(err, "decoding JSON trace set")
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&ts); err != nil && err != io.EOF {
			return ts, errors.Wrap(err, "decoding YAML trace set")
		}
	default:
		return ts, errors.Errorf("unsupported trace set format %q", format)
	}
	return ts, nil
}

// ToSamples indexes the traces by name. Names must be unique and non-empty.
// A trace without params gets {"name": <name>}.
func (ts TraceSet) ToSamples() (map[string]Samples, error) {
	ret := make(map[string]Samples, len(ts.Traces))
	for i, t := range ts.Traces {
		if t.Name == "" {
			return nil, errors.Errorf("trace %d has no name", i)
		}
		if _, ok := ret[t.Name]; ok {
			return nil, errors.Errorf("duplicate trace name %q", t.Name)
		}
		params := t.Params
		if len(params) == 0 {
			params = map[string]string{"name": t.Name}
		}
		ret[t.Name] = Samples{
			Params: params,
			Values: t.Values,
		}
	}
	return ret, nil
}

// ReadSamples decodes a trace set and indexes it by trace name.
func ReadSamples(r io.Reader, format Format) (map[string]Samples, error) {
	ts, err := ReadTraceSet(r, format)
	if err != nil {
		return nil, err
	}
	return ts.ToSamples()
}

// ReadSamplesFromFile is ReadSamples on a file whose format is picked from its
// extension.
func ReadSamplesFromFile(filename string) (map[string]Samples, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	var ret map[string]Samples
	err = util.WithReadFile(filename, func(r io.Reader) error {
		var err error
		ret, err = ReadSamples(r, format)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading traces from %s", filename)
	}
	return ret, nil
}
