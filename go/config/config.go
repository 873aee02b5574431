// Package config loads JSON5 configuration files into structs and checks that
// required fields were supplied.
package config

import (
	"encoding/json"
	"io"
	"reflect"
	"time"

	"github.com/flynn/json5"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/pairedstats/infra/go/util"
)

// Duration allows a duration to be supplied as a human readable string such
// as "30s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrapf(err, "duration must be a string, got %s", b)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// LoadFromJSON5 decodes the JSON5 file at path into dst, which must be a
// pointer to a struct with "json" tags. Fields already set in dst are kept
// unless the file overrides them. An error is returned for every non-struct,
// non-bool field that is left at its zero value, unless the field is tagged
// `optional:"true"`.
func LoadFromJSON5(dst interface{}, path string) error {
	rType := reflect.TypeOf(dst)
	if rType == nil || rType.Kind() != reflect.Pointer || rType.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Input must be a pointer to a struct, got %T", dst)
	}
	err := util.WithReadFile(path, func(r io.Reader) error {
		return json5.NewDecoder(r).Decode(dst)
	})
	if err != nil {
		return errors.Wrapf(err, "reading config at %s", path)
	}
	return CheckRequired(dst)
}

// CheckRequired applies the required field rules of LoadFromJSON5 to a struct
// or pointer to struct, reporting every missing field at once.
func CheckRequired(src interface{}) error {
	rValue := reflect.Indirect(reflect.ValueOf(src))
	if rValue.Kind() != reflect.Struct {
		return errors.Errorf("Input must be a struct, got %T", src)
	}
	var result *multierror.Error
	checkRequired(rValue, &result)
	return result.ErrorOrNil()
}

func checkRequired(rValue reflect.Value, result **multierror.Error) {
	rType := rValue.Type()
	for i := 0; i < rValue.NumField(); i++ {
		field := rType.Field(i)
		if field.Type.Kind() == reflect.Struct {
			checkRequired(rValue.Field(i), result)
			continue
		}
		if field.Type.Kind() == reflect.Bool {
			// Requiring a bool would force it to be true.
			continue
		}
		if field.Tag.Get("json") == "" {
			// e.g. Duration.Duration
			continue
		}
		if field.Tag.Get("optional") == "true" {
			continue
		}
		if rValue.Field(i).IsZero() {
			*result = multierror.Append(*result, errors.Errorf("Required %s to be non-zero", field.Name))
		}
	}
}
