package util

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pairedstats/infra/go/sklog"
)

// Close closes the given Closer and logs any error at the caller's location.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		sklog.ErrorfWithDepth(1, "Failed to Close(): %v", err)
	}
}

// Remove removes the specified file and logs an error if one is returned.
func Remove(name string) {
	if err := os.Remove(name); err != nil {
		sklog.ErrorfWithDepth(1, "Failed to Remove(%s): %v", name, err)
	}
}

// LogErr logs err if it is not nil.
func LogErr(err error) {
	if err != nil {
		sklog.ErrorfWithDepth(1, "Unexpected error: %s", err)
	}
}

// WithReadFile opens the given file for reading and runs fn on it. The file is
// closed when fn returns.
func WithReadFile(file string, fn func(f io.Reader) error) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer Close(f)
	return fn(f)
}

// WithWriteFile writes to a temporary file next to file and renames it into
// place only if writeFn succeeds, so readers never see a partial file.
func WithWriteFile(file string, writeFn func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(file), filepath.Base(file))
	if err != nil {
		return errors.Wrap(err, "Failed to create temporary file for WithWriteFile")
	}
	if err := writeFn(f); err != nil {
		Close(f)
		Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		Remove(f.Name())
		return errors.Wrap(err, "Failed to close temporary file for WithWriteFile")
	}
	if err := os.Rename(f.Name(), file); err != nil {
		return errors.Wrap(err, "Failed to rename temporary file for WithWriteFile")
	}
	return nil
}
