package reference

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn     = errors.New("required column missing")
	ErrUnsupportedFormat = errors.New("unsupported reference file format")
	ErrNoHeader          = errors.New("reference file has no header row")
)

// LoadError reports a reference schedule that could not be loaded.
// It is fatal at startup.
type LoadError struct {
	Table    string
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s reference table from %s: %v", e.Table, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
