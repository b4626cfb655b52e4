package reference

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ndisfraud/internal/port"
	s3storage "ndisfraud/internal/storage/s3"
)

// Table names used for the two schedules.
const (
	TableActive   = "active"
	TableInactive = "inactive"
)

// Schedules holds the current and superseded support item tables.
type Schedules struct {
	Active   *Table
	Inactive *Table
}

// Loader reads schedules from local files or object storage.
type Loader struct {
	storage port.ObjectStorage
	columns Columns
	sheet   string
}

// NewLoader creates a Loader. storage may be nil when every location is a local path.
func NewLoader(storage port.ObjectStorage, cols Columns, sheet string) *Loader {
	return &Loader{storage: storage, columns: cols, sheet: sheet}
}

// Load reads one schedule. Every failure is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context, name, location string) (*Table, error) {
	t, err := l.load(ctx, name, location)
	if err != nil {
		return nil, &LoadError{Table: name, Location: location, Err: err}
	}
	return t, nil
}

func (l *Loader) load(ctx context.Context, name, location string) (*Table, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(location)); ext {
	case ".csv", ".txt":
		return ReadCSV(name, bytes.NewReader(data), l.columns)
	case ".xlsx", ".xlsm":
		return ReadXLSX(name, bytes.NewReader(data), l.sheet, l.columns)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if bucket, key, ok := s3storage.ParseURI(location); ok {
		if l.storage == nil {
			return nil, fmt.Errorf("object storage not configured for %s", location)
		}
		return l.storage.Download(ctx, bucket, key)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// LoadSchedules loads the active and inactive schedules.
func (l *Loader) LoadSchedules(ctx context.Context, activeLocation, inactiveLocation string) (*Schedules, error) {
	active, err := l.Load(ctx, TableActive, activeLocation)
	if err != nil {
		return nil, err
	}
	inactive, err := l.Load(ctx, TableInactive, inactiveLocation)
	if err != nil {
		return nil, err
	}
	return &Schedules{Active: active, Inactive: inactive}, nil
}
