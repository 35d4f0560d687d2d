package showheat

import (
	"errors"
	"fmt"
)

// ErrEmptyMatrix indicates the ratings grid has no cells.
var ErrEmptyMatrix = errors.New("matrix has no cells")

// ErrBadValue indicates a rating that is not a finite number.
var ErrBadValue = errors.New("rating is not a finite number")

// ErrUnknownShape indicates an unrecognized cell shape name.
var ErrUnknownShape = errors.New("unknown shape")

// ErrUnknownColormap indicates a colormap name missing from the registry.
var ErrUnknownColormap = errors.New("unknown colormap")

// ErrUnknownFormat indicates an unsupported output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrNoData indicates an input that produced no usable ratings.
var ErrNoData = errors.New("no data")

// DataError represents a problem with the ratings themselves.
// Row and Col are zero-based; they are -1 when the error is not
// tied to a single cell.
type DataError struct {
	Row int
	Col int
	Err error
}

func (e *DataError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("data error at row %d, col %d: %v", e.Row, e.Col, e.Err)
	}
	return fmt.Sprintf("data error: %v", e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a DataError for the given cell.
func NewDataError(row, col int, err error) *DataError {
	return &DataError{Row: row, Col: col, Err: err}
}

// ConfigError represents an invalid rendering option.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError for the given option field.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Err: err}
}
