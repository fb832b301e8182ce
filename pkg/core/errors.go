package core

import "fmt"

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SchemaError reports a file missing a required field, or a field whose
// shape does not match the documented schema.
type SchemaError struct {
	File  string
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: bad or missing field %q", e.File, e.Field)
}

// InsufficientDataError reports a run with too few distinct samples to
// resample onto a uniform grid.
type InsufficientDataError struct {
	ID      string
	Samples int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("run %s: %d distinct samples, resampling needs at least 2", e.ID, e.Samples)
}

// InvalidSplitRatioError reports a split that cannot be performed, either
// because the ratio is outside (0,1) or because the dataset is empty.
type InvalidSplitRatioError struct {
	Ratio float64
	Size  int
}

func (e *InvalidSplitRatioError) Error() string {
	if e.Size == 0 {
		return fmt.Sprintf("cannot split an empty dataset (ratio %g)", e.Ratio)
	}
	return fmt.Sprintf("split ratio must be inside (0,1), got %g", e.Ratio)
}
