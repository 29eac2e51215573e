// pkg/loader/errors.go
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
)

// MissingInputError is returned when the input table does not exist
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file %s not found: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// FileName returns the base name of the expected input file
func (e *MissingInputError) FileName() string {
	return filepath.Base(e.Path)
}

// UserMessage returns the two-line explanation shown to the user
func (e *MissingInputError) UserMessage() string {
	return fmt.Sprintf("Error: The file '%s' was not found.\n"+
		"Please make sure the file is in the same directory as this program.\n", e.FileName())
}

// IsMissingInput reports whether err is, or wraps, a MissingInputError
func IsMissingInput(err error) bool {
	var missing *MissingInputError
	return errors.As(err, &missing)
}
