// pkg/pipeline/errors.go
package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies a step of the report pipeline
type Stage int

const (
	StageLoad Stage = iota
	StageRender
	StageWrite
	StageExport
)

// String returns a string representation of the stage
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageRender:
		return "render"
	case StageWrite:
		return "write"
	case StageExport:
		return "export"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StageError records the pipeline step an error came from
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage reports the stage an error was raised in
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return 0, false
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
