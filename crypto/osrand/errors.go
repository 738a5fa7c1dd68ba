package osrand

import (
	"github.com/pkg/errors"
)

// ErrUnknown is the single error reported by Fill and Read.
var ErrUnknown = errors.New("osrand: unknown error")

// Stages a failure can be attributed to. They label the failures metric.
const (
	stageReadiness = "readiness"
	stageOpen      = "open"
	stageFill      = "fill"
)

type stageError struct {
	stage string
	err   error
}

func (e stageError) Error() string {
	return e.stage + ": " + e.err.Error()
}

// Cause lets errors.Cause walk through to the kernel error.
func (e stageError) Cause() error { return e.err }

func (e stageError) Unwrap() error { return e.err }

func stageOf(err error) string {
	var se stageError
	if errors.As(err, &se) {
		return se.stage
	}
	return stageFill
}
