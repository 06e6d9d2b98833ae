// Package errs defines the two fatal error kinds a build can raise.
//
// InvalidParameters means the caller asked for something the generator
// refuses before doing any geometry work. GeometryFailure means the
// generator itself produced an empty or degenerate solid; it is a bug in the
// generator, not a user mistake. Both are matched with errors.Is against the
// sentinels below, or unpacked with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is.
var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrGeometry          = errors.New("geometry failure")
)

// InvalidParamsError reports a rejected request field.
type InvalidParamsError struct {
	Field   string
	Message string
}

func (e *InvalidParamsError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Message)
	}
	return fmt.Sprintf("invalid parameters: %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidParameters) true.
func (e *InvalidParamsError) Is(target error) bool {
	return target == ErrInvalidParameters
}

// Invalid builds an InvalidParamsError.
func Invalid(field, format string, args ...any) error {
	return &InvalidParamsError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// GeometryError reports a failed primitive or boolean step, with the phase
// and component that produced it.
type GeometryError struct {
	Phase     string
	Component string
	Message   string
	Err       error
}

func (e *GeometryError) Error() string {
	msg := "geometry failure"
	if e.Phase != "" {
		msg += " in " + e.Phase
	}
	if e.Component != "" {
		msg += " (" + e.Component + ")"
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GeometryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeometry) true.
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}

// Geometry builds a GeometryError.
func Geometry(phase, component, format string, args ...any) error {
	return &GeometryError{Phase: phase, Component: component, Message: fmt.Sprintf(format, args...)}
}

// InPhase annotates a geometry error with the phase and component it
// surfaced in, keeping any context already present. Other errors are
// wrapped in a new GeometryError.
func InPhase(err error, phase, component string) error {
	if err == nil {
		return nil
	}
	var ge *GeometryError
	if errors.As(err, &ge) {
		out := *ge
		if out.Phase == "" {
			out.Phase = phase
		}
		if out.Component == "" {
			out.Component = component
		}
		return &out
	}
	if errors.Is(err, ErrInvalidParameters) {
		return err
	}
	return &GeometryError{Phase: phase, Component: component, Message: "kernel error", Err: err}
}

// Exit codes used by command line front ends.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitBadInput = 2
	ExitInternal = 3
)

// ExitCode maps an error onto a process exit code: InvalidParameters is a
// bad request, GeometryFailure is an internal error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidParameters):
		return ExitBadInput
	case errors.Is(err, ErrGeometry):
		return ExitInternal
	}
	return ExitFailure
}
