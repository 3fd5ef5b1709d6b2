package vm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pellet-lang/pellet/internal/config"
	"github.com/pellet-lang/pellet/internal/object"
)

// Sentinels for the call-time error taxonomy. Every binder or native
// dispatch failure unwraps to exactly one of these, independent of the
// configured diagnostics verbosity.
var (
	ErrArityMismatch      = errors.New("arity mismatch")
	ErrDuplicateArgument  = errors.New("duplicate argument")
	ErrUnexpectedKeyword  = errors.New("unexpected keyword argument")
	ErrMissingPositional  = errors.New("missing required positional argument")
	ErrMissingKeyword     = errors.New("missing required keyword argument")
	ErrMissingKeywordOnly = errors.New("missing keyword-only argument")
)

// CallError is a failed attempt to bind caller arguments to a callable.
// The message depends on the configured verbosity; the wrapped sentinel
// does not.
type CallError struct {
	cause     error
	fnName    string
	expected  int
	given     int
	argName   string
	argIndex  int
	unitID    uuid.UUID
	verbosity config.Verbosity
}

func (e *CallError) Unwrap() error { return e.cause }

// Expected and Given carry the counts for arity failures.
func (e *CallError) Expected() int { return e.expected }
func (e *CallError) Given() int    { return e.given }

// ArgName carries the offending name for keyword-related failures.
func (e *CallError) ArgName() string { return e.argName }

// ArgIndex carries the parameter index for missing-positional failures.
func (e *CallError) ArgIndex() int { return e.argIndex }

// UnitID identifies the compilation unit of the failing bytecode callable;
// uuid.Nil for native callables.
func (e *CallError) UnitID() uuid.UUID { return e.unitID }

func (e *CallError) Error() string {
	if e.verbosity == config.VerbosityTerse {
		return "argument num/types mismatch"
	}
	subject := "function"
	if e.verbosity == config.VerbosityDetailed && e.fnName != "" {
		subject = e.fnName + "()"
	}
	var msg string
	switch e.cause {
	case ErrArityMismatch:
		msg = fmt.Sprintf("%s takes %d positional arguments but %d were given", subject, e.expected, e.given)
	case ErrDuplicateArgument:
		msg = fmt.Sprintf("%s got multiple values for argument '%s'", subject, e.argName)
	case ErrUnexpectedKeyword:
		if e.argName == "" {
			msg = fmt.Sprintf("%s does not take keyword arguments", subject)
		} else {
			msg = fmt.Sprintf("%s does not take keyword argument '%s'", subject, e.argName)
		}
	case ErrMissingPositional:
		msg = fmt.Sprintf("%s missing required positional argument #%d", subject, e.argIndex)
	case ErrMissingKeyword:
		msg = fmt.Sprintf("%s missing required keyword argument '%s'", subject, e.argName)
	case ErrMissingKeywordOnly:
		msg = fmt.Sprintf("%s missing keyword-only argument", subject)
	default:
		msg = e.cause.Error()
	}
	if e.verbosity == config.VerbosityDetailed && e.unitID != uuid.Nil {
		msg += fmt.Sprintf(" [unit %s]", e.unitID)
	}
	return msg
}

func (in *Interp) callError(cause error, fnName string) *CallError {
	return &CallError{cause: cause, fnName: fnName, verbosity: in.cfg.Diagnostics}
}

func (in *Interp) arityError(fnName string, expected, given int) error {
	e := in.callError(ErrArityMismatch, fnName)
	e.expected = expected
	e.given = given
	return e
}

func (in *Interp) duplicateArgError(fnName, argName string) error {
	e := in.callError(ErrDuplicateArgument, fnName)
	e.argName = argName
	return e
}

func (in *Interp) unexpectedKeywordError(fnName, argName string) error {
	e := in.callError(ErrUnexpectedKeyword, fnName)
	e.argName = argName
	return e
}

func (in *Interp) missingPositionalError(fnName string, index int) error {
	e := in.callError(ErrMissingPositional, fnName)
	e.argIndex = index
	return e
}

func (in *Interp) missingKeywordError(fnName, argName string) error {
	e := in.callError(ErrMissingKeyword, fnName)
	e.argName = argName
	return e
}

func (in *Interp) missingKeywordOnlyError(fnName string) error {
	return in.callError(ErrMissingKeywordOnly, fnName)
}

// Raised wraps an exception value propagating out of bytecode execution.
// The binder never produces it; only the engine does.
type Raised struct {
	Value object.Object
}

func (r *Raised) Error() string {
	if r.Value == nil {
		return "exception"
	}
	return r.Value.Inspect()
}
