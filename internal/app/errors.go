package app

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("session not running")

	// ErrSubmitInFlight is returned for a contacts submit while the previous
	// order is still with the API.
	ErrSubmitInFlight = errors.New("order submission in flight")

	// ErrInitialization matches every *InitError.
	ErrInitialization = errors.New("initialization failed")
)

// DispatchError is a browser event that failed on the document. The
// document is still consistent; only the handlers' work is missing.
type DispatchError struct {
	Ref  string
	Type string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s on %s: %v", e.Type, e.Ref, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// PartError is a failure inside one named part of the session, such as a
// view or the template watcher, while it was doing Action.
type PartError struct {
	Part   string
	Action string
	Err    error
}

func (e *PartError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %v", e.Part, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Part, e.Action, e.Err)
}

func (e *PartError) Unwrap() error { return e.Err }

// InitError is returned by New when a part of the session cannot be built.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

// PanicError is what a caller of Do gets back when the work it posted
// panicked. Stack is for the logs and is left out of Error.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that was itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
