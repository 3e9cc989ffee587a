package terminal

import (
	"errors"
	"fmt"
)

// ErrNotATerminal is returned when the input stream is not an interactive terminal
var ErrNotATerminal = errors.New("input is not a terminal")

// ControlError reports a failed OS call reading or writing terminal attributes
type ControlError struct {
	Op  string
	Err error
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *ControlError) Unwrap() error {
	return e.Err
}

// controlErr wraps err as a *ControlError, nil stays nil
func controlErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ControlError{Op: op, Err: err}
}
