package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// DataAccessError indicates that the data source was unreachable or a query
// failed. It is caught at job/request boundaries: logged and surfaced to the
// caller as a service error, never fatal to the process.
type DataAccessError struct {
	Op  string
	Err error
}

func NewDataAccessError(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}

func (err DataAccessError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err DataAccessError) Unwrap() error { return err.Err }

func IsDataAccessError(err error) bool {
	_, ok := errors.Cause(err).(*DataAccessError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
