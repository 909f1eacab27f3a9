// Package errors gives pinout failures a stable code next to their message.
//
// The CLI prints [UserMessage], the render service maps the code to an HTTP
// status and returns it in JSON, and tests match on it with [Is]. A
// rendering pass stops at its first failing command; [AtCommand] records
// which one.
//
// Codes by origin:
//   - command protocol: PHASE_ERROR, DUPLICATE_LABELS, INVALID_LABELS,
//     ROW_NOT_CONFIGURED, NO_OPEN_MESSAGE
//   - dangling theme references: UNDEFINED_GROUP, UNDEFINED_BOX, UNDEFINED_WIRE
//   - page setup: INVALID_PAGE_SIZE, INVALID_DPI
//   - assets: MISSING_ASSET, INVALID_CROP_BOUNDS, PARTIAL_CROP
//   - caller input: INVALID_INPUT, INVALID_FORMAT, INVALID_PATH, NOT_FOUND
//   - everything else: INTERNAL_ERROR, UNSUPPORTED
//
// For example:
//
//	err := errors.New(errors.ErrCodeInvalidDPI, "dpi %d outside [50, 1200]", dpi)
//	err = errors.AtCommand(12, "DPI", err)
//	errors.Is(err, errors.ErrCodeInvalidDPI) // true
//	errors.CommandIndex(err)                 // 12
package errors

import (
	"errors"
	"fmt"
)

// Code is the stable, machine-readable part of an error.
type Code string

const (
	ErrCodePhase            Code = "PHASE_ERROR"
	ErrCodeDuplicateLabels  Code = "DUPLICATE_LABELS"
	ErrCodeInvalidLabels    Code = "INVALID_LABELS"
	ErrCodeRowNotConfigured Code = "ROW_NOT_CONFIGURED"
	ErrCodeNoOpenMessage    Code = "NO_OPEN_MESSAGE"

	ErrCodeUndefinedGroup Code = "UNDEFINED_GROUP"
	ErrCodeUndefinedBox   Code = "UNDEFINED_BOX"
	ErrCodeUndefinedWire  Code = "UNDEFINED_WIRE"

	ErrCodeInvalidPageSize Code = "INVALID_PAGE_SIZE"
	ErrCodeInvalidDPI      Code = "INVALID_DPI"

	ErrCodeMissingAsset      Code = "MISSING_ASSET"
	ErrCodeInvalidCropBounds Code = "INVALID_CROP_BOUNDS"
	ErrCodePartialCrop       Code = "PARTIAL_CROP"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeNotFound      Code = "NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and, for wrapped failures, the cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error that keeps cause reachable through errors.Unwrap.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as[*Error](err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage drops the code prefix and the wrapped cause, keeping the
// command position so a user can find the failing row.
func UserMessage(err error) string {
	if ce, ok := as[*CommandError](err); ok {
		return fmt.Sprintf("command %d (%s): %s", ce.Index, ce.Kind, UserMessage(ce.Err))
	}
	if e, ok := as[*Error](err); ok {
		return e.Message
	}
	return err.Error()
}

// CommandError records which command of a rendering pass failed.
type CommandError struct {
	Index int    // Zero-based position in the command stream
	Kind  string // Command kind, e.g. "PIN"
	Err   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// AtCommand attaches command context to err. A nil err stays nil.
func AtCommand(index int, kind string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Index: index, Kind: kind, Err: err}
}

// CommandIndex returns the failing command index, or -1 when err carries none.
func CommandIndex(err error) int {
	if ce, ok := as[*CommandError](err); ok {
		return ce.Index
	}
	return -1
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
