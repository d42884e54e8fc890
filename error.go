package goobd

import (
	"errors"
	"fmt"
)

type unrecoverableError struct {
	error
}

func (e unrecoverableError) Error() string {
	if e.error == nil {
		return "unrecoverable error"
	}
	return e.error.Error()
}

func (e unrecoverableError) Unwrap() error {
	return e.error
}

// Unrecoverable wraps an error in `unrecoverableError` struct
func Unrecoverable(err error) error {
	return unrecoverableError{err}
}

// IsRecoverable reports whether err is not an instance of `unrecoverableError`
func IsRecoverable(err error) bool {
	if _, ok := err.(unrecoverableError); ok {
		return false
	}
	return true
}

var (
	ErrNotConnected     = errors.New("transport not connected")
	ErrConnectFailed    = errors.New("failed to connect transport")
	ErrAdapterBusy      = errors.New("adapter busy, command already in flight")
	ErrAdapterInit      = errors.New("adapter initialization failed")
	ErrNoProtocolFound  = errors.New("no OBD protocol found")
	ErrUnknownProtocol  = errors.New("unknown OBD protocol")
	ErrNoData           = errors.New("no data")
	ErrShortFrame       = errors.New("frame too short")
	ErrBadSequence      = errors.New("bad multi-frame sequence")
	ErrInsufficientData = errors.New("insufficient data for decoder")
	ErrOutOfRange       = errors.New("decoded value out of range")
	ErrScanFailed       = errors.New("trouble code scan failed")
	ErrClearFailed      = errors.New("failed to clear trouble codes")
	ErrCancelled        = errors.New("operation cancelled")
	ErrDroppedLine      = errors.New("transport incoming buffer full")
)

type TimeoutError struct {
	Timeout int64
	Command string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout (%dms) waiting for prompt after %q", e.Timeout, e.Command)
}

// InvalidResponseError is returned when the adapter answers with something
// that is neither data nor a known status line. Not retried.
type InvalidResponseError struct {
	Line string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid adapter response %q", e.Line)
}

// LinkError covers bus level failures reported by the adapter such as
// STOPPED, BUS INIT: ERROR and CAN ERROR. Retried.
type LinkError struct {
	Kind string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link error: %s", e.Kind)
}

// CommandError wraps a failed OBD command with its wire string.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UnsupportedDecoderError is returned for catalogue entries whose decoder
// id has no registered function.
type UnsupportedDecoderError struct {
	Decoder Decoder
}

func (e *UnsupportedDecoderError) Error() string {
	return fmt.Sprintf("unsupported decoder %d", e.Decoder)
}
