package errors

import (
	stderrors "errors"
	"fmt"
)

// Error kinds for the transcription pipeline. Every failure surfaced to the
// batch loop wraps exactly one of these, so callers can classify without
// string matching.
var (
	// Source file could not be probed or has no decodable audio
	ErrDecode = New("audio decode failed")

	// External conversion tool (ffmpeg) failed or produced no output
	ErrConversion = New("audio conversion failed")

	// A single chunk cannot be brought under the upload size limit
	ErrChunkTooLarge = New("chunk exceeds upload size limit")

	// Non-retryable API failure (auth, malformed file, network)
	ErrRequest = New("transcription request failed")

	// API throttling, retryable with backoff
	ErrRateLimit = New("transcription rate limited")

	// Reassembly attempted with at least one fragment missing
	ErrIncompleteTranscript = New("transcript is missing fragments")

	// Filesystem access or permission failure
	ErrIO = New("filesystem operation failed")
)

// Error is a standardized error carrying an optional kind and cause.
type Error struct {
	message string
	kind    *Error
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{message: message, cause: err}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{message: fmt.Sprintf(format, args...), cause: err}
}

// Kind creates an error of the given kind with a formatted message.
// errors.Is(err, kind) reports true for the result.
func Kind(kind *Error, format string, args ...interface{}) error {
	return &Error{message: fmt.Sprintf(format, args...), kind: kind}
}

// KindWrap wraps a cause in an error of the given kind.
func KindWrap(kind *Error, err error, format string, args ...interface{}) error {
	return &Error{message: fmt.Sprintf(format, args...), kind: kind, cause: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target, either by kind or by message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != nil && e.kind == t {
		return true
	}
	return e.message == t.message
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// KindOf returns the pipeline error kind in err's chain, or nil.
func KindOf(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.kind != nil {
				return e.kind
			}
		}
		err = stderrors.Unwrap(err)
	}
	return nil
}

// Retryable reports whether err is worth retrying against the API.
func Retryable(err error) bool {
	return stderrors.Is(err, ErrRateLimit)
}
