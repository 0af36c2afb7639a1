package frame

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why framing a single file failed
type ErrorKind string

const (
	ErrorKindDecode ErrorKind = "decode"
	ErrorKindWrite  ErrorKind = "write"
)

var (
	// ErrDecode matches any FrameError caused by an unreadable source
	ErrDecode = errors.New("screenshot could not be decoded")
	// ErrWrite matches any FrameError caused by an unwritable destination
	ErrWrite = errors.New("framed image could not be written")
)

// FrameError reports a failure to frame one file.
type FrameError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a FrameError against ErrDecode or ErrWrite.
func (e *FrameError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Kind == ErrorKindDecode
	case ErrWrite:
		return e.Kind == ErrorKindWrite
	}
	return false
}

func decodeError(path string, err error) *FrameError {
	return &FrameError{Kind: ErrorKindDecode, Path: path, Err: err}
}

func writeError(path string, err error) *FrameError {
	return &FrameError{Kind: ErrorKindWrite, Path: path, Err: err}
}
