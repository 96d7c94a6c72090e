package maze

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a maze could not be loaded.
type ErrorKind int

const (
	ResourceNotFound ErrorKind = iota + 1
	MalformedFormat
	UnexpectedCharacter // refinement of MalformedFormat
	SizeMismatch
)

var (
	ErrResourceNotFound    = errors.New("maze resource not found")
	ErrMalformedFormat     = errors.New("maze malformed")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrSizeMismatch        = errors.New("maze size mismatch")
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceNotFound:
		return "ResourceNotFound"
	case MalformedFormat:
		return "MalformedFormat"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case SizeMismatch:
		return "SizeMismatch"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ResourceNotFound:
		return ErrResourceNotFound
	case MalformedFormat:
		return ErrMalformedFormat
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case SizeMismatch:
		return ErrSizeMismatch
	}
	return nil
}

// LoadError is returned by Load and Parse. No partial grid accompanies it.
type LoadError struct {
	Kind ErrorKind
	Line int    // 1-based input line, 0 when not tied to a line
	Char rune   // offending character for UnexpectedCharacter
	Msg  string // human readable detail
	Err  error  // underlying I/O error, if any
}

func (e *LoadError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Kind == UnexpectedCharacter {
		msg = fmt.Sprintf("%s: %q", msg, e.Char)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind. An UnexpectedCharacter error also
// matches ErrMalformedFormat.
func (e *LoadError) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}
	return e.Kind == UnexpectedCharacter && target == ErrMalformedFormat
}

// KindOf extracts the ErrorKind from err, or 0 when err is not a LoadError.
func KindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}

func malformed(line int, format string, args ...any) *LoadError {
	return &LoadError{Kind: MalformedFormat, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func sizeMismatch(line int, format string, args ...any) *LoadError {
	return &LoadError{Kind: SizeMismatch, Line: line, Msg: fmt.Sprintf(format, args...)}
}
