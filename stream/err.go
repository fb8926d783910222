package stream

import (
	"errors"
	"io"

	"github.com/ezrec/ansistream/codec"
	"github.com/ezrec/ansistream/translate"
)

var f = translate.From

var (
	// Direction errors
	ErrNotInput  = errors.New(f("not an input stream"))
	ErrNotOutput = errors.New(f("not an output stream"))

	// Protocol violations
	ErrUnreadTwice        = errors.New(f("unread twice without an intervening read"))
	ErrUnreadNothing      = errors.New(f("nothing to unread"))
	ErrUnreadMismatch     = errors.New(f("unread character is not the last character read"))
	ErrClosed             = errors.New(f("stream is closed"))
	ErrExternalFormat     = codec.ErrExternalFormat
	ErrElementType        = errors.New(f("invalid stream element type"))
	ErrNotCharacterStream = errors.New(f("not a character stream"))
	ErrNotBinaryStream    = errors.New(f("not a binary stream"))
	ErrNotFileStream      = errors.New(f("not a file stream"))
	ErrNotSupported       = errors.New(f("operation not supported"))
	ErrUnbound            = errors.New(f("unbound stream name"))
	ErrCloseStandard      = errors.New(f("cannot close a standard stream"))

	// Position and length
	ErrNoPosition  = errors.New(f("position not available"))
	ErrNotBoundary = errors.New(f("file length is not a whole number of elements"))

	// Open
	ErrExists       = errors.New(f("file exists"))
	ErrDoesNotExist = errors.New(f("file does not exist"))
)

func streamName(s Stream) string {
	if s == nil {
		return "nil"
	}
	return s.Name()
}

// DirectionError is returned for an operation the stream's mode forbids.
type DirectionError struct {
	Stream Stream
	Op     string
	Err    error
}

func (err *DirectionError) Error() string {
	return f("%s: %s: %v", streamName(err.Stream), err.Op, err.Err)
}

func (err *DirectionError) Unwrap() error {
	return err.Err
}

func notInput(s Stream, op string) error {
	return &DirectionError{Stream: s, Op: op, Err: ErrNotInput}
}

func notOutput(s Stream, op string) error {
	return &DirectionError{Stream: s, Op: op, Err: ErrNotOutput}
}

// IOError is returned when the operating system fails a call for a reason
// other than interruption.
type IOError struct {
	Stream Stream
	Op     string
	Err    error
}

func (err *IOError) Error() string {
	return f("%s: %s: %v", streamName(err.Stream), err.Op, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// FormatError carries a *codec.DecodingError, a *codec.EncodingError or an
// integer range error raised while transferring elements.
type FormatError struct {
	Stream Stream
	Err    error
}

func (err *FormatError) Error() string {
	return f("%s: %v", streamName(err.Stream), err.Err)
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// EndOfFileError is returned by the NoEOF entry points at end of file. It
// matches io.EOF.
type EndOfFileError struct {
	Stream Stream
}

func (err *EndOfFileError) Error() string {
	return f("%s: end of file", streamName(err.Stream))
}

func (err *EndOfFileError) Unwrap() error {
	return io.EOF
}

// ProtocolError is returned when the caller misuses the stream contract.
type ProtocolError struct {
	Stream Stream
	Op     string
	Err    error
}

func (err *ProtocolError) Error() string {
	return f("%s: %s: %v", streamName(err.Stream), err.Op, err.Err)
}

func (err *ProtocolError) Unwrap() error {
	return err.Err
}

func protocolError(s Stream, op string, err error) error {
	return &ProtocolError{Stream: s, Op: op, Err: err}
}

// OpenError is returned when a file cannot be opened.
type OpenError struct {
	Path string
	Err  error
}

func (err *OpenError) Error() string {
	return f("open %s: %v", err.Path, err.Err)
}

func (err *OpenError) Unwrap() error {
	return err.Err
}

// ErrHookResult is wrapped by HookResultError.
var ErrHookResult = errors.New(f("unexpected hook result"))

// HookResultError is returned when a named hook returns a value of the
// wrong kind.
type HookResultError struct {
	Hook  string
	Value any
}

func (err *HookResultError) Error() string {
	return f("%s: %v: %T", err.Hook, ErrHookResult, err.Value)
}

func (err *HookResultError) Unwrap() error {
	return ErrHookResult
}
