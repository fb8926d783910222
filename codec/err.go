package codec

import (
	"errors"
	"fmt"

	"github.com/ezrec/ansistream/translate"
)

var f = translate.From

var (
	// ErrNeedMore is returned by Decode when the buffer ends inside a
	// character. It is not an end of stream.
	ErrNeedMore = errors.New(f("need more input"))
	// ErrSkip is returned by an error hook to drop the offending octets
	// or character.
	ErrSkip = errors.New(f("skip"))
	// ErrDecoderTable is returned when a table decoder does not reach a
	// character within ENCODING_BUFFER_MAX_SIZE bytes.
	ErrDecoderTable = errors.New(f("table decoder did not terminate"))
	// ErrExternalFormat is returned for a malformed external format.
	ErrExternalFormat = errors.New(f("malformed external format"))
	// ErrTableMissing is returned when a user format has no tables.
	ErrTableMissing = errors.New(f("user format has no table"))
)

// DecodingError describes octets that cannot be mapped to a character.
type DecodingError struct {
	Format string
	Octets []byte
	Err    error
}

func (err *DecodingError) Error() string {
	msg := f("%s: cannot decode octets %s", err.Format, fmt.Sprintf("% x", err.Octets))
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *DecodingError) Unwrap() error {
	return err.Err
}

// EncodingError describes a character that cannot be written in a format.
type EncodingError struct {
	Format string
	Code   rune
}

func (err *EncodingError) Error() string {
	return f("%s: cannot encode character U+%s", err.Format, fmt.Sprintf("%04X", err.Code))
}

// ErrExternalFormatDesignator wraps ErrExternalFormat with the offending
// designator.
type ErrExternalFormatDesignator struct {
	Designator any
}

func (err ErrExternalFormatDesignator) Error() string {
	return f("%v: %v", ErrExternalFormat, err.Designator)
}

func (err ErrExternalFormatDesignator) Unwrap() error {
	return ErrExternalFormat
}
