package codec

import (
	"errors"
)

// ENCODE_BUFFER_SIZE is the minimum buffer handed to Encode. A byte order
// mark or an escape sequence may precede the character itself.
const ENCODE_BUFFER_SIZE = 2 * ENCODING_BUFFER_MAX_SIZE

// DecodeErrorHook is consulted when octets cannot be decoded. It returns a
// substitute character, ErrSkip to drop the octets, or any other error to
// abort the read.
type DecodeErrorHook func(err *DecodingError) (rune, error)

// EncodeErrorHook is consulted when a character cannot be encoded. It
// returns a substitute character, ErrSkip to write nothing, or any other
// error to abort the write.
type EncodeErrorHook func(err *EncodingError) (rune, error)

// Codec encodes and decodes characters for one stream.
type Codec struct {
	Flags         Flags    // Stream flag word; the format selector lives here.
	Tables        []*Table // User format tables.
	OnDecodeError DecodeErrorHook
	OnEncodeError EncodeErrorHook

	state int // Active table of a multistate format.
}

// Name returns the external format name of the codec.
func (c *Codec) Name() string {
	return Describe(c.Flags, c.Tables).Name
}

// Reset returns the codec to its initial table state.
func (c *Codec) Reset() {
	c.state = 0
}

// Decode decodes the first character of buf, returning the character and the
// number of bytes consumed. On ErrNeedMore, n counts bytes that were consumed
// as state changes (a byte order mark, an escape sequence) and must not be
// presented again.
func (c *Codec) Decode(buf []byte) (code rune, n int, err error) {
	for {
		var used int
		code, used, err = c.decode(buf[n:])
		n += used

		var de *DecodingError
		if !errors.As(err, &de) {
			return
		}
		if de.Format == "" {
			de.Format = c.Name()
		}
		de.Octets = append([]byte(nil), de.Octets...)
		if c.OnDecodeError == nil {
			return
		}

		var herr error
		code, herr = c.OnDecodeError(de)
		switch {
		case herr == nil:
			err = nil
			return
		case errors.Is(herr, ErrSkip):
			if n >= len(buf) {
				err = ErrNeedMore
				return
			}
		default:
			err = herr
			return
		}
	}
}

// Incomplete reports octets left over at the end of a stream. The decode
// hook may substitute a character for them; otherwise a *DecodingError is
// returned. ErrSkip from the hook is returned as is.
func (c *Codec) Incomplete(octets []byte) (code rune, err error) {
	de := &DecodingError{
		Format: c.Name(),
		Octets: octets,
		Err:    ErrNeedMore,
	}
	if c.OnDecodeError == nil {
		err = de
		return
	}
	return c.OnDecodeError(de)
}

// Encode writes code into buf, which must hold ENCODE_BUFFER_SIZE bytes.
func (c *Codec) Encode(buf []byte, code rune) (n int, err error) {
	n, err = c.encode(buf, code)

	var ee *EncodingError
	if !errors.As(err, &ee) {
		return
	}
	if ee.Format == "" {
		ee.Format = c.Name()
	}
	if c.OnEncodeError == nil {
		return
	}

	sub, herr := c.OnEncodeError(ee)
	switch {
	case herr == nil:
		n, err = c.encode(buf, sub)
		if ee2, ok := err.(*EncodingError); ok && ee2.Format == "" {
			ee2.Format = c.Name()
		}
	case errors.Is(herr, ErrSkip):
		n, err = 0, nil
	default:
		n, err = 0, herr
	}
	return
}

func (c *Codec) decode(buf []byte) (rune, int, error) {
	little := c.Flags&STREAM_LITTLE_ENDIAN != 0

	switch c.Flags & STREAM_FORMAT {
	case STREAM_BINARY, STREAM_LATIN_1:
		return decodeLatin1(buf)
	case STREAM_US_ASCII:
		return decodeASCII(buf)
	case STREAM_UTF_8:
		return decodeUTF8(buf)
	case STREAM_UCS_2:
		return c.decodeUCS2BOM(buf)
	case STREAM_UCS_2BE:
		return decodeUCS2(buf, byteOrder(little))
	case STREAM_UCS_4:
		return c.decodeUCS4BOM(buf)
	case STREAM_UCS_4BE:
		return decodeUCS4(buf, byteOrder(little))
	case STREAM_USER_FORMAT, STREAM_USER_MULTISTATE_FORMAT:
		return c.decodeTable(buf)
	default:
		return 0, 0, ErrExternalFormatDesignator{Designator: c.Flags.Format()}
	}
}

func (c *Codec) encode(buf []byte, code rune) (int, error) {
	little := c.Flags&STREAM_LITTLE_ENDIAN != 0

	switch c.Flags & STREAM_FORMAT {
	case STREAM_BINARY, STREAM_LATIN_1:
		return encodeLatin1(buf, code)
	case STREAM_US_ASCII:
		return encodeASCII(buf, code)
	case STREAM_UTF_8:
		return encodeUTF8(buf, code)
	case STREAM_UCS_2:
		return c.encodeUCS2BOM(buf, code)
	case STREAM_UCS_2BE:
		return encodeUCS2(buf, code, byteOrder(little))
	case STREAM_UCS_4:
		return c.encodeUCS4BOM(buf, code)
	case STREAM_UCS_4BE:
		return encodeUCS4(buf, code, byteOrder(little))
	case STREAM_USER_FORMAT, STREAM_USER_MULTISTATE_FORMAT:
		return c.encodeTable(buf, code)
	default:
		return 0, ErrExternalFormatDesignator{Designator: c.Flags.Format()}
	}
}

func decodeLatin1(buf []byte) (rune, int, error) {
	if len(buf) == 0 {
		return 0, 0, ErrNeedMore
	}
	return rune(buf[0]), 1, nil
}

func encodeLatin1(buf []byte, code rune) (int, error) {
	if code < 0 || code > 0xFF {
		return 0, &EncodingError{Code: code}
	}
	buf[0] = byte(code)
	return 1, nil
}

func decodeASCII(buf []byte) (rune, int, error) {
	if len(buf) == 0 {
		return 0, 0, ErrNeedMore
	}
	if buf[0] > 127 {
		return 0, 1, &DecodingError{Octets: buf[:1]}
	}
	return rune(buf[0]), 1, nil
}

func encodeASCII(buf []byte, code rune) (int, error) {
	if code < 0 || code > 127 {
		return 0, &EncodingError{Code: code}
	}
	buf[0] = byte(code)
	return 1, nil
}
