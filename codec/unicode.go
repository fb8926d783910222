package codec

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

func byteOrder(little bool) binary.ByteOrder {
	if little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// validCode reports whether code is a character that may appear in a
// Unicode transformation format.
func validCode(code rune) bool {
	switch {
	case code < 0, code >= CHAR_CODE_LIMIT:
		return false
	case code >= 0xD800 && code <= 0xDFFF:
		return false
	case code == 0xFFFE, code == 0xFFFF:
		return false
	}
	return true
}

func decodeUTF8(buf []byte) (rune, int, error) {
	if len(buf) == 0 || !utf8.FullRune(buf) {
		return 0, 0, ErrNeedMore
	}

	code, size := utf8.DecodeRune(buf)
	if code == utf8.RuneError && size <= 1 {
		// Overlong forms, surrogates and out of range sequences all land
		// here, as do stray continuation bytes.
		return 0, 1, &DecodingError{Octets: buf[:1]}
	}
	if code == 0xFFFE || code == 0xFFFF {
		return 0, size, &DecodingError{Octets: buf[:size]}
	}

	return code, size, nil
}

func encodeUTF8(buf []byte, code rune) (int, error) {
	if !validCode(code) {
		return 0, &EncodingError{Code: code}
	}
	return utf8.EncodeRune(buf, code), nil
}

func decodeUCS2(buf []byte, order binary.ByteOrder) (rune, int, error) {
	if len(buf) < 2 {
		return 0, 0, ErrNeedMore
	}

	hi := rune(order.Uint16(buf))
	if !utf16.IsSurrogate(hi) {
		return hi, 2, nil
	}
	if hi >= 0xDC00 {
		// Lone low surrogate.
		return 0, 2, &DecodingError{Octets: buf[:2]}
	}
	if len(buf) < 4 {
		return 0, 0, ErrNeedMore
	}

	lo := rune(order.Uint16(buf[2:]))
	code := utf16.DecodeRune(hi, lo)
	if code == utf8.RuneError {
		return 0, 2, &DecodingError{Octets: buf[:2]}
	}

	return code, 4, nil
}

func encodeUCS2(buf []byte, code rune, order binary.ByteOrder) (int, error) {
	if !validCode(code) && code != 0xFFFE && code != 0xFFFF {
		return 0, &EncodingError{Code: code}
	}

	if code < 0x10000 {
		order.PutUint16(buf, uint16(code))
		return 2, nil
	}

	hi, lo := utf16.EncodeRune(code)
	order.PutUint16(buf, uint16(hi))
	order.PutUint16(buf[2:], uint16(lo))
	return 4, nil
}

func decodeUCS4(buf []byte, order binary.ByteOrder) (rune, int, error) {
	if len(buf) < 4 {
		return 0, 0, ErrNeedMore
	}

	value := order.Uint32(buf)
	if value >= CHAR_CODE_LIMIT {
		return 0, 4, &DecodingError{Octets: buf[:4]}
	}

	return rune(value), 4, nil
}

func encodeUCS4(buf []byte, code rune, order binary.ByteOrder) (int, error) {
	if code < 0 || code >= CHAR_CODE_LIMIT {
		return 0, &EncodingError{Code: code}
	}
	order.PutUint32(buf, uint32(code))
	return 4, nil
}

// decodeUCS2BOM consumes a leading byte order mark, if any, and pins the
// codec to the byte order it announces. Without a mark the codec is pinned
// to big endian.
func (c *Codec) decodeUCS2BOM(buf []byte) (rune, int, error) {
	if len(buf) < 2 {
		return 0, 0, ErrNeedMore
	}

	skip := 0
	switch binary.BigEndian.Uint16(buf) {
	case UCS_2_BOM:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_2BE)
		skip = 2
	case UCS_2_BOM_SWAPPED:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_2LE)
		skip = 2
	default:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_2BE)
	}

	code, n, err := decodeUCS2(buf[skip:], byteOrder(c.Flags&STREAM_LITTLE_ENDIAN != 0))
	return code, n + skip, err
}

// encodeUCS2BOM writes a big endian byte order mark before the character
// and pins the codec to big endian.
func (c *Codec) encodeUCS2BOM(buf []byte, code rune) (int, error) {
	n, err := encodeUCS2(buf[2:], code, binary.BigEndian)
	if err != nil {
		return 0, err
	}

	binary.BigEndian.PutUint16(buf, UCS_2_BOM)
	c.Flags = c.Flags.WithFormat(STREAM_UCS_2BE)
	return n + 2, nil
}

func (c *Codec) decodeUCS4BOM(buf []byte) (rune, int, error) {
	if len(buf) < 4 {
		return 0, 0, ErrNeedMore
	}

	skip := 0
	switch binary.BigEndian.Uint32(buf) {
	case UCS_4_BOM:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_4BE)
		skip = 4
	case UCS_4_BOM_SWAPPED:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_4LE)
		skip = 4
	default:
		c.Flags = c.Flags.WithFormat(STREAM_UCS_4BE)
	}

	code, n, err := decodeUCS4(buf[skip:], byteOrder(c.Flags&STREAM_LITTLE_ENDIAN != 0))
	return code, n + skip, err
}

func (c *Codec) encodeUCS4BOM(buf []byte, code rune) (int, error) {
	n, err := encodeUCS4(buf[4:], code, binary.BigEndian)
	if err != nil {
		return 0, err
	}

	binary.BigEndian.PutUint32(buf, UCS_4_BOM)
	c.Flags = c.Flags.WithFormat(STREAM_UCS_4BE)
	return n + 4, nil
}
