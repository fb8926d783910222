package stream

import (
	"io"
	"math/big"
	"slices"

	"github.com/ezrec/ansistream/codec"
)

// StringInput reads the characters of a window of a string.
type StringInput struct {
	ansiStream

	text   []rune
	start  int
	limit  int
	pos    int
	unread bool
}

var _ Stream = (*StringInput)(nil)

// NewStringInput returns a stream over text[start:limit], counted in
// characters. A negative limit selects the end of text.
func NewStringInput(text string, start, limit int) *StringInput {
	s := &StringInput{text: []rune(text)}
	s.ansiStream = newAnsiStream(s, "string-input")

	if limit < 0 || limit > len(s.text) {
		limit = len(s.text)
	}
	start = min(max(start, 0), limit)

	s.start = start
	s.limit = limit
	s.pos = start
	return s
}

func (s *StringInput) Variant() Variant {
	return VARIANT_STRING
}

func (s *StringInput) IsInput() bool {
	return true
}

func (s *StringInput) ElementType() ElementType {
	return CHARACTER
}

func (s *StringInput) ReadByte8(p []byte) (int, error) {
	return 0, protocolError(s, "read-byte", ErrNotBinaryStream)
}

func (s *StringInput) ReadInteger() (*big.Int, error) {
	return nil, protocolError(s, "read-byte", ErrNotBinaryStream)
}

func (s *StringInput) ReadChar() (code rune, err error) {
	if s.closed {
		return noChar, protocolError(s, "read-char", ErrClosed)
	}
	if s.pos >= s.limit {
		return noChar, io.EOF
	}

	code = s.text[s.pos]
	s.pos++
	s.unread = false
	s.cursor.Advance(code)
	return
}

func (s *StringInput) UnreadChar(code rune) error {
	switch {
	case s.closed:
		return protocolError(s, "unread-char", ErrClosed)
	case s.unread:
		return protocolError(s, "unread-char", ErrUnreadTwice)
	case s.pos <= s.start:
		return protocolError(s, "unread-char", ErrUnreadNothing)
	case s.text[s.pos-1] != code:
		return protocolError(s, "unread-char", ErrUnreadMismatch)
	}

	s.pos--
	s.unread = true
	s.cursor.Backup()
	return nil
}

func (s *StringInput) PeekChar() (rune, error) {
	if s.closed {
		return noChar, protocolError(s, "peek-char", ErrClosed)
	}
	if s.pos >= s.limit {
		return noChar, io.EOF
	}
	return s.text[s.pos], nil
}

func (s *StringInput) Listen() (ListenResult, error) {
	if s.closed {
		return LISTEN_UNKNOWN, protocolError(s, "listen", ErrClosed)
	}
	if s.pos >= s.limit {
		return LISTEN_EOF, nil
	}
	return LISTEN_AVAILABLE, nil
}

func (s *StringInput) ClearInput() error {
	return nil
}

func (s *StringInput) Position() (int64, error) {
	return int64(s.pos - s.start), nil
}

// SetPosition moves within the window, clamping at its end.
func (s *StringInput) SetPosition(pos int64) error {
	switch {
	case pos == POSITION_END:
		s.pos = s.limit
	case pos < 0:
		return ErrNoPosition
	default:
		s.pos = s.start + int(min(pos, int64(s.limit-s.start)))
	}
	s.unread = false
	return nil
}

// Remaining returns the unread part of the window.
func (s *StringInput) Remaining() string {
	return string(s.text[s.pos:s.limit])
}

// StringOutput accumulates written characters.
type StringOutput struct {
	ansiStream

	buf         []rune
	elementType ElementType
}

var _ Stream = (*StringOutput)(nil)

// NewStringOutput returns an empty output string stream. A BASE_CHAR
// element type restricts it to codes below 0x100.
func NewStringOutput(elementType ElementType) (s *StringOutput, err error) {
	switch elementType.Kind {
	case ELEMENT_DEFAULT:
		elementType = CHARACTER
	case ELEMENT_CHARACTER, ELEMENT_BASE_CHAR:
	default:
		return nil, ErrElementType
	}

	s = &StringOutput{elementType: elementType}
	s.ansiStream = newAnsiStream(s, "string-output")
	s.column = 0
	return
}

func (s *StringOutput) Variant() Variant {
	return VARIANT_STRING
}

func (s *StringOutput) IsOutput() bool {
	return true
}

func (s *StringOutput) ElementType() ElementType {
	return s.elementType
}

func (s *StringOutput) WriteByte8(p []byte) (int, error) {
	return 0, protocolError(s, "write-byte", ErrNotBinaryStream)
}

func (s *StringOutput) WriteInteger(v *big.Int) error {
	return protocolError(s, "write-byte", ErrNotBinaryStream)
}

func (s *StringOutput) WriteChar(code rune) error {
	if s.closed {
		return protocolError(s, "write-char", ErrClosed)
	}
	if s.elementType.Kind == ELEMENT_BASE_CHAR && code > 0xFF {
		return &FormatError{
			Stream: s,
			Err:    &codec.EncodingError{Format: "base-char", Code: code},
		}
	}

	s.buf = append(s.buf, code)
	s.column = UpdateColumn(s.column, code)
	return nil
}

func (s *StringOutput) ClearOutput() error {
	return nil
}

func (s *StringOutput) ForceOutput() error {
	return nil
}

func (s *StringOutput) FinishOutput() error {
	return nil
}

func (s *StringOutput) Position() (int64, error) {
	return int64(len(s.buf)), nil
}

// SetPosition truncates the contents, or pads them with spaces.
func (s *StringOutput) SetPosition(pos int64) error {
	switch {
	case pos == POSITION_END:
		return nil
	case pos < 0:
		return ErrNoPosition
	case pos < int64(len(s.buf)):
		s.buf = s.buf[:pos]
	default:
		for int64(len(s.buf)) < pos {
			s.buf = append(s.buf, ' ')
		}
	}
	return nil
}

func (s *StringOutput) Column() int {
	return s.column
}

func (s *StringOutput) SetColumn(column int) int {
	s.column = column
	return column
}

// String returns the contents.
func (s *StringOutput) String() string {
	return string(s.buf)
}

// GetString returns the contents and empties the stream.
func (s *StringOutput) GetString() string {
	text := string(s.buf)
	s.buf = slices.Delete(s.buf, 0, len(s.buf))
	s.column = 0
	return text
}

// StringLength returns the number of characters in text.
func (s *StringOutput) StringLength(text string) (int64, error) {
	return int64(len([]rune(text))), nil
}
