package stream

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ansistream/codec"
)

func TestStringInput_Position(t *testing.T) {
	assert := assert.New(t)

	s := NewStringInput("hello", 0, -1)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('h', code)
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('e', code)

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(2), pos)

	assert.NoError(s.SetPosition(4))
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('o', code)

	_, err = s.ReadChar()
	assert.ErrorIs(err, io.EOF)

	assert.NoError(s.SetPosition(99))
	pos, _ = s.Position()
	assert.Equal(int64(5), pos)

	assert.NoError(s.SetPosition(POSITION_END))
	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_EOF, result)

	assert.NoError(s.SetPosition(0))
	result, err = s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_AVAILABLE, result)
}

func TestStringInput_Window(t *testing.T) {
	assert := assert.New(t)

	s := NewStringInput("abcdef", 2, 4)

	var got []rune
	for code := range Chars(s) {
		got = append(got, code)
	}
	assert.Equal([]rune("cd"), got)

	assert.NoError(s.SetPosition(0))
	assert.Equal("cd", s.Remaining())
}

func TestStringInput_Unread(t *testing.T) {
	assert := assert.New(t)

	s := NewStringInput("ab", 0, -1)

	err := s.UnreadChar('a')
	assert.ErrorIs(err, ErrUnreadNothing)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)

	err = s.UnreadChar('x')
	assert.ErrorIs(err, ErrUnreadMismatch)

	assert.NoError(s.UnreadChar('a'))

	err = s.UnreadChar('a')
	assert.ErrorIs(err, ErrUnreadTwice)
	var pe *ProtocolError
	assert.True(errors.As(err, &pe))

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)

	code, err = s.PeekChar()
	assert.NoError(err)
	assert.Equal('b', code)
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('b', code)
}

func TestStringInput_NotBinary(t *testing.T) {
	assert := assert.New(t)

	s := NewStringInput("ab", 0, -1)
	_, err := s.ReadByte8(make([]byte, 1))
	assert.ErrorIs(err, ErrNotBinaryStream)

	err = s.WriteChar('x')
	assert.ErrorIs(err, ErrNotOutput)
	var de *DirectionError
	assert.True(errors.As(err, &de))
	assert.Equal("write-char", de.Op)
}

func TestStringOutput(t *testing.T) {
	assert := assert.New(t)

	s, err := NewStringOutput(DEFAULT_ELEMENT)
	assert.NoError(err)
	assert.Equal(CHARACTER, s.ElementType())

	assert.NoError(WriteString(s, "abc"))
	assert.Equal(3, s.Column())

	assert.NoError(s.SetPosition(5))
	assert.Equal("abc  ", s.String())

	assert.NoError(s.SetPosition(2))
	assert.Equal("ab", s.String())

	assert.NoError(s.SetPosition(POSITION_END))
	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(2), pos)

	assert.NoError(Terpri(s))
	assert.Equal(0, s.Column())

	assert.Equal("ab\n", s.GetString())
	assert.Equal("", s.GetString())
}

func TestStringOutput_BaseChar(t *testing.T) {
	assert := assert.New(t)

	s, err := NewStringOutput(BASE_CHAR)
	assert.NoError(err)

	assert.NoError(s.WriteChar(0xE9))

	err = s.WriteChar(0x263A)
	var ee *codec.EncodingError
	assert.True(errors.As(err, &ee))
	assert.Equal(rune(0x263A), ee.Code)
	var fe *FormatError
	assert.True(errors.As(err, &fe))

	assert.Equal("é", s.GetString())

	_, err = NewStringOutput(OCTET)
	assert.ErrorIs(err, ErrElementType)
}
