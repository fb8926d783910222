package stream

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ansistream/codec"
)

func newOutput(t *testing.T) *StringOutput {
	s, err := NewStringOutput(CHARACTER)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConcatenated(t *testing.T) {
	assert := assert.New(t)

	ab := NewStringInput("ab", 0, -1)
	cd := NewStringInput("cd", 0, -1)
	s, err := NewConcatenated(ab, cd)
	assert.NoError(err)
	assert.Equal(VARIANT_COMPOSITE, s.Variant())
	assert.Len(s.Remaining(), 2)

	var got []rune
	for range 3 {
		code, err := s.ReadChar()
		assert.NoError(err)
		got = append(got, code)
	}
	assert.Equal([]rune("abc"), got)
	assert.Equal([]Stream{cd}, s.Remaining())

	assert.NoError(s.UnreadChar('c'))
	code, err := s.PeekChar()
	assert.NoError(err)
	assert.Equal('c', code)

	assert.Equal("cd", readAll(t, s))
	assert.Empty(s.Remaining())

	_, err = s.ReadChar()
	assert.ErrorIs(err, io.EOF)
	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_EOF, result)

	err = s.UnreadChar('d')
	assert.ErrorIs(err, ErrUnreadNothing)

	err = s.WriteChar('x')
	assert.ErrorIs(err, ErrNotOutput)

	_, err = NewConcatenated(newOutput(t))
	assert.ErrorIs(err, ErrNotInput)
}

func TestConcatenated_Listen(t *testing.T) {
	assert := assert.New(t)

	s, err := NewConcatenated(NewStringInput("", 0, -1), NewStringInput("x", 0, -1))
	assert.NoError(err)

	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_AVAILABLE, result)
	assert.Len(s.Remaining(), 1)
}

func TestBroadcast(t *testing.T) {
	assert := assert.New(t)

	a := newOutput(t)
	b := newOutput(t)
	s, err := NewBroadcast(a, b)
	assert.NoError(err)

	assert.NoError(WriteString(s, "hi"))
	assert.Equal("hi", a.String())
	assert.Equal("hi", b.String())

	assert.Equal(2, s.Column())
	assert.Equal(0, s.SetColumn(0))
	assert.Equal(0, a.Column())
	assert.Equal(0, b.Column())

	assert.NoError(s.SetPosition(1))
	assert.Equal("h", a.String())
	assert.Equal("h", b.String())

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(1), pos)

	length, err := FileStringLength(s, "abc")
	assert.NoError(err)
	assert.Equal(int64(3), length)

	_, err = s.ReadChar()
	assert.ErrorIs(err, ErrNotInput)

	_, err = NewBroadcast(NewStringInput("x", 0, -1))
	assert.ErrorIs(err, ErrNotOutput)
}

func TestBroadcast_Empty(t *testing.T) {
	assert := assert.New(t)

	s, err := NewBroadcast()
	assert.NoError(err)

	assert.NoError(s.WriteChar('x'))
	assert.Equal(DEFAULT_ELEMENT, s.ElementType())
	assert.Equal(codec.DEFAULT_FORMAT, s.ExternalFormat())
	assert.Equal(-1, s.Column())

	length, err := s.Length()
	assert.NoError(err)
	assert.Equal(int64(0), length)

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(0), pos)

	length, err = FileStringLength(s, "abc")
	assert.NoError(err)
	assert.Equal(int64(1), length)
}

func TestTwoWay(t *testing.T) {
	assert := assert.New(t)

	in := NewStringInput("q", 0, -1)
	out := newOutput(t)
	s, err := NewTwoWay(in, out)
	assert.NoError(err)
	assert.True(s.IsInput())
	assert.True(s.IsOutput())

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('q', code)
	assert.NoError(s.WriteChar('r'))
	assert.Equal("r", out.String())
	assert.Equal(1, s.Column())

	_, err = s.Position()
	assert.ErrorIs(err, ErrNoPosition)
	assert.Equal(CHARACTER, s.ElementType())

	_, err = NewTwoWay(out, in)
	assert.ErrorIs(err, ErrNotInput)
}

func TestEcho(t *testing.T) {
	assert := assert.New(t)

	in := NewStringInput("xy", 0, -1)
	out := newOutput(t)
	s, err := NewEcho(in, out)
	assert.NoError(err)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('x', code)
	assert.Equal("x", out.String())

	assert.NoError(s.UnreadChar('x'))
	assert.ErrorIs(s.UnreadChar('x'), ErrUnreadTwice)

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('x', code)
	assert.Equal("x", out.String())

	code, err = s.PeekChar()
	assert.NoError(err)
	assert.Equal('y', code)
	assert.Equal("x", out.String())

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('y', code)
	assert.Equal("xy", out.String())

	assert.ErrorIs(s.UnreadChar('q'), ErrUnreadMismatch)
	assert.Equal(2, s.Column())
}

type failingClose struct {
	*StringOutput
	err    error
	closed bool
}

func (f *failingClose) Close(abort bool) error {
	f.closed = true
	return f.err
}

func TestComposite_CloseComponents(t *testing.T) {
	assert := assert.New(t)

	first := errors.New("first")
	a := &failingClose{StringOutput: newOutput(t), err: first}
	b := &failingClose{StringOutput: newOutput(t), err: errors.New("second")}

	s, err := NewBroadcast(a, b)
	assert.NoError(err)
	assert.NoError(s.Close(false))
	assert.False(a.closed)
	assert.False(s.IsOpen())

	s, err = NewBroadcast(a, b)
	assert.NoError(err)
	s.SetCloseComponents(true)
	assert.True(s.Flags().Has(codec.STREAM_CLOSE_COMPONENTS))
	assert.ErrorIs(s.Close(false), first)
	assert.True(a.closed)
	assert.True(b.closed)

	assert.NoError(s.Close(false))
}

func TestSynonym(t *testing.T) {
	assert := assert.New(t)

	bindings := NewBindings()
	s := NewSynonym("*in*", bindings)

	_, err := s.ReadChar()
	assert.ErrorIs(err, ErrUnbound)
	assert.False(s.IsInput())
	assert.Equal(-1, s.Column())

	bindings.Bind("*in*", NewStringInput("a", 0, -1))
	assert.True(s.IsInput())
	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)
	assert.Equal(1, LineNumber(s))

	bindings.Bind("*in*", NewStringInput("b", 0, -1))
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('b', code)

	bindings.Unbind("*in*")
	_, err = s.Listen()
	assert.ErrorIs(err, ErrUnbound)

	std := NewSynonym(STANDARD_INPUT, nil)
	assert.True(std.IsInput())
	assert.Equal(STANDARD_INPUT, std.Symbol())
}

func TestComposite_Closed(t *testing.T) {
	assert := assert.New(t)

	in := NewStringInput("ab", 0, -1)
	out := newOutput(t)

	concatenated, err := NewConcatenated(in)
	assert.NoError(err)
	broadcast, err := NewBroadcast(out)
	assert.NoError(err)
	twoWay, err := NewTwoWay(in, out)
	assert.NoError(err)
	echo, err := NewEcho(in, out)
	assert.NoError(err)

	bindings := NewBindings()
	bindings.Bind("*io*", twoWay)
	synonym := NewSynonym("*io*", bindings)

	for _, s := range []Stream{concatenated, broadcast, twoWay, echo, synonym} {
		assert.NoError(s.Close(false), s.Name())
		assert.False(s.IsOpen(), s.Name())
	}

	for _, s := range []Stream{concatenated, twoWay, echo, synonym} {
		_, err = s.ReadChar()
		assert.ErrorIs(err, ErrClosed, s.Name())
		_, err = s.PeekChar()
		assert.ErrorIs(err, ErrClosed, s.Name())
		_, err = s.Listen()
		assert.ErrorIs(err, ErrClosed, s.Name())
		_, err = s.ReadByte8(make([]byte, 1))
		assert.ErrorIs(err, ErrClosed, s.Name())
	}

	for _, s := range []Stream{broadcast, twoWay, echo} {
		assert.ErrorIs(s.WriteChar('x'), ErrClosed, s.Name())
		assert.ErrorIs(s.FinishOutput(), ErrClosed, s.Name())
		n, err := s.WriteByte8([]byte("x"))
		assert.ErrorIs(err, ErrClosed, s.Name())
		assert.Equal(0, n, s.Name())
	}

	assert.Empty(out.String())
	assert.True(in.IsOpen())
	code, err := in.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)
}

func TestConcatenated_CloseRemaining(t *testing.T) {
	assert := assert.New(t)

	ab := NewStringInput("ab", 0, -1)
	cd := NewStringInput("cd", 0, -1)
	s, err := NewConcatenated(ab, cd)
	assert.NoError(err)
	s.SetCloseComponents(true)

	for range 3 {
		_, err = s.ReadChar()
		assert.NoError(err)
	}
	assert.Equal([]Stream{cd}, s.Remaining())

	assert.NoError(s.Close(false))
	assert.True(ab.IsOpen())
	assert.False(cd.IsOpen())
}
