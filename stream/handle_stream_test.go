package stream

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleStream_Reader(t *testing.T) {
	assert := assert.New(t)

	s, err := NewHandleStream(strings.NewReader("one\ntwo"), "reader", FileOptions{Mode: MODE_INPUT})
	assert.NoError(err)

	line, missing, err := ReadLine(s)
	assert.NoError(err)
	assert.False(missing)
	assert.Equal("one", line)
	assert.Equal(2, LineNumber(s))

	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_AVAILABLE, result)

	line, missing, err = ReadLine(s)
	assert.NoError(err)
	assert.True(missing)
	assert.Equal("two", line)

	result, err = s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_EOF, result)

	_, _, err = ReadLine(s)
	assert.ErrorIs(err, io.EOF)

	assert.NoError(s.Close(false))
}

func TestHandleStream_Writer(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	s, err := NewHandleStream(&buf, "buffer", FileOptions{
		Mode:           MODE_OUTPUT,
		ExternalFormat: []any{"utf-8", "crlf"},
	})
	assert.NoError(err)

	assert.NoError(WriteString(s, "a\nb"))
	assert.Equal(0, buf.Len())
	assert.NoError(s.ForceOutput())
	assert.Equal("a\r\nb", buf.String())

	s.SetBuffering(BUFFER_LINE)
	assert.NoError(WriteString(s, "c\n"))
	assert.Equal("a\r\nbc\r\n", buf.String())

	assert.NoError(WriteString(s, "dropped"))
	assert.NoError(s.ClearOutput())
	assert.NoError(s.Close(false))
	assert.Equal("a\r\nbc\r\n", buf.String())

	_, err = s.Position()
	assert.ErrorIs(err, ErrClosed)

	_, err = NewHandleStream(&buf, "buffer", FileOptions{Mode: MODE_IO})
	assert.NoError(err)
	_, err = NewHandleStream(strings.NewReader(""), "reader", FileOptions{Mode: MODE_OUTPUT})
	assert.ErrorIs(err, ErrNotOutput)
}

func TestHandleStream_File_Switch(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "switch.txt", []byte("abcdef"))
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewHandleStream(file, path, FileOptions{Mode: MODE_IO})
	assert.NoError(err)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(1), pos)

	assert.NoError(s.WriteChar('X'))

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('c', code)

	length, err := s.Length()
	assert.NoError(err)
	assert.Equal(int64(6), length)

	assert.NoError(s.SetPosition(POSITION_END))
	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_EOF, result)

	assert.NoError(s.SetPosition(0))
	assert.Equal("aXcdef", readAll(t, s))

	assert.NoError(s.Close(false))
	assert.Equal("aXcdef", readFile(t, path))
}

// duplex pairs a reader and a writer without exposing a Seek method, like
// a socket.
type duplex struct {
	io.Reader
	io.Writer
}

func TestHandleStream_Duplex_Switch(t *testing.T) {
	assert := assert.New(t)

	var sent bytes.Buffer
	s, err := NewHandleStream(&duplex{Reader: strings.NewReader("abc"), Writer: &sent}, "duplex", FileOptions{Mode: MODE_IO})
	assert.NoError(err)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)

	assert.NoError(s.WriteChar('x'))
	assert.NoError(s.ForceOutput())
	assert.Equal("x", sent.String())

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('b', code)

	assert.NoError(s.UnreadChar('b'))
	assert.NoError(s.WriteChar('y'))
	assert.Equal("bc", readAll(t, s))
	assert.Equal("xy", sent.String())
}

func TestHandleStream_Pipe_Listen(t *testing.T) {
	assert := assert.New(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	s, err := NewHandleStream(r, "pipe", FileOptions{Mode: MODE_INPUT})
	assert.NoError(err)
	defer s.Close(false)

	assert.NotEqual(-1, s.InputHandle())
	assert.Equal(-1, s.OutputHandle())

	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_NO_CHAR, result)

	_, err = w.Write([]byte("z"))
	assert.NoError(err)

	result, err = s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_AVAILABLE, result)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('z', code)
}

func TestHandleStream_Standard(t *testing.T) {
	assert := assert.New(t)

	assert.Same(Stdin(), Stdin())
	assert.ErrorIs(Stdin().Close(false), ErrCloseStandard)
	assert.ErrorIs(Stdout().Close(false), ErrCloseStandard)
	assert.True(Stdout().IsOpen())
	assert.Equal(BUFFER_NONE, Stderr().Buffering())

	s, ok := StandardBindings.Lookup(STANDARD_OUTPUT)
	assert.True(ok)
	assert.Equal(Stream(Stdout()), s)
}

func TestHandleStream_Binary(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "words.bin")
	s, err := Open(path, OpenOptions{
		Direction:      MODE_IO,
		ElementType:    UnsignedByte(32),
		ExternalFormat: []any{"little-endian"},
		Buffered:       true,
	})
	assert.NoError(err)

	assert.NoError(WriteOctets(s, []byte{1, 0, 0, 0, 2, 0, 0, 0}))
	assert.NoError(s.SetPosition(1))

	v, err := ReadByte(s)
	assert.NoError(err)
	assert.Equal(int64(2), v.Int64())

	length, err := FileLength(s)
	assert.NoError(err)
	assert.Equal(int64(2), length)

	assert.NoError(s.Close(false))
	assert.Equal("\x01\x00\x00\x00\x02\x00\x00\x00", readFile(t, path))
}
