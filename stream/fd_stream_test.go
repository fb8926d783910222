//go:build linux || darwin

package stream

import (
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/ezrec/ansistream/byteint"
)

func TestFDStream_CRLF(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "crlf.txt", []byte("A\r\nB"))
	s, err := Open(path, OpenOptions{ExternalFormat: []any{"utf-8", "crlf"}})
	assert.NoError(err)
	defer s.Close(false)

	for _, expect := range []rune{'A', '\n', 'B'} {
		code, err := s.ReadChar()
		assert.NoError(err)
		assert.Equal(expect, code)
	}

	_, err = s.ReadChar()
	assert.ErrorIs(err, io.EOF)
}

func TestFDStream_CRLF_Unread(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "crlf.txt", []byte("\r\nx\r"))
	s, err := Open(path, OpenOptions{ExternalFormat: []any{"crlf"}})
	assert.NoError(err)
	defer s.Close(false)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('\n', code)
	assert.Equal(2, LineNumber(s))

	assert.NoError(s.UnreadChar('\n'))
	assert.Equal(1, LineNumber(s))

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(0), pos)

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('\n', code)

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('x', code)

	// A lone CR at end of file stays a CR.
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('\r', code)

	assert.NoError(s.UnreadChar('\r'))
	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('\r', code)
}

func TestFDStream_CR(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "cr.txt", []byte("a\rb"))
	s, err := Open(path, OpenOptions{ExternalFormat: []any{"cr"}})
	assert.NoError(err)
	defer s.Close(false)

	assert.Equal("a\nb", readAll(t, s))
}

func TestFDStream_UnreadInvariant(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "utf8.txt", []byte("é☺z"))
	s, err := Open(path, OpenOptions{})
	assert.NoError(err)
	defer s.Close(false)

	err = s.UnreadChar('é')
	assert.ErrorIs(err, ErrUnreadNothing)

	for _, expect := range []rune{'é', '☺', 'z'} {
		code, err := s.ReadChar()
		assert.NoError(err)
		assert.Equal(expect, code)

		assert.ErrorIs(s.UnreadChar(expect+1), ErrUnreadMismatch)
		assert.NoError(s.UnreadChar(code))
		assert.ErrorIs(s.UnreadChar(code), ErrUnreadTwice)

		again, err := s.ReadChar()
		assert.NoError(err)
		assert.Equal(code, again)
	}
}

func TestFDStream_UCS2_BOM(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "ucs2.txt", []byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	s, err := Open(path, OpenOptions{ExternalFormat: []any{"ucs-2"}})
	assert.NoError(err)
	defer s.Close(false)

	assert.Equal("hi", readAll(t, s))
	assert.Equal("ucs-2le", s.ExternalFormat().Name)
}

func TestFDStream_Write(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "out.txt")
	s, err := Open(path, OpenOptions{
		Direction:      MODE_OUTPUT,
		ExternalFormat: []any{"latin-1", "crlf"},
	})
	assert.NoError(err)

	assert.NoError(WriteString(s, "\tcafé"))
	assert.Equal(12, s.Column())
	assert.NoError(Terpri(s))
	assert.Equal(0, s.Column())

	length, err := FileStringLength(s, "é\n")
	assert.NoError(err)
	assert.Equal(int64(3), length)

	err = s.WriteChar(0x263A)
	var fe *FormatError
	assert.ErrorAs(err, &fe)

	assert.NoError(s.Close(false))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal([]byte("\tcaf\xe9\r\n"), data)
}

func TestFDStream_Integers(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "ints.bin")
	s, err := Open(path, OpenOptions{
		Direction:   MODE_IO,
		ElementType: SignedByte(16),
	})
	assert.NoError(err)
	defer s.Close(false)

	for _, v := range []int64{-1, 2, -32768} {
		assert.NoError(WriteByte(s, big.NewInt(v)))
	}
	assert.ErrorIs(WriteByte(s, big.NewInt(40000)), byteint.ErrRange)

	length, err := s.Length()
	assert.NoError(err)
	assert.Equal(int64(3), length)

	assert.NoError(s.SetPosition(1))
	v, err := ReadByte(s)
	assert.NoError(err)
	assert.Equal(int64(2), v.Int64())

	pos, err := s.Position()
	assert.NoError(err)
	assert.Equal(int64(2), pos)

	_, err = ReadByte(s)
	assert.NoError(err)
	_, err = ReadByteNoEOF(s)
	var eof *EndOfFileError
	assert.ErrorAs(err, &eof)
	assert.ErrorIs(err, io.EOF)

	_, err = s.ReadChar()
	assert.ErrorIs(err, ErrNotCharacterStream)
	assert.Equal("signed-byte", s.ExternalFormat().Name)
}

func TestFDStream_Pipe_Listen(t *testing.T) {
	assert := assert.New(t)

	var fds [2]int
	err := unix.Pipe(fds[:])
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if fds[1] >= 0 {
			unix.Close(fds[1])
		}
	}()

	s, err := NewFDStream(fds[0], "pipe", FileOptions{Mode: MODE_INPUT})
	assert.NoError(err)
	defer s.Close(false)

	result, err := s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_NO_CHAR, result)

	_, ok, err := ReadCharNoHang(s)
	assert.NoError(err)
	assert.False(ok)

	_, err = unix.Write(fds[1], []byte("xy"))
	assert.NoError(err)

	result, err = s.Listen()
	assert.NoError(err)
	assert.Equal(LISTEN_AVAILABLE, result)

	code, ok, err := ReadCharNoHang(s)
	assert.NoError(err)
	assert.True(ok)
	assert.Equal('x', code)

	_, err = s.Position()
	assert.ErrorIs(err, ErrNoPosition)

	unix.Close(fds[1])
	fds[1] = -1

	code, err = s.ReadChar()
	assert.NoError(err)
	assert.Equal('y', code)

	for range 2 {
		result, err = s.Listen()
		assert.NoError(err)
		assert.Equal(LISTEN_EOF, result)
	}
}

func TestFDStream_File_Listen(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "listen.txt", []byte("ab"))
	s, err := Open(path, OpenOptions{})
	assert.NoError(err)
	defer s.Close(false)

	for _, expect := range []rune{'a', 'b'} {
		result, err := s.Listen()
		assert.NoError(err)
		assert.Equal(LISTEN_AVAILABLE, result)
		code, err := s.ReadChar()
		assert.NoError(err)
		assert.Equal(expect, code)
	}

	for range 3 {
		result, err := s.Listen()
		assert.NoError(err)
		assert.Equal(LISTEN_EOF, result)
	}
}

func TestFDStream_Close(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "close.txt", []byte("a"))
	s, err := Open(path, OpenOptions{})
	assert.NoError(err)

	assert.True(s.IsOpen())
	assert.True(s.IsInput())
	assert.False(s.IsOutput())
	assert.False(s.IsInteractive())
	assert.NotEqual(-1, s.InputHandle())
	assert.Equal(-1, s.OutputHandle())

	assert.NoError(s.Close(false))
	assert.NoError(s.Close(false))
	assert.False(s.IsOpen())

	_, err = s.ReadChar()
	assert.ErrorIs(err, ErrClosed)

	stdin, err := NewStandardFDStream(0, "stdin", FileOptions{})
	assert.NoError(err)
	assert.ErrorIs(stdin.Close(false), ErrCloseStandard)

	_, err = s.(*FDStream).WriteByte8([]byte("x"))
	assert.ErrorIs(err, ErrNotOutput)
}

func TestFDStream_Close_ReusedDescriptor(t *testing.T) {
	assert := assert.New(t)

	saved, err := unix.Dup(0)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = unix.Dup2(saved, 0)
		_ = unix.Close(saved)
	}()

	path := writeTemp(t, "reused.txt", []byte("r"))
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.NoError(unix.Dup2(fd, 0))
	assert.NoError(unix.Close(fd))

	s, err := NewFDStream(0, path, FileOptions{Mode: MODE_INPUT})
	assert.NoError(err)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('r', code)

	assert.NoError(s.Close(false))
	assert.False(s.IsOpen())
}

func TestFDListen_InputQueue(t *testing.T) {
	assert := assert.New(t)

	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatal(err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	count, err := unix.IoctlGetInt(fds[0], ioctlInputQueue)
	assert.NoError(err)
	assert.Equal(0, count)

	_, err = unix.Write(fds[1], []byte("xyz"))
	assert.NoError(err)

	count, err = unix.IoctlGetInt(fds[0], ioctlInputQueue)
	assert.NoError(err)
	assert.Equal(3, count)
}
