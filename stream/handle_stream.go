package stream

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	pkgerrors "github.com/pkg/errors"

	"github.com/ezrec/ansistream/codec"
)

// Buffering selects when a HandleStream flushes its output.
type Buffering int

const (
	BUFFER_FULL = Buffering(0) // Flush when the buffer fills.
	BUFFER_LINE = Buffering(1) // Flush after each write holding a newline.
	BUFFER_NONE = Buffering(2) // Flush after every write.
)

const (
	opNone  = 0
	opRead  = 1
	opWrite = -1
)

// HandleStream is a buffered stream over an io.Reader, an io.Writer or
// both, typically an *os.File or a net.Conn.
type HandleStream struct {
	fileStream

	handle    any
	reader    *bufio.Reader
	writer    *bufio.Writer
	buffering Buffering
	lastOp    int
	standard  bool
}

var _ Stream = (*HandleStream)(nil)

// NewHandleStream creates a buffered stream over handle. An input mode
// requires an io.Reader and an output mode an io.Writer. Close closes
// handle when it is an io.Closer.
func NewHandleStream(handle any, name string, opts FileOptions) (s *HandleStream, err error) {
	s = &HandleStream{handle: handle}

	r, isReader := handle.(io.Reader)
	w, isWriter := handle.(io.Writer)
	switch {
	case opts.Mode.Input() && !isReader:
		return nil, protocolError(s, "open", ErrNotInput)
	case opts.Mode.Output() && !isWriter:
		return nil, protocolError(s, "open", ErrNotOutput)
	}

	err = s.init(s, s, name, opts)
	if err != nil {
		return nil, err
	}

	if opts.Mode.Input() {
		s.reader = bufio.NewReader(r)
	}
	if opts.Mode.Output() {
		s.writer = bufio.NewWriter(w)
	}
	return
}

func (s *HandleStream) ioError(op string, err error) error {
	return &IOError{Stream: s, Op: op, Err: pkgerrors.Wrapf(err, "unable to %s %s", op, s.name)}
}

func (s *HandleStream) width() int64 {
	return int64(s.byteSize / 8)
}

// SetBuffering changes when output is flushed.
func (s *HandleStream) SetBuffering(buffering Buffering) {
	s.buffering = buffering
}

// Buffering returns the output buffering mode.
func (s *HandleStream) Buffering() Buffering {
	return s.buffering
}

// toRead flushes pending output before the first read after a write.
func (s *HandleStream) toRead() (err error) {
	if s.lastOp == opWrite && s.writer != nil {
		logger.Debugf("%s: switching from write to read", s.name)
		err = s.writer.Flush()
		if err != nil {
			return s.ioError("write", err)
		}
	}
	s.lastOp = opRead
	return
}

// toWrite drops read-ahead before the first write after a read, moving the
// handle back to the logical position. Read-ahead on a handle that cannot
// seek back, such as a socket, is kept for the next read.
func (s *HandleStream) toWrite() (err error) {
	if s.lastOp == opRead && s.reader != nil {
		pending := int64(len(s.byteStack) + s.reader.Buffered())
		seeker, ok := s.handle.(io.Seeker)
		if ok && pending > 0 {
			_, serr := seeker.Seek(-pending, io.SeekCurrent)
			ok = serr == nil
		}
		if ok {
			logger.Debugf("%s: switching from read to write, dropping %d octets", s.name, pending)
			s.reader.Reset(s.handle.(io.Reader))
			s.byteStack = nil
			s.forget()
		} else {
			logger.Debugf("%s: switching from read to write, keeping %d octets", s.name, pending)
		}
	}
	s.lastOp = opWrite
	return
}

func (s *HandleStream) ReadByte8(p []byte) (n int, err error) {
	switch {
	case !s.mode.Input():
		return 0, notInput(s, "read-byte")
	case s.closed:
		return 0, protocolError(s, "read-byte", ErrClosed)
	case len(p) == 0:
		return
	}

	n = s.popStack(p)
	if n > 0 {
		return
	}

	err = s.toRead()
	if err != nil {
		return
	}

	n, err = s.reader.Read(p)
	if err != nil && err != io.EOF {
		err = s.ioError("read", err)
	}
	return
}

func (s *HandleStream) WriteByte8(p []byte) (n int, err error) {
	switch {
	case !s.mode.Output():
		return 0, notOutput(s, "write-byte")
	case s.closed:
		return 0, protocolError(s, "write-byte", ErrClosed)
	}

	err = s.toWrite()
	if err != nil {
		return
	}

	n, err = s.writer.Write(p)
	if err != nil {
		return n, s.ioError("write", err)
	}

	switch s.buffering {
	case BUFFER_NONE:
		err = s.writer.Flush()
	case BUFFER_LINE:
		if bytes.IndexByte(p, '\n') >= 0 {
			err = s.writer.Flush()
		}
	}
	if err != nil {
		err = s.ioError("write", err)
	}
	return
}

// offset returns the logical octet offset of the handle.
func (s *HandleStream) offset() (offset int64, err error) {
	seeker, ok := s.handle.(io.Seeker)
	if !ok {
		return 0, ErrNoPosition
	}

	if s.lastOp == opWrite {
		err = s.writer.Flush()
		if err != nil {
			return 0, s.ioError("write", err)
		}
	}

	offset, err = seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		logger.Tracef("%s: not seekable: %v", s.name, err)
		return 0, ErrNoPosition
	}

	if s.lastOp == opRead {
		offset -= int64(s.reader.Buffered())
	}
	offset -= int64(len(s.byteStack))
	return
}

func (s *HandleStream) Position() (pos int64, err error) {
	if s.closed {
		return 0, protocolError(s, "file-position", ErrClosed)
	}

	offset, err := s.offset()
	if err != nil {
		return
	}

	pos = offset / s.width()
	return
}

func (s *HandleStream) SetPosition(pos int64) (err error) {
	if s.closed {
		return protocolError(s, "file-position", ErrClosed)
	}

	seeker, ok := s.handle.(io.Seeker)
	if !ok {
		return ErrNoPosition
	}

	if s.lastOp == opWrite {
		err = s.writer.Flush()
		if err != nil {
			return s.ioError("write", err)
		}
	}

	switch {
	case pos == POSITION_END:
		_, err = seeker.Seek(0, io.SeekEnd)
	case pos < 0:
		return ErrNoPosition
	default:
		_, err = seeker.Seek(pos*s.width(), io.SeekStart)
	}
	if err != nil {
		logger.Tracef("%s: not seekable: %v", s.name, err)
		return ErrNoPosition
	}

	if s.reader != nil {
		s.reader.Reset(s.handle.(io.Reader))
	}
	s.byteStack = nil
	s.forget()
	s.lastOp = opNone
	return
}

// size returns the octet size of the handle.
func (s *HandleStream) size() (size int64, err error) {
	if stat, ok := s.handle.(interface{ Stat() (os.FileInfo, error) }); ok {
		var info os.FileInfo
		info, err = stat.Stat()
		if err != nil {
			return 0, s.ioError("stat", err)
		}
		if info.Mode().IsRegular() {
			size = info.Size()
			if s.lastOp == opWrite && s.writer != nil {
				size += int64(s.writer.Buffered())
			}
			return
		}
		return 0, ErrNoPosition
	}

	seeker, ok := s.handle.(io.Seeker)
	if !ok {
		return 0, protocolError(s, "file-length", ErrNotFileStream)
	}
	if s.lastOp == opWrite {
		err = s.writer.Flush()
		if err != nil {
			return 0, s.ioError("write", err)
		}
	}

	cur, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, ErrNoPosition
	}
	size, err = seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, ErrNoPosition
	}
	_, err = seeker.Seek(cur, io.SeekStart)
	if err != nil {
		return 0, s.ioError("seek", err)
	}
	return
}

func (s *HandleStream) Length() (length int64, err error) {
	if s.closed {
		return 0, protocolError(s, "file-length", ErrClosed)
	}

	size, err := s.size()
	if err != nil {
		return
	}
	if size%s.width() != 0 {
		return 0, protocolError(s, "file-length", ErrNotBoundary)
	}

	length = size / s.width()
	return
}

// handleFD returns the descriptor behind handle.
func handleFD(handle any) (fd int, ok bool) {
	switch h := handle.(type) {
	case syscall.Conn:
		raw, err := h.SyscallConn()
		if err != nil {
			return -1, false
		}
		err = raw.Control(func(u uintptr) {
			fd = int(u)
		})
		return fd, err == nil
	case interface{ Fd() uintptr }:
		return int(h.Fd()), true
	}
	return -1, false
}

func (s *HandleStream) Listen() (result ListenResult, err error) {
	switch {
	case !s.mode.Input():
		return LISTEN_UNKNOWN, notInput(s, "listen")
	case s.closed:
		return LISTEN_UNKNOWN, protocolError(s, "listen", ErrClosed)
	case len(s.byteStack) > 0:
		return LISTEN_AVAILABLE, nil
	case s.lastOp == opRead && s.reader.Buffered() > 0:
		return LISTEN_AVAILABLE, nil
	}

	if fd, ok := handleFD(s.handle); ok {
		result, err = socketListen(fd)
		if err != nil || result != LISTEN_UNKNOWN {
			return
		}

		var pushed []byte
		result, pushed, err = fdListen(fd, s.codec.Flags&codec.STREAM_MIGHT_SEEK != 0)
		s.byteStack = append(s.byteStack, pushed...)
		if err != nil {
			err = &IOError{Stream: s, Op: "listen", Err: err}
		}
		if err != nil || result != LISTEN_UNKNOWN {
			return
		}
	}

	if seeker, ok := s.handle.(io.Seeker); ok {
		cur, cerr := s.offset()
		end, eerr := seeker.Seek(0, io.SeekEnd)
		if cerr == nil && eerr == nil {
			_, err = seeker.Seek(cur, io.SeekStart)
			if err != nil {
				return LISTEN_UNKNOWN, s.ioError("seek", err)
			}
			s.reader.Reset(s.handle.(io.Reader))
			s.byteStack = nil
			if cur >= end {
				return LISTEN_EOF, nil
			}
			return LISTEN_AVAILABLE, nil
		}
	}

	return LISTEN_UNKNOWN, nil
}

func (s *HandleStream) ClearInput() error {
	if !s.mode.Input() {
		return notInput(s, "clear-input")
	}

	s.byteStack = nil
	s.forget()
	if s.lastOp == opRead && s.reader.Buffered() > 0 {
		_, _ = s.reader.Discard(s.reader.Buffered())
	}
	return nil
}

func (s *HandleStream) ClearOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "clear-output")
	}

	s.writer.Reset(s.handle.(io.Writer))
	return nil
}

func (s *HandleStream) ForceOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "force-output")
	}
	if s.closed {
		return protocolError(s, "force-output", ErrClosed)
	}

	err := s.writer.Flush()
	if err != nil {
		return s.ioError("write", err)
	}
	return nil
}

func (s *HandleStream) FinishOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "finish-output")
	}
	if s.closed {
		return protocolError(s, "finish-output", ErrClosed)
	}

	err := s.writer.Flush()
	if err != nil {
		return s.ioError("write", err)
	}
	if syncer, ok := s.handle.(interface{ Sync() error }); ok {
		// Pipes and terminals refuse to sync.
		_ = syncer.Sync()
	}
	return nil
}

func (s *HandleStream) IsInteractive() bool {
	if s.closed || !s.mode.Input() {
		return false
	}
	fd, ok := handleFD(s.handle)
	if !ok {
		return false
	}
	return isatty.IsTerminal(uintptr(fd)) || isatty.IsCygwinTerminal(uintptr(fd))
}

func (s *HandleStream) InputHandle() int {
	if !s.mode.Input() {
		return -1
	}
	fd, ok := handleFD(s.handle)
	if !ok {
		return -1
	}
	return fd
}

func (s *HandleStream) OutputHandle() int {
	if !s.mode.Output() {
		return -1
	}
	fd, ok := handleFD(s.handle)
	if !ok {
		return -1
	}
	return fd
}

// Close flushes pending output, or drops it when aborting, then closes the
// handle and completes any file replacement.
func (s *HandleStream) Close(abort bool) (err error) {
	if s.closed {
		return
	}
	if s.standard {
		return protocolError(s, "close", ErrCloseStandard)
	}

	if s.writer != nil {
		if abort {
			s.writer.Reset(s.handle.(io.Writer))
		} else if ferr := s.writer.Flush(); ferr != nil {
			err = s.ioError("write", ferr)
		}
	}

	if closer, ok := s.handle.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = s.ioError("close", cerr)
		}
	}
	s.closed = true

	cerr := s.cleanup(abort)
	if err == nil {
		err = cerr
	}
	return
}

func newStandard(file *os.File, name string, mode Mode, buffering Buffering) *HandleStream {
	s, err := NewHandleStream(file, name, FileOptions{Mode: mode})
	if err != nil {
		panic(err)
	}
	s.standard = true
	s.buffering = buffering
	if buffering == BUFFER_FULL && isatty.IsTerminal(file.Fd()) {
		s.buffering = BUFFER_LINE
	}
	return s
}

var (
	// Stdin returns the stream over the process standard input.
	Stdin = sync.OnceValue(func() *HandleStream {
		return newStandard(os.Stdin, "stdin", MODE_INPUT, BUFFER_FULL)
	})
	// Stdout returns the stream over the process standard output. It is
	// line buffered on a terminal.
	Stdout = sync.OnceValue(func() *HandleStream {
		return newStandard(os.Stdout, "stdout", MODE_OUTPUT, BUFFER_FULL)
	})
	// Stderr returns the unbuffered stream over the process standard error.
	Stderr = sync.OnceValue(func() *HandleStream {
		return newStandard(os.Stderr, "stderr", MODE_OUTPUT, BUFFER_NONE)
	})
)
