//go:build linux || darwin

package stream

import (
	"io"

	"github.com/mattn/go-isatty"
	pkgerrors "github.com/pkg/errors"

	"github.com/ezrec/ansistream/codec"
)

// FDStream is an unbuffered stream over a raw file descriptor.
type FDStream struct {
	fileStream
	fd       int
	standard bool
}

var _ Stream = (*FDStream)(nil)

// NewFDStream creates a stream over fd. The stream owns fd and closes it.
func NewFDStream(fd int, name string, opts FileOptions) (s *FDStream, err error) {
	s = &FDStream{fd: fd}
	err = s.init(s, s, name, opts)
	if err != nil {
		s = nil
	}
	return
}

// NewStandardFDStream creates a stream over one of the process standard
// descriptors. Closing it fails with ErrCloseStandard.
func NewStandardFDStream(fd int, name string, opts FileOptions) (s *FDStream, err error) {
	s, err = NewFDStream(fd, name, opts)
	if err == nil {
		s.standard = true
	}
	return
}

func (s *FDStream) ioError(op string, err error) error {
	return &IOError{Stream: s, Op: op, Err: pkgerrors.Wrapf(err, "unable to %s descriptor %d", op, s.fd)}
}

func (s *FDStream) width() int64 {
	return int64(s.byteSize / 8)
}

func (s *FDStream) ReadByte8(p []byte) (n int, err error) {
	switch {
	case !s.mode.Input():
		return 0, notInput(s, "read-byte")
	case s.fd < 0:
		return 0, protocolError(s, "read-byte", ErrClosed)
	case len(p) == 0:
		return
	}

	n = s.popStack(p)
	if n > 0 {
		return
	}

	n, err = readRetry(s.fd, p)
	if err != nil {
		return 0, s.ioError("read", err)
	}
	if n == 0 {
		err = io.EOF
	}
	return
}

// discardPending moves the descriptor back over pushed back bytes, so a
// write lands at the logical position.
func (s *FDStream) discardPending() (err error) {
	pending := int64(len(s.byteStack))
	s.byteStack = nil
	s.forget()

	_, err = seekFD(s.fd, -pending, io.SeekCurrent)
	if err != nil && !isSeekError(err) {
		return s.ioError("seek", err)
	}
	return nil
}

func (s *FDStream) WriteByte8(p []byte) (n int, err error) {
	switch {
	case !s.mode.Output():
		return 0, notOutput(s, "write-byte")
	case s.fd < 0:
		return 0, protocolError(s, "write-byte", ErrClosed)
	}

	if len(s.byteStack) > 0 {
		err = s.discardPending()
		if err != nil {
			return
		}
	}

	n, err = writeRetry(s.fd, p)
	if err != nil {
		err = s.ioError("write", err)
	}
	return
}

func (s *FDStream) Position() (pos int64, err error) {
	if s.fd < 0 {
		return 0, protocolError(s, "file-position", ErrClosed)
	}

	offset, err := seekFD(s.fd, 0, io.SeekCurrent)
	if err != nil {
		if isSeekError(err) {
			return 0, ErrNoPosition
		}
		return 0, s.ioError("seek", err)
	}

	offset -= int64(len(s.byteStack))
	pos = offset / s.width()
	return
}

func (s *FDStream) SetPosition(pos int64) (err error) {
	switch {
	case s.fd < 0:
		return protocolError(s, "file-position", ErrClosed)
	case pos == POSITION_END:
		_, err = seekFD(s.fd, 0, io.SeekEnd)
	case pos < 0:
		return ErrNoPosition
	default:
		_, err = seekFD(s.fd, pos*s.width(), io.SeekStart)
	}
	if err != nil {
		if isSeekError(err) {
			return ErrNoPosition
		}
		return s.ioError("seek", err)
	}

	s.byteStack = nil
	s.forget()
	return
}

func (s *FDStream) Length() (length int64, err error) {
	if s.fd < 0 {
		return 0, protocolError(s, "file-length", ErrClosed)
	}

	size, _, err := regularSize(s.fd)
	if err != nil {
		return 0, &IOError{Stream: s, Op: "file-length", Err: err}
	}
	if size%s.width() != 0 {
		return 0, protocolError(s, "file-length", ErrNotBoundary)
	}

	length = size / s.width()
	return
}

func (s *FDStream) Listen() (result ListenResult, err error) {
	switch {
	case !s.mode.Input():
		return LISTEN_UNKNOWN, notInput(s, "listen")
	case s.fd < 0:
		return LISTEN_UNKNOWN, protocolError(s, "listen", ErrClosed)
	case len(s.byteStack) > 0:
		return LISTEN_AVAILABLE, nil
	}

	result, pushed, err := fdListen(s.fd, s.codec.Flags&codec.STREAM_MIGHT_SEEK != 0)
	s.byteStack = append(s.byteStack, pushed...)
	if err != nil {
		err = &IOError{Stream: s, Op: "listen", Err: err}
	}
	return
}

// ClearInput drops pushed back bytes and, on a terminal, any input typed
// ahead.
func (s *FDStream) ClearInput() (err error) {
	if !s.mode.Input() {
		return notInput(s, "clear-input")
	}

	s.byteStack = nil
	s.forget()
	if !s.IsInteractive() {
		return
	}

	var junk [256]byte
	for {
		result, pushed, lerr := fdListen(s.fd, false)
		if lerr != nil || result != LISTEN_AVAILABLE {
			return
		}
		if pushed == nil {
			_, err = readRetry(s.fd, junk[:])
			if err != nil {
				return s.ioError("read", err)
			}
		}
	}
}

func (s *FDStream) ClearOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "clear-output")
	}
	return nil
}

func (s *FDStream) ForceOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "force-output")
	}
	return nil
}

func (s *FDStream) FinishOutput() error {
	if !s.mode.Output() {
		return notOutput(s, "finish-output")
	}
	return nil
}

func (s *FDStream) IsInteractive() bool {
	if s.fd < 0 || !s.mode.Input() {
		return false
	}
	fd := uintptr(s.fd)
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *FDStream) InputHandle() int {
	if !s.mode.Input() {
		return -1
	}
	return s.fd
}

func (s *FDStream) OutputHandle() int {
	if !s.mode.Output() {
		return -1
	}
	return s.fd
}

// Close closes the descriptor and then replaces or removes files according
// to how the stream was opened.
func (s *FDStream) Close(abort bool) (err error) {
	if s.closed {
		return
	}
	if s.standard {
		return protocolError(s, "close", ErrCloseStandard)
	}

	if s.fd >= 0 {
		err = closeFD(s.fd)
		if err != nil {
			err = s.ioError("close", err)
		}
	}
	s.fd = -1
	s.closed = true

	cerr := s.cleanup(abort)
	if err == nil {
		err = cerr
	}
	return
}

// openDescriptor opens target as an unbuffered stream named name.
func openDescriptor(target string, flag int, name string, opts FileOptions) (fv fileVariant, err error) {
	fd, err := openRetry(target, flag, openPerm)
	if err != nil {
		err = pkgerrors.Wrapf(err, "unable to open %s", target)
		return
	}

	fs, err := NewFDStream(fd, name, opts)
	if err != nil {
		_ = closeFD(fd)
		return
	}

	fv = fs
	return
}
