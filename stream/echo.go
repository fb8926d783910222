package stream

import (
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

// Echo reads from an input stream and copies what it reads to an output
// stream.
type Echo struct {
	composite
	input    Stream
	output   Stream
	lastChar rune
	pending  rune // Unread character, replayed without echoing it again.
}

var _ Stream = (*Echo)(nil)

// NewEcho returns a stream echoing input to output.
func NewEcho(input, output Stream) (s *Echo, err error) {
	switch {
	case !input.IsInput():
		return nil, notInput(input, "make-echo-stream")
	case !output.IsOutput():
		return nil, notOutput(output, "make-echo-stream")
	}

	s = &Echo{input: input, output: output, lastChar: noChar, pending: noChar}
	s.composite = newComposite(s, "echo")
	return
}

// Input returns the stream being read.
func (s *Echo) Input() Stream {
	return s.input
}

// Output returns the stream receiving the echo.
func (s *Echo) Output() Stream {
	return s.output
}

func (s *Echo) ReadByte8(p []byte) (n int, err error) {
	if err := s.checkOpen("read-byte"); err != nil {
		return 0, err
	}

	n, err = s.input.ReadByte8(p)
	if n > 0 {
		_, werr := s.output.WriteByte8(p[:n])
		if err == nil {
			err = werr
		}
	}
	return
}

func (s *Echo) WriteByte8(p []byte) (int, error) {
	if err := s.checkOpen("write-byte"); err != nil {
		return 0, err
	}

	return s.output.WriteByte8(p)
}

func (s *Echo) ReadInteger() (v *big.Int, err error) {
	if err := s.checkOpen("read-byte"); err != nil {
		return nil, err
	}

	v, err = s.input.ReadInteger()
	if err != nil {
		return
	}
	err = s.output.WriteInteger(v)
	return
}

func (s *Echo) WriteInteger(v *big.Int) error {
	if err := s.checkOpen("write-byte"); err != nil {
		return err
	}

	return s.output.WriteInteger(v)
}

func (s *Echo) ReadChar() (code rune, err error) {
	if err := s.checkOpen("read-char"); err != nil {
		return noChar, err
	}

	if s.pending != noChar {
		code = s.pending
		s.pending = noChar
		s.lastChar = code
		return
	}

	code, err = s.input.ReadChar()
	if err != nil {
		return
	}
	s.lastChar = code
	err = s.output.WriteChar(code)
	return
}

func (s *Echo) WriteChar(code rune) error {
	if err := s.checkOpen("write-char"); err != nil {
		return err
	}

	return s.output.WriteChar(code)
}

func (s *Echo) UnreadChar(code rune) error {
	if err := s.checkOpen("unread-char"); err != nil {
		return err
	}

	switch {
	case s.pending != noChar:
		return protocolError(s, "unread-char", ErrUnreadTwice)
	case s.lastChar == noChar:
		return protocolError(s, "unread-char", ErrUnreadNothing)
	case s.lastChar != code:
		return protocolError(s, "unread-char", ErrUnreadMismatch)
	}

	s.pending = code
	s.lastChar = noChar
	return nil
}

// PeekChar looks at the next character without echoing it.
func (s *Echo) PeekChar() (rune, error) {
	if err := s.checkOpen("peek-char"); err != nil {
		return noChar, err
	}

	if s.pending != noChar {
		return s.pending, nil
	}
	return s.input.PeekChar()
}

func (s *Echo) Listen() (ListenResult, error) {
	if err := s.checkOpen("listen"); err != nil {
		return LISTEN_UNKNOWN, err
	}

	if s.pending != noChar {
		return LISTEN_AVAILABLE, nil
	}
	return s.input.Listen()
}

func (s *Echo) ClearInput() error {
	if err := s.checkOpen("clear-input"); err != nil {
		return err
	}

	s.pending = noChar
	return s.input.ClearInput()
}

func (s *Echo) ClearOutput() error {
	if err := s.checkOpen("clear-output"); err != nil {
		return err
	}

	return s.output.ClearOutput()
}

func (s *Echo) ForceOutput() error {
	if err := s.checkOpen("force-output"); err != nil {
		return err
	}

	return s.output.ForceOutput()
}

func (s *Echo) FinishOutput() error {
	if err := s.checkOpen("finish-output"); err != nil {
		return err
	}

	return s.output.FinishOutput()
}

func (s *Echo) IsInput() bool {
	return true
}

func (s *Echo) IsOutput() bool {
	return true
}

func (s *Echo) IsInteractive() bool {
	return s.input.IsInteractive()
}

func (s *Echo) ElementType() ElementType {
	return s.input.ElementType()
}

func (s *Echo) ExternalFormat() codec.ExternalFormat {
	return s.input.ExternalFormat()
}

func (s *Echo) Column() int {
	return s.output.Column()
}

func (s *Echo) SetColumn(column int) int {
	return s.output.SetColumn(column)
}

func (s *Echo) InputHandle() int {
	return s.input.InputHandle()
}

func (s *Echo) OutputHandle() int {
	return s.output.OutputHandle()
}

func (s *Echo) Close(abort bool) error {
	return s.closeComponents(abort, s.input, s.output)
}
