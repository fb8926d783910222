package stream

import (
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

// TwoWay reads from one stream and writes to another.
type TwoWay struct {
	composite
	input  Stream
	output Stream
}

var _ Stream = (*TwoWay)(nil)

// NewTwoWay joins an input stream and an output stream.
func NewTwoWay(input, output Stream) (s *TwoWay, err error) {
	switch {
	case !input.IsInput():
		return nil, notInput(input, "make-two-way-stream")
	case !output.IsOutput():
		return nil, notOutput(output, "make-two-way-stream")
	}

	s = &TwoWay{input: input, output: output}
	s.composite = newComposite(s, "two-way")
	return
}

// Input returns the stream reads go to.
func (s *TwoWay) Input() Stream {
	return s.input
}

// Output returns the stream writes go to.
func (s *TwoWay) Output() Stream {
	return s.output
}

// in returns the input side for op, unless the stream is closed.
func (s *TwoWay) in(op string) (Stream, error) {
	if err := s.checkOpen(op); err != nil {
		return nil, err
	}
	return s.input, nil
}

// out returns the output side for op, unless the stream is closed.
func (s *TwoWay) out(op string) (Stream, error) {
	if err := s.checkOpen(op); err != nil {
		return nil, err
	}
	return s.output, nil
}

func (s *TwoWay) ReadByte8(p []byte) (int, error) {
	in, err := s.in("read-byte")
	if err != nil {
		return 0, err
	}
	return in.ReadByte8(p)
}

func (s *TwoWay) WriteByte8(p []byte) (int, error) {
	out, err := s.out("write-byte")
	if err != nil {
		return 0, err
	}
	return out.WriteByte8(p)
}

func (s *TwoWay) ReadInteger() (*big.Int, error) {
	in, err := s.in("read-byte")
	if err != nil {
		return nil, err
	}
	return in.ReadInteger()
}

func (s *TwoWay) WriteInteger(v *big.Int) error {
	out, err := s.out("write-byte")
	if err != nil {
		return err
	}
	return out.WriteInteger(v)
}

func (s *TwoWay) ReadChar() (rune, error) {
	in, err := s.in("read-char")
	if err != nil {
		return noChar, err
	}
	return in.ReadChar()
}

func (s *TwoWay) WriteChar(code rune) error {
	out, err := s.out("write-char")
	if err != nil {
		return err
	}
	return out.WriteChar(code)
}

func (s *TwoWay) UnreadChar(code rune) error {
	in, err := s.in("unread-char")
	if err != nil {
		return err
	}
	return in.UnreadChar(code)
}

func (s *TwoWay) PeekChar() (rune, error) {
	in, err := s.in("peek-char")
	if err != nil {
		return noChar, err
	}
	return in.PeekChar()
}

func (s *TwoWay) Listen() (ListenResult, error) {
	in, err := s.in("listen")
	if err != nil {
		return LISTEN_UNKNOWN, err
	}
	return in.Listen()
}

func (s *TwoWay) ClearInput() error {
	in, err := s.in("clear-input")
	if err != nil {
		return err
	}
	return in.ClearInput()
}

func (s *TwoWay) ClearOutput() error {
	out, err := s.out("clear-output")
	if err != nil {
		return err
	}
	return out.ClearOutput()
}

func (s *TwoWay) ForceOutput() error {
	out, err := s.out("force-output")
	if err != nil {
		return err
	}
	return out.ForceOutput()
}

func (s *TwoWay) FinishOutput() error {
	out, err := s.out("finish-output")
	if err != nil {
		return err
	}
	return out.FinishOutput()
}

func (s *TwoWay) IsInput() bool {
	return true
}

func (s *TwoWay) IsOutput() bool {
	return true
}

func (s *TwoWay) IsInteractive() bool {
	return s.input.IsInteractive()
}

func (s *TwoWay) ElementType() ElementType {
	return s.input.ElementType()
}

func (s *TwoWay) ExternalFormat() codec.ExternalFormat {
	return s.input.ExternalFormat()
}

// SetExternalFormat changes the format of both sides.
func (s *TwoWay) SetExternalFormat(designators ...any) (err error) {
	err = s.input.SetExternalFormat(designators...)
	if err != nil {
		return
	}
	return s.output.SetExternalFormat(designators...)
}

func (s *TwoWay) Column() int {
	return s.output.Column()
}

func (s *TwoWay) SetColumn(column int) int {
	return s.output.SetColumn(column)
}

func (s *TwoWay) InputHandle() int {
	return s.input.InputHandle()
}

func (s *TwoWay) OutputHandle() int {
	return s.output.OutputHandle()
}

func (s *TwoWay) Close(abort bool) error {
	return s.closeComponents(abort, s.input, s.output)
}
