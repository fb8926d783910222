// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"errors"
	"io"
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

// Callbacks holds the operations of an ExternalStream. Every slot is
// optional.
type Callbacks struct {
	ReadChar      func() (rune, error)
	WriteChar     func(code rune) error
	PeekChar      func() (rune, error)
	UnreadChar    func(code rune) error
	ReadByte      func() (*big.Int, error)
	WriteByte     func(v *big.Int) error
	ReadSequence  func(buf []rune) (int, error)
	WriteSequence func(buf []rune) error

	Listen       func() (ListenResult, error)
	ClearInput   func() error
	ClearOutput  func() error
	ForceOutput  func() error
	FinishOutput func() error

	ElementType    func() ElementType
	ExternalFormat func() codec.ExternalFormat

	FileLength      func() (int64, error)
	FilePosition    func() (int64, error)
	SetFilePosition func(pos int64) error
	LineColumn      func() int

	Close    func(abort bool) error
	Pathname func() string
	Truename func() (string, error)

	IsInput       func() bool
	IsOutput      func() bool
	IsInteractive func() bool
}

// ExternalStream is a stream whose operations are supplied by the caller.
type ExternalStream struct {
	ansiStream
	callbacks Callbacks
}

var _ Stream = (*ExternalStream)(nil)

// NewExternal returns a stream running callbacks.
func NewExternal(name string, callbacks Callbacks) *ExternalStream {
	s := &ExternalStream{callbacks: callbacks}
	s.ansiStream = newAnsiStream(s, name)
	return s
}

// Callbacks returns the operation table.
func (s *ExternalStream) Callbacks() Callbacks {
	return s.callbacks
}

func (s *ExternalStream) Variant() Variant {
	return VARIANT_EXTERNAL
}

func (s *ExternalStream) IsInput() bool {
	if s.callbacks.IsInput != nil {
		return s.callbacks.IsInput()
	}
	return s.callbacks.ReadChar != nil || s.callbacks.ReadByte != nil
}

func (s *ExternalStream) IsOutput() bool {
	if s.callbacks.IsOutput != nil {
		return s.callbacks.IsOutput()
	}
	return s.callbacks.WriteChar != nil || s.callbacks.WriteByte != nil
}

func (s *ExternalStream) IsInteractive() bool {
	if s.callbacks.IsInteractive != nil {
		return s.callbacks.IsInteractive()
	}
	return false
}

func (s *ExternalStream) ReadChar() (code rune, err error) {
	if s.callbacks.ReadChar == nil {
		return noChar, notInput(s, "read-char")
	}

	code, err = s.callbacks.ReadChar()
	if err != nil {
		return noChar, err
	}
	s.cursor.Advance(code)
	return
}

func (s *ExternalStream) WriteChar(code rune) error {
	if s.callbacks.WriteChar == nil {
		return notOutput(s, "write-char")
	}
	return s.callbacks.WriteChar(code)
}

func (s *ExternalStream) UnreadChar(code rune) (err error) {
	if s.callbacks.UnreadChar == nil {
		return notInput(s, "unread-char")
	}

	err = s.callbacks.UnreadChar(code)
	if err == nil {
		s.cursor.Backup()
	}
	return
}

// PeekChar reads and unreads a character when no peek operation is
// supplied.
func (s *ExternalStream) PeekChar() (code rune, err error) {
	if s.callbacks.PeekChar != nil {
		return s.callbacks.PeekChar()
	}

	code, err = s.ReadChar()
	if err != nil {
		return
	}
	err = s.UnreadChar(code)
	return
}

func (s *ExternalStream) ReadInteger() (*big.Int, error) {
	if s.callbacks.ReadByte == nil {
		return nil, notInput(s, "read-byte")
	}
	return s.callbacks.ReadByte()
}

func (s *ExternalStream) WriteInteger(v *big.Int) error {
	if s.callbacks.WriteByte == nil {
		return notOutput(s, "write-byte")
	}
	return s.callbacks.WriteByte(v)
}

// ReadByte8 reads octets through the read-byte operation.
func (s *ExternalStream) ReadByte8(p []byte) (n int, err error) {
	if s.callbacks.ReadByte == nil {
		return 0, notInput(s, "read-byte")
	}

	for n < len(p) {
		var v *big.Int
		v, err = s.callbacks.ReadByte()
		if errors.Is(err, io.EOF) && n > 0 {
			return n, nil
		}
		if err != nil {
			return
		}
		if !v.IsUint64() || v.Uint64() > 0xFF {
			return n, &HookResultError{Hook: HOOK_READ_BYTE, Value: v}
		}
		p[n] = byte(v.Uint64())
		n++
	}
	return
}

// WriteByte8 writes octets through the write-byte operation.
func (s *ExternalStream) WriteByte8(p []byte) (n int, err error) {
	if s.callbacks.WriteByte == nil {
		return 0, notOutput(s, "write-byte")
	}

	for _, octet := range p {
		err = s.callbacks.WriteByte(big.NewInt(int64(octet)))
		if err != nil {
			return
		}
		n++
	}
	return
}

// ReadRunes fills buf, through the read-sequence operation when one is
// supplied.
func (s *ExternalStream) ReadRunes(buf []rune) (n int, err error) {
	if s.callbacks.ReadSequence != nil {
		return s.callbacks.ReadSequence(buf)
	}

	for n < len(buf) {
		var code rune
		code, err = s.ReadChar()
		if errors.Is(err, io.EOF) && n > 0 {
			return n, nil
		}
		if err != nil {
			return
		}
		buf[n] = code
		n++
	}
	return
}

// WriteRunes writes buf, through the write-sequence operation when one is
// supplied.
func (s *ExternalStream) WriteRunes(buf []rune) (err error) {
	if s.callbacks.WriteSequence != nil {
		return s.callbacks.WriteSequence(buf)
	}

	for _, code := range buf {
		err = s.WriteChar(code)
		if err != nil {
			return
		}
	}
	return
}

// Listen reports a character as available when no listen operation is
// supplied.
func (s *ExternalStream) Listen() (ListenResult, error) {
	if s.callbacks.Listen != nil {
		return s.callbacks.Listen()
	}
	if !s.IsInput() {
		return LISTEN_UNKNOWN, notInput(s, "listen")
	}
	return LISTEN_AVAILABLE, nil
}

func (s *ExternalStream) ClearInput() error {
	if s.callbacks.ClearInput != nil {
		return s.callbacks.ClearInput()
	}
	return nil
}

func (s *ExternalStream) ClearOutput() error {
	if s.callbacks.ClearOutput != nil {
		return s.callbacks.ClearOutput()
	}
	return nil
}

func (s *ExternalStream) ForceOutput() error {
	if s.callbacks.ForceOutput != nil {
		return s.callbacks.ForceOutput()
	}
	return nil
}

func (s *ExternalStream) FinishOutput() error {
	if s.callbacks.FinishOutput != nil {
		return s.callbacks.FinishOutput()
	}
	return nil
}

func (s *ExternalStream) ElementType() ElementType {
	if s.callbacks.ElementType != nil {
		return s.callbacks.ElementType()
	}
	return DEFAULT_ELEMENT
}

func (s *ExternalStream) ExternalFormat() codec.ExternalFormat {
	if s.callbacks.ExternalFormat != nil {
		return s.callbacks.ExternalFormat()
	}
	return codec.DEFAULT_FORMAT
}

func (s *ExternalStream) Length() (int64, error) {
	if s.callbacks.FileLength != nil {
		return s.callbacks.FileLength()
	}
	return s.ansiStream.Length()
}

func (s *ExternalStream) Position() (int64, error) {
	if s.callbacks.FilePosition != nil {
		return s.callbacks.FilePosition()
	}
	return 0, ErrNoPosition
}

func (s *ExternalStream) SetPosition(pos int64) error {
	if s.callbacks.SetFilePosition != nil {
		return s.callbacks.SetFilePosition(pos)
	}
	return ErrNoPosition
}

func (s *ExternalStream) Column() int {
	if s.callbacks.LineColumn != nil {
		return s.callbacks.LineColumn()
	}
	return -1
}

func (s *ExternalStream) Close(abort bool) (err error) {
	if s.closed {
		return
	}
	s.closed = true

	if s.callbacks.Close != nil {
		err = s.callbacks.Close(abort)
	}
	return
}

func (s *ExternalStream) Pathname() string {
	if s.callbacks.Pathname != nil {
		return s.callbacks.Pathname()
	}
	return ""
}

func (s *ExternalStream) Truename() (string, error) {
	if s.callbacks.Truename != nil {
		return s.callbacks.Truename()
	}
	return s.ansiStream.Truename()
}
