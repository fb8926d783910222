package stream

import (
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

// ansiStream holds the state shared by every variant and answers every
// operation a variant does not override.
type ansiStream struct {
	self   Stream
	name   string
	closed bool
	cursor Cursor
	column int
}

func newAnsiStream(self Stream, name string) ansiStream {
	return ansiStream{
		self:   self,
		name:   name,
		cursor: NewCursor(),
	}
}

func (as *ansiStream) Name() string {
	return as.name
}

func (as *ansiStream) IsOpen() bool {
	return !as.closed
}

// InputCursor returns the line and column of the input side.
func (as *ansiStream) InputCursor() Cursor {
	return as.cursor
}

func (as *ansiStream) ReadByte8(p []byte) (int, error) {
	return 0, notInput(as.self, "read-byte")
}

func (as *ansiStream) WriteByte8(p []byte) (int, error) {
	return 0, notOutput(as.self, "write-byte")
}

func (as *ansiStream) ReadInteger() (*big.Int, error) {
	return nil, notInput(as.self, "read-byte")
}

func (as *ansiStream) WriteInteger(v *big.Int) error {
	return notOutput(as.self, "write-byte")
}

func (as *ansiStream) ReadChar() (rune, error) {
	return noChar, notInput(as.self, "read-char")
}

func (as *ansiStream) WriteChar(code rune) error {
	return notOutput(as.self, "write-char")
}

func (as *ansiStream) UnreadChar(code rune) error {
	return notInput(as.self, "unread-char")
}

func (as *ansiStream) PeekChar() (rune, error) {
	return noChar, notInput(as.self, "peek-char")
}

func (as *ansiStream) Listen() (ListenResult, error) {
	return LISTEN_UNKNOWN, notInput(as.self, "listen")
}

func (as *ansiStream) ClearInput() error {
	return notInput(as.self, "clear-input")
}

func (as *ansiStream) ClearOutput() error {
	return notOutput(as.self, "clear-output")
}

func (as *ansiStream) ForceOutput() error {
	return notOutput(as.self, "force-output")
}

func (as *ansiStream) FinishOutput() error {
	return notOutput(as.self, "finish-output")
}

func (as *ansiStream) IsInput() bool {
	return false
}

func (as *ansiStream) IsOutput() bool {
	return false
}

func (as *ansiStream) IsInteractive() bool {
	return false
}

func (as *ansiStream) ElementType() ElementType {
	return DEFAULT_ELEMENT
}

func (as *ansiStream) ExternalFormat() codec.ExternalFormat {
	return codec.DEFAULT_FORMAT
}

func (as *ansiStream) SetExternalFormat(designators ...any) error {
	return protocolError(as.self, "external-format", ErrNotSupported)
}

func (as *ansiStream) Length() (int64, error) {
	return 0, protocolError(as.self, "file-length", ErrNotFileStream)
}

func (as *ansiStream) Position() (int64, error) {
	return 0, ErrNoPosition
}

func (as *ansiStream) SetPosition(pos int64) error {
	return ErrNoPosition
}

func (as *ansiStream) Column() int {
	return -1
}

func (as *ansiStream) SetColumn(column int) int {
	return -1
}

func (as *ansiStream) InputHandle() int {
	return -1
}

func (as *ansiStream) OutputHandle() int {
	return -1
}

func (as *ansiStream) Close(abort bool) error {
	as.closed = true
	return nil
}

func (as *ansiStream) Pathname() string {
	return ""
}

func (as *ansiStream) Truename() (string, error) {
	return "", protocolError(as.self, "truename", ErrNotFileStream)
}
