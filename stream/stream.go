// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"math/big"

	"github.com/ezrec/ansistream/codec"
	"github.com/ezrec/ansistream/logging"
)

var logger = logging.RootLogger.Sublogger("stream")

// Variant tags the family a stream belongs to.
type Variant int

//go:generate go tool stringer -linecomment -type=Variant
const (
	VARIANT_FILE      = Variant(0) // file
	VARIANT_STRING    = Variant(1) // string
	VARIANT_COMPOSITE = Variant(2) // composite
	VARIANT_EXTERNAL  = Variant(3) // external
)

// ListenResult is the outcome of a non-blocking readability probe.
type ListenResult int

//go:generate go tool stringer -linecomment -type=ListenResult
const (
	LISTEN_AVAILABLE = ListenResult(0) // available
	LISTEN_NO_CHAR   = ListenResult(1) // no-char-yet
	LISTEN_EOF       = ListenResult(2) // eof
	LISTEN_UNKNOWN   = ListenResult(3) // unknown
)

// Mode is the direction a stream was opened for.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_INPUT  = Mode(0) // input
	MODE_OUTPUT = Mode(1) // output
	MODE_IO     = Mode(2) // io
	MODE_PROBE  = Mode(3) // probe
)

// Input reports whether the mode permits reading.
func (m Mode) Input() bool {
	return m == MODE_INPUT || m == MODE_IO
}

// Output reports whether the mode permits writing.
func (m Mode) Output() bool {
	return m == MODE_OUTPUT || m == MODE_IO
}

// POSITION_END passed to SetPosition moves to the end of the stream.
const POSITION_END = int64(-1)

// noChar marks an empty unread slot.
const noChar = rune(-1)

// Stream is the contract every stream variant implements. End of data is
// reported as io.EOF. Operations a variant does not support fail with a
// *DirectionError or a *ProtocolError naming the stream.
type Stream interface {
	Variant() Variant
	Name() string

	// ReadByte8 reads raw octets, bypassing character decoding.
	ReadByte8(p []byte) (int, error)
	// WriteByte8 writes raw octets, bypassing character encoding.
	WriteByte8(p []byte) (int, error)
	// ReadInteger reads one element of a binary stream.
	ReadInteger() (*big.Int, error)
	// WriteInteger writes one element of a binary stream.
	WriteInteger(v *big.Int) error

	ReadChar() (rune, error)
	WriteChar(code rune) error
	// UnreadChar pushes back the character most recently read. Only one
	// character may be pushed back between reads.
	UnreadChar(code rune) error
	PeekChar() (rune, error)

	Listen() (ListenResult, error)
	ClearInput() error
	ClearOutput() error
	ForceOutput() error
	FinishOutput() error

	IsOpen() bool
	IsInput() bool
	IsOutput() bool
	IsInteractive() bool

	ElementType() ElementType
	ExternalFormat() codec.ExternalFormat
	SetExternalFormat(designators ...any) error

	// Length returns the length in elements. ErrNotFileStream if the
	// stream has no length.
	Length() (int64, error)
	// Position returns the position in elements. ErrNoPosition if the
	// stream has none.
	Position() (int64, error)
	// SetPosition moves to pos, or to the end with POSITION_END.
	SetPosition(pos int64) error
	// Column returns the output column, or -1 when unknown.
	Column() int
	SetColumn(column int) int

	// InputHandle and OutputHandle return the descriptor behind the
	// stream, or -1.
	InputHandle() int
	OutputHandle() int

	// Close closes the stream. Closing a closed stream does nothing.
	// With abort set, pending output is dropped and files created by the
	// open are removed.
	Close(abort bool) error

	Pathname() string
	Truename() (string, error)
}
