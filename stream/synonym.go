package stream

import (
	"math/big"
	"sync"

	"github.com/ezrec/ansistream/codec"
)

// Names bound in StandardBindings.
const (
	STANDARD_INPUT  = "*standard-input*"
	STANDARD_OUTPUT = "*standard-output*"
	ERROR_OUTPUT    = "*error-output*"
	TERMINAL_IO     = "*terminal-io*"
)

// Bindings is a set of named stream cells.
type Bindings struct {
	mutex sync.RWMutex
	cells map[string]Stream
}

// NewBindings returns an empty set of bindings.
func NewBindings() *Bindings {
	return &Bindings{cells: map[string]Stream{}}
}

// Bind sets the stream named name.
func (b *Bindings) Bind(name string, s Stream) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.cells[name] = s
}

// Unbind removes name.
func (b *Bindings) Unbind(name string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	delete(b.cells, name)
}

// Lookup returns the stream named name.
func (b *Bindings) Lookup(name string) (s Stream, ok bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	s, ok = b.cells[name]
	return
}

// StandardBindings holds the process standard streams.
var StandardBindings = NewBindings()

func init() {
	StandardBindings.Bind(STANDARD_INPUT, Stdin())
	StandardBindings.Bind(STANDARD_OUTPUT, Stdout())
	StandardBindings.Bind(ERROR_OUTPUT, Stderr())

	terminal, err := NewTwoWay(Stdin(), Stdout())
	if err != nil {
		panic(err)
	}
	StandardBindings.Bind(TERMINAL_IO, terminal)
}

// Synonym forwards every operation to the stream currently bound to a
// name.
type Synonym struct {
	ansiStream
	symbol   string
	bindings *Bindings
}

var _ Stream = (*Synonym)(nil)

// NewSynonym returns a stream standing for name in bindings, or in
// StandardBindings when bindings is nil.
func NewSynonym(name string, bindings *Bindings) *Synonym {
	if bindings == nil {
		bindings = StandardBindings
	}
	s := &Synonym{symbol: name, bindings: bindings}
	s.ansiStream = newAnsiStream(s, name)
	return s
}

// Symbol returns the name the stream forwards through.
func (s *Synonym) Symbol() string {
	return s.symbol
}

func (s *Synonym) target(op string) (Stream, error) {
	if s.closed {
		return nil, protocolError(s, op, ErrClosed)
	}
	t, ok := s.bindings.Lookup(s.symbol)
	if !ok || t == nil {
		return nil, protocolError(s, op, ErrUnbound)
	}
	return t, nil
}

func (s *Synonym) Variant() Variant {
	return VARIANT_COMPOSITE
}

func (s *Synonym) ReadByte8(p []byte) (int, error) {
	t, err := s.target("read-byte")
	if err != nil {
		return 0, err
	}
	return t.ReadByte8(p)
}

func (s *Synonym) WriteByte8(p []byte) (int, error) {
	t, err := s.target("write-byte")
	if err != nil {
		return 0, err
	}
	return t.WriteByte8(p)
}

func (s *Synonym) ReadInteger() (*big.Int, error) {
	t, err := s.target("read-byte")
	if err != nil {
		return nil, err
	}
	return t.ReadInteger()
}

func (s *Synonym) WriteInteger(v *big.Int) error {
	t, err := s.target("write-byte")
	if err != nil {
		return err
	}
	return t.WriteInteger(v)
}

func (s *Synonym) ReadChar() (rune, error) {
	t, err := s.target("read-char")
	if err != nil {
		return noChar, err
	}
	return t.ReadChar()
}

func (s *Synonym) WriteChar(code rune) error {
	t, err := s.target("write-char")
	if err != nil {
		return err
	}
	return t.WriteChar(code)
}

func (s *Synonym) UnreadChar(code rune) error {
	t, err := s.target("unread-char")
	if err != nil {
		return err
	}
	return t.UnreadChar(code)
}

func (s *Synonym) PeekChar() (rune, error) {
	t, err := s.target("peek-char")
	if err != nil {
		return noChar, err
	}
	return t.PeekChar()
}

func (s *Synonym) Listen() (ListenResult, error) {
	t, err := s.target("listen")
	if err != nil {
		return LISTEN_UNKNOWN, err
	}
	return t.Listen()
}

func (s *Synonym) ClearInput() error {
	t, err := s.target("clear-input")
	if err != nil {
		return err
	}
	return t.ClearInput()
}

func (s *Synonym) ClearOutput() error {
	t, err := s.target("clear-output")
	if err != nil {
		return err
	}
	return t.ClearOutput()
}

func (s *Synonym) ForceOutput() error {
	t, err := s.target("force-output")
	if err != nil {
		return err
	}
	return t.ForceOutput()
}

func (s *Synonym) FinishOutput() error {
	t, err := s.target("finish-output")
	if err != nil {
		return err
	}
	return t.FinishOutput()
}

func (s *Synonym) IsInput() bool {
	t, err := s.target("input-stream-p")
	return err == nil && t.IsInput()
}

func (s *Synonym) IsOutput() bool {
	t, err := s.target("output-stream-p")
	return err == nil && t.IsOutput()
}

func (s *Synonym) IsInteractive() bool {
	t, err := s.target("interactive-stream-p")
	return err == nil && t.IsInteractive()
}

func (s *Synonym) ElementType() ElementType {
	t, err := s.target("element-type")
	if err != nil {
		return DEFAULT_ELEMENT
	}
	return t.ElementType()
}

func (s *Synonym) ExternalFormat() codec.ExternalFormat {
	t, err := s.target("external-format")
	if err != nil {
		return codec.DEFAULT_FORMAT
	}
	return t.ExternalFormat()
}

func (s *Synonym) SetExternalFormat(designators ...any) error {
	t, err := s.target("external-format")
	if err != nil {
		return err
	}
	return t.SetExternalFormat(designators...)
}

func (s *Synonym) Length() (int64, error) {
	t, err := s.target("file-length")
	if err != nil {
		return 0, err
	}
	return t.Length()
}

func (s *Synonym) Position() (int64, error) {
	t, err := s.target("file-position")
	if err != nil {
		return 0, err
	}
	return t.Position()
}

func (s *Synonym) SetPosition(pos int64) error {
	t, err := s.target("file-position")
	if err != nil {
		return err
	}
	return t.SetPosition(pos)
}

func (s *Synonym) Column() int {
	t, err := s.target("line-column")
	if err != nil {
		return -1
	}
	return t.Column()
}

func (s *Synonym) SetColumn(column int) int {
	t, err := s.target("line-column")
	if err != nil {
		return -1
	}
	return t.SetColumn(column)
}

func (s *Synonym) InputHandle() int {
	t, err := s.target("input-handle")
	if err != nil {
		return -1
	}
	return t.InputHandle()
}

func (s *Synonym) OutputHandle() int {
	t, err := s.target("output-handle")
	if err != nil {
		return -1
	}
	return t.OutputHandle()
}

func (s *Synonym) Pathname() string {
	t, err := s.target("pathname")
	if err != nil {
		return ""
	}
	return t.Pathname()
}

func (s *Synonym) Truename() (string, error) {
	t, err := s.target("truename")
	if err != nil {
		return "", err
	}
	return t.Truename()
}
