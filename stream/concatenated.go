package stream

import (
	"errors"
	"io"
	"math/big"
	"slices"

	"github.com/ezrec/ansistream/codec"
)

// Concatenated reads its streams one after another.
type Concatenated struct {
	composite
	streams []Stream
	head    int
}

var _ Stream = (*Concatenated)(nil)

// NewConcatenated returns a stream reading each of streams to its end in
// turn.
func NewConcatenated(streams ...Stream) (s *Concatenated, err error) {
	for _, in := range streams {
		if !in.IsInput() {
			return nil, notInput(in, "make-concatenated-stream")
		}
	}

	s = &Concatenated{streams: slices.Clone(streams)}
	s.composite = newComposite(s, "concatenated")
	return
}

// Remaining returns the streams not yet read to their end.
func (s *Concatenated) Remaining() []Stream {
	return slices.Clone(s.streams[s.head:])
}

func (s *Concatenated) current() Stream {
	if s.head >= len(s.streams) {
		return nil
	}
	return s.streams[s.head]
}

func (s *Concatenated) advance() {
	logger.Tracef("%s: %s exhausted", s.name, streamName(s.streams[s.head]))
	s.head++
}

func (s *Concatenated) ReadByte8(p []byte) (n int, err error) {
	if err := s.checkOpen("read-byte"); err != nil {
		return 0, err
	}

	for in := s.current(); in != nil; in = s.current() {
		n, err = in.ReadByte8(p)
		if n == 0 && errors.Is(err, io.EOF) {
			s.advance()
			continue
		}
		if n > 0 && errors.Is(err, io.EOF) {
			err = nil
		}
		return
	}
	return 0, io.EOF
}

func (s *Concatenated) ReadInteger() (v *big.Int, err error) {
	if err := s.checkOpen("read-byte"); err != nil {
		return nil, err
	}

	for in := s.current(); in != nil; in = s.current() {
		v, err = in.ReadInteger()
		if errors.Is(err, io.EOF) && v == nil {
			s.advance()
			continue
		}
		return
	}
	return nil, io.EOF
}

func (s *Concatenated) ReadChar() (code rune, err error) {
	if err := s.checkOpen("read-char"); err != nil {
		return noChar, err
	}

	for in := s.current(); in != nil; in = s.current() {
		code, err = in.ReadChar()
		if errors.Is(err, io.EOF) {
			s.advance()
			continue
		}
		return
	}
	return noChar, io.EOF
}

func (s *Concatenated) PeekChar() (code rune, err error) {
	if err := s.checkOpen("peek-char"); err != nil {
		return noChar, err
	}

	for in := s.current(); in != nil; in = s.current() {
		code, err = in.PeekChar()
		if errors.Is(err, io.EOF) {
			s.advance()
			continue
		}
		return
	}
	return noChar, io.EOF
}

func (s *Concatenated) UnreadChar(code rune) error {
	if err := s.checkOpen("unread-char"); err != nil {
		return err
	}

	in := s.current()
	if in == nil {
		return protocolError(s, "unread-char", ErrUnreadNothing)
	}
	return in.UnreadChar(code)
}

func (s *Concatenated) Listen() (result ListenResult, err error) {
	if err := s.checkOpen("listen"); err != nil {
		return LISTEN_UNKNOWN, err
	}

	for in := s.current(); in != nil; in = s.current() {
		result, err = in.Listen()
		if err == nil && result == LISTEN_EOF {
			s.advance()
			continue
		}
		return
	}
	return LISTEN_EOF, nil
}

func (s *Concatenated) ClearInput() error {
	if err := s.checkOpen("clear-input"); err != nil {
		return err
	}

	if in := s.current(); in != nil {
		return in.ClearInput()
	}
	return nil
}

func (s *Concatenated) IsInput() bool {
	return true
}

func (s *Concatenated) ElementType() ElementType {
	if in := s.current(); in != nil {
		return in.ElementType()
	}
	return DEFAULT_ELEMENT
}

func (s *Concatenated) ExternalFormat() codec.ExternalFormat {
	if in := s.current(); in != nil {
		return in.ExternalFormat()
	}
	return codec.DEFAULT_FORMAT
}

// Close closes, when requested, the streams not yet read to their end.
func (s *Concatenated) Close(abort bool) error {
	return s.closeComponents(abort, s.streams[s.head:]...)
}
