package stream

import (
	"math/big"
	"slices"

	"github.com/ezrec/ansistream/codec"
)

// Broadcast copies everything written to it to each of its streams.
type Broadcast struct {
	composite
	streams []Stream
}

var _ Stream = (*Broadcast)(nil)

// NewBroadcast returns a stream writing to every one of streams, in order.
func NewBroadcast(streams ...Stream) (s *Broadcast, err error) {
	for _, out := range streams {
		if !out.IsOutput() {
			return nil, notOutput(out, "make-broadcast-stream")
		}
	}

	s = &Broadcast{streams: slices.Clone(streams)}
	s.composite = newComposite(s, "broadcast")
	return
}

// Streams returns the constituent streams.
func (s *Broadcast) Streams() []Stream {
	return slices.Clone(s.streams)
}

func (s *Broadcast) last() Stream {
	if len(s.streams) == 0 {
		return nil
	}
	return s.streams[len(s.streams)-1]
}

// each applies op, named name, to every stream and keeps the first error.
func (s *Broadcast) each(name string, op func(Stream) error) (err error) {
	err = s.checkOpen(name)
	if err != nil {
		return
	}

	for _, out := range s.streams {
		oerr := op(out)
		if oerr != nil && err == nil {
			err = oerr
		}
	}
	return
}

func (s *Broadcast) WriteByte8(p []byte) (n int, err error) {
	err = s.checkOpen("write-byte")
	if err != nil {
		return
	}

	n = len(p)
	err = s.each("write-byte", func(out Stream) (err error) {
		n, err = out.WriteByte8(p)
		return
	})
	return
}

func (s *Broadcast) WriteInteger(v *big.Int) error {
	return s.each("write-byte", func(out Stream) error {
		return out.WriteInteger(v)
	})
}

func (s *Broadcast) WriteChar(code rune) error {
	return s.each("write-char", func(out Stream) error {
		return out.WriteChar(code)
	})
}

func (s *Broadcast) ClearOutput() error {
	return s.each("clear-output", Stream.ClearOutput)
}

func (s *Broadcast) ForceOutput() error {
	return s.each("force-output", Stream.ForceOutput)
}

func (s *Broadcast) FinishOutput() error {
	return s.each("finish-output", Stream.FinishOutput)
}

func (s *Broadcast) IsOutput() bool {
	return true
}

func (s *Broadcast) ElementType() ElementType {
	if last := s.last(); last != nil {
		return last.ElementType()
	}
	return DEFAULT_ELEMENT
}

func (s *Broadcast) ExternalFormat() codec.ExternalFormat {
	if last := s.last(); last != nil {
		return last.ExternalFormat()
	}
	return codec.DEFAULT_FORMAT
}

func (s *Broadcast) SetExternalFormat(designators ...any) error {
	return s.each("set-external-format", func(out Stream) error {
		return out.SetExternalFormat(designators...)
	})
}

func (s *Broadcast) Length() (int64, error) {
	if last := s.last(); last != nil {
		return last.Length()
	}
	return 0, nil
}

func (s *Broadcast) Position() (int64, error) {
	if last := s.last(); last != nil {
		return last.Position()
	}
	return 0, nil
}

func (s *Broadcast) SetPosition(pos int64) error {
	return s.each("set-file-position", func(out Stream) error {
		return out.SetPosition(pos)
	})
}

func (s *Broadcast) Column() int {
	if len(s.streams) == 0 {
		return -1
	}
	return s.streams[0].Column()
}

func (s *Broadcast) SetColumn(column int) int {
	for _, out := range s.streams {
		out.SetColumn(column)
	}
	return column
}

func (s *Broadcast) Close(abort bool) error {
	return s.closeComponents(abort, s.streams...)
}
