package stream

import (
	"github.com/ezrec/ansistream/codec"
)

// composite is the state shared by the streams built from other streams.
type composite struct {
	ansiStream
	flags codec.Flags
}

func newComposite(self Stream, name string) composite {
	return composite{ansiStream: newAnsiStream(self, name)}
}

func (c *composite) Variant() Variant {
	return VARIANT_COMPOSITE
}

// Flags returns the stream flag word.
func (c *composite) Flags() codec.Flags {
	return c.flags
}

// SetCloseComponents selects whether Close also closes the constituent
// streams.
func (c *composite) SetCloseComponents(on bool) {
	if on {
		c.flags |= codec.STREAM_CLOSE_COMPONENTS
	} else {
		c.flags &^= codec.STREAM_CLOSE_COMPONENTS
	}
}

// checkOpen fails op once the composite is closed.
func (c *composite) checkOpen(op string) error {
	if c.closed {
		return protocolError(c.self, op, ErrClosed)
	}
	return nil
}

// closeComponents marks the composite closed and, when requested, closes
// every constituent. All are attempted; the first error is returned.
func (c *composite) closeComponents(abort bool, streams ...Stream) (err error) {
	if c.closed {
		return
	}
	c.closed = true

	if c.flags&codec.STREAM_CLOSE_COMPONENTS == 0 {
		return
	}

	for _, s := range streams {
		if s == nil {
			continue
		}
		cerr := s.Close(abort)
		if cerr != nil {
			logger.Debugf("%s: closing %s: %v", c.name, streamName(s), cerr)
			if err == nil {
				err = cerr
			}
		}
	}
	return
}
