package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"iter"
	"math"
	"math/big"

	"github.com/ezrec/ansistream/internal"
)

// runeSequencer is implemented by streams with their own bulk character
// transfer.
type runeSequencer interface {
	ReadRunes(buf []rune) (int, error)
	WriteRunes(buf []rune) error
}

// stringLengther is implemented by streams that can measure a string.
type stringLengther interface {
	StringLength(text string) (int64, error)
}

// ReadChar reads one character. End of file is io.EOF.
func ReadChar(s Stream) (rune, error) {
	return s.ReadChar()
}

// ReadCharNoEOF reads one character, reporting end of file as an
// *EndOfFileError.
func ReadCharNoEOF(s Stream) (code rune, err error) {
	code, err = s.ReadChar()
	if errors.Is(err, io.EOF) {
		err = &EndOfFileError{Stream: s}
	}
	return
}

// ReadCharNoHang reads a character only if one is available. It returns
// false when none is ready yet. A stream that cannot tell is read anyway.
func ReadCharNoHang(s Stream) (code rune, ok bool, err error) {
	result, err := s.Listen()
	if err != nil {
		return noChar, false, err
	}

	switch result {
	case LISTEN_NO_CHAR:
		return noChar, false, nil
	case LISTEN_EOF:
		return noChar, false, io.EOF
	}

	code, err = s.ReadChar()
	ok = err == nil
	return
}

func PeekChar(s Stream) (rune, error) {
	return s.PeekChar()
}

func UnreadChar(s Stream, code rune) error {
	return s.UnreadChar(code)
}

func WriteChar(s Stream, code rune) error {
	return s.WriteChar(code)
}

// WriteString writes every character of text.
func WriteString(s Stream, text string) error {
	return WriteSequence(s, []rune(text))
}

// Terpri writes a newline.
func Terpri(s Stream) error {
	return s.WriteChar('\n')
}

// FreshLine writes a newline unless the stream is known to be at the
// start of a line, and reports whether it wrote one.
func FreshLine(s Stream) (wrote bool, err error) {
	if s.Column() == 0 {
		return
	}
	err = s.WriteChar('\n')
	wrote = err == nil
	return
}

// ReadLine reads up to the next newline, which is not returned. missing is
// set when the line ended at end of file instead.
func ReadLine(s Stream) (line string, missing bool, err error) {
	var runes []rune
	for {
		var code rune
		code, err = s.ReadChar()
		if errors.Is(err, io.EOF) {
			if len(runes) == 0 {
				return
			}
			return string(runes), true, nil
		}
		if err != nil {
			return string(runes), false, err
		}
		if code == '\n' {
			return string(runes), false, nil
		}
		runes = append(runes, code)
	}
}

// ReadByte reads one element of a binary stream.
func ReadByte(s Stream) (*big.Int, error) {
	return s.ReadInteger()
}

// ReadByteNoEOF reads one element, reporting end of file as an
// *EndOfFileError.
func ReadByteNoEOF(s Stream) (v *big.Int, err error) {
	v, err = s.ReadInteger()
	if errors.Is(err, io.EOF) {
		err = &EndOfFileError{Stream: s}
	}
	return
}

func WriteByte(s Stream, v *big.Int) error {
	return s.WriteInteger(v)
}

// ReadSequence fills buf with characters until it is full or the stream
// ends. It returns io.EOF only when nothing was read.
func ReadSequence(s Stream, buf []rune) (n int, err error) {
	if seq, ok := s.(runeSequencer); ok {
		return seq.ReadRunes(buf)
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

// WriteSequence writes every character of buf.
func WriteSequence(s Stream, buf []rune) (err error) {
	if seq, ok := s.(runeSequencer); ok {
		return seq.WriteRunes(buf)
	}

	for _, code := range buf {
		err = s.WriteChar(code)
		if err != nil {
			return
		}
	}
	return
}

// ReadOctets fills p with raw octets until it is full or the stream ends.
// It returns io.EOF only when nothing was read.
func ReadOctets(s Stream, p []byte) (n int, err error) {
	for n < len(p) {
		var m int
		m, err = s.ReadByte8(p[n:])
		n += m
		if errors.Is(err, io.EOF) && n > 0 {
			return n, nil
		}
		if err != nil {
			return
		}
		if m == 0 {
			return n, io.ErrNoProgress
		}
	}
	return
}

// WriteOctets writes every octet of p.
func WriteOctets(s Stream, p []byte) (err error) {
	for len(p) > 0 {
		var n int
		n, err = s.WriteByte8(p)
		if err != nil {
			return
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return
}

// ReadSingleFloat reads four octets as a little endian IEEE 754 single
// float. A stream ending inside the float gives io.ErrUnexpectedEOF.
func ReadSingleFloat(s Stream) (v float32, err error) {
	var buf [4]byte
	n, err := ReadOctets(s, buf[:])
	if err != nil {
		return
	}
	if n < len(buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
	return
}

// WriteSingleFloat writes v as four little endian IEEE 754 octets.
func WriteSingleFloat(s Stream, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	return WriteOctets(s, buf[:])
}

func Listen(s Stream) (ListenResult, error) {
	return s.Listen()
}

func ClearInput(s Stream) error {
	return s.ClearInput()
}

func ClearOutput(s Stream) error {
	return s.ClearOutput()
}

func ForceOutput(s Stream) error {
	return s.ForceOutput()
}

func FinishOutput(s Stream) error {
	return s.FinishOutput()
}

func FilePosition(s Stream) (int64, error) {
	return s.Position()
}

func SetFilePosition(s Stream, pos int64) error {
	return s.SetPosition(pos)
}

func FileLength(s Stream) (int64, error) {
	return s.Length()
}

// FileStringLength returns the number of elements text would occupy when
// written to s.
func FileStringLength(s Stream, text string) (int64, error) {
	for {
		switch t := s.(type) {
		case *Broadcast:
			last := t.last()
			if last == nil {
				return 1, nil
			}
			s = last
		case *Synonym:
			target, err := t.target("file-string-length")
			if err != nil {
				return 0, err
			}
			s = target
		case stringLengther:
			return t.StringLength(text)
		default:
			return 0, protocolError(s, "file-string-length", ErrNotFileStream)
		}
	}
}

// LineNumber returns the input line of s, counting from 1, or -1 when it
// is not tracked.
func LineNumber(s Stream) int {
	for {
		switch t := s.(type) {
		case *TwoWay:
			s = t.input
		case *Echo:
			s = t.input
		case *Concatenated:
			in := t.current()
			if in == nil {
				return -1
			}
			s = in
		case *Synonym:
			target, err := t.target("line-number")
			if err != nil {
				return -1
			}
			s = target
		case interface{ InputCursor() Cursor }:
			if !s.IsInput() {
				return -1
			}
			return t.InputCursor().Line
		default:
			return -1
		}
	}
}

// Column returns the output column of s, or -1 when it is not known.
func Column(s Stream) int {
	return s.Column()
}

func Close(s Stream, abort bool) error {
	return s.Close(abort)
}

// Chars yields the characters of s up to its end or the first error.
func Chars(s Stream) iter.Seq[rune] {
	return internal.IterSeqWhile(func() (rune, bool) {
		code, err := s.ReadChar()
		return code, err == nil
	})
}
