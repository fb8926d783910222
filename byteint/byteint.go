// Package byteint reads and writes the fixed width integers carried by
// binary streams, from 8 up to 1024 bits, in either byte order and with or
// without a sign.
package byteint

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

const (
	// BYTE_STREAM_FAST_MAX_BITS is the widest element decoded in a
	// machine word.
	BYTE_STREAM_FAST_MAX_BITS = 64
	// BYTE_STREAM_MAX_BITS is the widest element a stream may carry.
	BYTE_STREAM_MAX_BITS = 1024
)

// Layout describes one binary stream element.
type Layout struct {
	Bits         int // Always a multiple of 8.
	Signed       bool
	LittleEndian bool
}

// RoundBits rounds bits up to a whole number of bytes.
func RoundBits(bits int) (int, error) {
	if bits < 1 || bits > BYTE_STREAM_MAX_BITS {
		return 0, fmt.Errorf("%w: %d", ErrWidth, bits)
	}
	return (bits + 7) &^ 7, nil
}

// LayoutFromFlags derives a layout from an element width and the sign and
// byte order bits of a stream flag word.
func LayoutFromFlags(bits int, flags codec.Flags) Layout {
	return Layout{
		Bits:         bits,
		Signed:       flags&codec.STREAM_SIGNED_BYTES != 0,
		LittleEndian: flags&codec.STREAM_LITTLE_ENDIAN != 0,
	}
}

// Width returns the element size in bytes.
func (l Layout) Width() int {
	return l.Bits / 8
}

func (l Layout) String() string {
	kind := "unsigned-byte"
	if l.Signed {
		kind = "signed-byte"
	}
	order := "be"
	if l.LittleEndian {
		order = "le"
	}
	return fmt.Sprintf("(%s %d %s)", kind, l.Bits, order)
}

// Min returns the smallest representable value.
func (l Layout) Min() *big.Int {
	if !l.Signed {
		return new(big.Int)
	}
	v := new(big.Int).Lsh(big.NewInt(1), uint(l.Bits-1))
	return v.Neg(v)
}

// Max returns the largest representable value.
func (l Layout) Max() *big.Int {
	bits := l.Bits
	if l.Signed {
		bits--
	}
	v := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return v.Sub(v, big.NewInt(1))
}

// Fits reports whether v is representable.
func (l Layout) Fits(v *big.Int) bool {
	return v.Cmp(l.Min()) >= 0 && v.Cmp(l.Max()) <= 0
}

func (l Layout) mask() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(l.Bits))
	return m.Sub(m, big.NewInt(1))
}

// index returns the buffer offset of the i'th least significant byte.
func (l Layout) index(i int) int {
	if l.LittleEndian {
		return i
	}
	return l.Width() - 1 - i
}

// Decode converts Width() bytes of buf into an integer.
func (l Layout) Decode(buf []byte) *big.Int {
	switch {
	case l.Bits == 8:
		if l.Signed {
			return big.NewInt(int64(int8(buf[0])))
		}
		return big.NewInt(int64(buf[0]))
	case l.Bits <= BYTE_STREAM_FAST_MAX_BITS:
		return l.decodeFast(buf)
	default:
		return l.decodeBig(buf)
	}
}

func (l Layout) decodeFast(buf []byte) *big.Int {
	var u uint64
	for i := l.Width() - 1; i >= 0; i-- {
		u = (u << 8) | uint64(buf[l.index(i)])
	}

	if !l.Signed {
		return new(big.Int).SetUint64(u)
	}

	if u&(uint64(1)<<(l.Bits-1)) != 0 {
		u |= ^uint64(0) << l.Bits
	}
	return big.NewInt(int64(u))
}

func (l Layout) decodeBig(buf []byte) *big.Int {
	v := new(big.Int)
	octet := new(big.Int)
	for i := l.Width() - 1; i >= 0; i-- {
		v.Lsh(v, 8)
		v.Or(v, octet.SetUint64(uint64(buf[l.index(i)])))
	}

	if l.Signed && v.Bit(l.Bits-1) == 1 {
		v.Or(v, new(big.Int).Not(l.mask()))
	}
	return v
}

// Encode writes v into Width() bytes of buf.
func (l Layout) Encode(buf []byte, v *big.Int) (err error) {
	if !l.Fits(v) {
		err = &ErrOutOfRange{Layout: l, Value: new(big.Int).Set(v)}
		return
	}

	switch {
	case l.Bits == 8:
		buf[0] = byte(v.Int64())
	case l.Bits <= BYTE_STREAM_FAST_MAX_BITS:
		var u uint64
		if v.Sign() < 0 {
			u = uint64(v.Int64())
		} else {
			u = v.Uint64()
		}
		for i := range l.Width() {
			buf[l.index(i)] = byte(u)
			u >>= 8
		}
	default:
		t := new(big.Int).And(v, l.mask())
		octet := new(big.Int)
		ff := big.NewInt(0xFF)
		for i := range l.Width() {
			buf[l.index(i)] = byte(octet.And(t, ff).Uint64())
			t.Rsh(t, 8)
		}
	}

	return
}

// Read reads one element from r.
func (l Layout) Read(r io.Reader) (v *big.Int, err error) {
	buf := make([]byte, l.Width())
	_, err = io.ReadFull(r, buf)
	if err != nil {
		return
	}
	v = l.Decode(buf)
	return
}

// Write writes one element to w.
func (l Layout) Write(w io.Writer, v *big.Int) (err error) {
	buf := make([]byte, l.Width())
	err = l.Encode(buf, v)
	if err != nil {
		return
	}
	_, err = w.Write(buf)
	return
}
