package stream

import (
	"fmt"

	"github.com/ezrec/ansistream/byteint"
)

// ElementKind is the family of a stream element type.
type ElementKind int

const (
	ELEMENT_DEFAULT       = ElementKind(0)
	ELEMENT_CHARACTER     = ElementKind(1)
	ELEMENT_BASE_CHAR     = ElementKind(2)
	ELEMENT_UNSIGNED_BYTE = ElementKind(3)
	ELEMENT_SIGNED_BYTE   = ElementKind(4)
)

// ElementType is the type of the elements a stream carries.
type ElementType struct {
	Kind ElementKind
	Bits int // Element width of the byte kinds.
}

var (
	DEFAULT_ELEMENT = ElementType{}
	CHARACTER       = ElementType{Kind: ELEMENT_CHARACTER}
	BASE_CHAR       = ElementType{Kind: ELEMENT_BASE_CHAR}
	OCTET           = ElementType{Kind: ELEMENT_UNSIGNED_BYTE, Bits: 8}
)

// UnsignedByte returns the element type (unsigned-byte bits).
func UnsignedByte(bits int) ElementType {
	return ElementType{Kind: ELEMENT_UNSIGNED_BYTE, Bits: bits}
}

// SignedByte returns the element type (signed-byte bits).
func SignedByte(bits int) ElementType {
	return ElementType{Kind: ELEMENT_SIGNED_BYTE, Bits: bits}
}

// IsCharacter reports whether the elements are characters.
func (et ElementType) IsCharacter() bool {
	switch et.Kind {
	case ELEMENT_DEFAULT, ELEMENT_CHARACTER, ELEMENT_BASE_CHAR:
		return true
	}
	return false
}

func (et ElementType) String() string {
	switch et.Kind {
	case ELEMENT_DEFAULT:
		return "t"
	case ELEMENT_CHARACTER:
		return "character"
	case ELEMENT_BASE_CHAR:
		return "base-char"
	case ELEMENT_UNSIGNED_BYTE:
		return fmt.Sprintf("(unsigned-byte %d)", et.Bits)
	case ELEMENT_SIGNED_BYTE:
		return fmt.Sprintf("(signed-byte %d)", et.Bits)
	}
	return fmt.Sprintf("ElementType(%d)", int(et.Kind))
}

// normalize returns the element width in bits, zero for characters, with
// the width rounded up to whole bytes.
func (et ElementType) normalize() (bits int, signed bool, err error) {
	switch et.Kind {
	case ELEMENT_DEFAULT, ELEMENT_CHARACTER, ELEMENT_BASE_CHAR:
		return
	case ELEMENT_UNSIGNED_BYTE, ELEMENT_SIGNED_BYTE:
		bits, err = byteint.RoundBits(et.Bits)
		signed = et.Kind == ELEMENT_SIGNED_BYTE
		return
	}
	err = ErrElementType
	return
}
