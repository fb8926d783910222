package byteint

import (
	"errors"
	"math/big"

	"github.com/ezrec/ansistream/translate"
)

var f = translate.From

var (
	ErrWidth = errors.New(f("invalid byte width"))
	ErrRange = errors.New(f("value out of range"))
)

// ErrOutOfRange names a value that does not fit a layout.
type ErrOutOfRange struct {
	Layout Layout
	Value  *big.Int
}

func (err *ErrOutOfRange) Error() string {
	return f("%v: %s does not fit %s", ErrRange, err.Value.String(), err.Layout.String())
}

func (err *ErrOutOfRange) Unwrap() error {
	return ErrRange
}
