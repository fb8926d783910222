package starext

import (
	"errors"

	"github.com/ezrec/ansistream/translate"
)

var f = translate.From

var (
	ErrNoHook     = errors.New(f("no such hook"))
	ErrConversion = errors.New(f("value conversion"))
)

// HookError is returned when a script hook is missing or fails.
type HookError struct {
	Module string
	Hook   string
	Err    error
}

func (err *HookError) Error() string {
	return f("%s: %s: %v", err.Module, err.Hook, err.Err)
}

func (err *HookError) Unwrap() error {
	return err.Err
}

// ConversionError is returned when a value cannot cross between Go and
// Starlark.
type ConversionError struct {
	Value any
}

func (err *ConversionError) Error() string {
	return f("%v: %T", ErrConversion, err.Value)
}

func (err *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
