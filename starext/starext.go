// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package starext supplies external streams and codec error hooks written
// in Starlark.
//
// A hook named "read-char" is the Starlark function read_char. For
// example, this module is an input stream over a fixed string:
//
//	text = "hi"
//	state = {"at": 0}
//
//	def read_char():
//	    at = state["at"]
//	    if at >= len(text):
//	        return None
//	    state["at"] = at + 1
//	    return text[at]
package starext

import (
	"math"
	"math/big"
	"strings"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ansistream/codec"
	"github.com/ezrec/ansistream/logging"
	"github.com/ezrec/ansistream/stream"
)

var logger = logging.RootLogger.Sublogger("starext")

// Module is a loaded Starlark script whose top-level functions are hooks.
type Module struct {
	Name string

	mutex   sync.Mutex
	thread  *starlark.Thread
	globals starlark.StringDict
}

var _ stream.Hooks = (*Module)(nil)

// Load executes src as a Starlark module. src may be a string, a []byte,
// an io.Reader or nil to read the file named by name. Globals stay
// mutable so hooks can keep state between calls.
func Load(name string, src any, predeclared starlark.StringDict) (m *Module, err error) {
	m = &Module{Name: name}
	m.thread = &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Infof("%s: %s", name, msg)
		},
	}

	opts := syntax.FileOptions{
		Set:             true,
		While:           true,
		GlobalReassign:  true,
		TopLevelControl: true,
	}
	_, prog, err := starlark.SourceProgramOptions(&opts, name, src, predeclared.Has)
	if err != nil {
		return nil, &HookError{Module: name, Hook: "load", Err: err}
	}

	m.globals, err = prog.Init(m.thread, predeclared)
	if err != nil {
		return nil, &HookError{Module: name, Hook: "load", Err: err}
	}

	logger.Debugf("loaded %s: %d globals", name, len(m.globals))
	return
}

// FunctionName maps a hook name to the Starlark function that implements it.
func FunctionName(hook string) string {
	return strings.ReplaceAll(hook, "-", "_")
}

func (m *Module) function(name string) (starlark.Callable, bool) {
	v, ok := m.globals[FunctionName(name)]
	if !ok {
		return nil, false
	}
	fn, ok := v.(starlark.Callable)
	return fn, ok
}

// Global returns a global of the module.
func (m *Module) Global(name string) (v starlark.Value, ok bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	v, ok = m.globals[name]
	return
}

// Has reports whether the module defines a function for the hook.
func (m *Module) Has(name string) bool {
	_, ok := m.function(name)
	return ok
}

// Call runs the hook's function with args converted to Starlark values,
// and converts the result back.
func (m *Module) Call(name string, args ...any) (result any, err error) {
	fn, ok := m.function(name)
	if !ok {
		err = &HookError{Module: m.Name, Hook: name, Err: ErrNoHook}
		return
	}

	tuple := make(starlark.Tuple, len(args))
	for n, arg := range args {
		tuple[n], err = ToValue(arg)
		if err != nil {
			err = &HookError{Module: m.Name, Hook: name, Err: err}
			return
		}
	}

	m.mutex.Lock()
	v, err := starlark.Call(m.thread, fn, tuple, nil)
	m.mutex.Unlock()
	if err != nil {
		err = &HookError{Module: m.Name, Hook: name, Err: err}
		return
	}

	result, err = FromValue(v)
	if err != nil {
		err = &HookError{Module: m.Name, Hook: name, Err: err}
	}
	return
}

// NewStream returns an external stream driven by the module's hooks.
func (m *Module) NewStream() *stream.ExternalStream {
	return stream.NewExternal(m.Name, stream.CallbacksFromHooks(m))
}

// DecodeErrorHook returns a codec decode error hook calling the named hook
// with the format name and the octets.
func (m *Module) DecodeErrorHook(name string) codec.DecodeErrorHook {
	return stream.DecodeErrorHookFrom(m, name)
}

// EncodeErrorHook returns a codec encode error hook calling the named hook
// with the format name and the character.
func (m *Module) EncodeErrorHook(name string) codec.EncodeErrorHook {
	return stream.EncodeErrorHookFrom(m, name)
}

// ToValue converts a Go value to Starlark. A rune becomes a one character
// string.
func ToValue(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return v, nil
	case bool:
		return starlark.Bool(v), nil
	case rune:
		return starlark.String(string(v)), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case uint64:
		return starlark.MakeUint64(v), nil
	case *big.Int:
		return starlark.MakeBigInt(v), nil
	case string:
		return starlark.String(v), nil
	case []byte:
		return starlark.Bytes(v), nil
	case []rune:
		return starlark.String(string(v)), nil
	}
	return nil, &ConversionError{Value: v}
}

// FromValue converts a Starlark value to Go. Integers become int64 when
// they fit, otherwise *big.Int.
func FromValue(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		if i64, ok := v.Int64(); ok {
			return i64, nil
		}
		return v.BigInt(), nil
	case starlark.String:
		return string(v), nil
	case starlark.Bytes:
		return []byte(v), nil
	case starlark.Float:
		if float64(v) == math.Trunc(float64(v)) && math.Abs(float64(v)) < (1<<53) {
			return int64(v), nil
		}
	}
	return nil, &ConversionError{Value: v}
}
