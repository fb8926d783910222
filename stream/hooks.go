package stream

import (
	"io"
	"math/big"

	"github.com/ezrec/ansistream/codec"
)

// Hooks calls named operations supplied from outside Go, such as a script.
type Hooks interface {
	Has(name string) bool
	Call(name string, args ...any) (any, error)
}

// Hook names, one per Callbacks slot.
const (
	HOOK_READ_CHAR       = "read-char"
	HOOK_WRITE_CHAR      = "write-char"
	HOOK_PEEK_CHAR       = "peek-char"
	HOOK_UNREAD_CHAR     = "unread-char"
	HOOK_READ_BYTE       = "read-byte"
	HOOK_WRITE_BYTE      = "write-byte"
	HOOK_READ_SEQUENCE   = "read-sequence"
	HOOK_WRITE_SEQUENCE  = "write-sequence"
	HOOK_LISTEN          = "listen"
	HOOK_CLEAR_INPUT     = "clear-input"
	HOOK_CLEAR_OUTPUT    = "clear-output"
	HOOK_FORCE_OUTPUT    = "force-output"
	HOOK_FINISH_OUTPUT   = "finish-output"
	HOOK_ELEMENT_TYPE    = "element-type"
	HOOK_EXTERNAL_FORMAT = "external-format"
	HOOK_FILE_LENGTH     = "file-length"
	HOOK_FILE_POSITION   = "file-position"
	HOOK_LINE_COLUMN     = "line-column"
	HOOK_CLOSE           = "close"
	HOOK_PATHNAME        = "pathname"
	HOOK_TRUENAME        = "truename"
	HOOK_INPUT_P         = "input-p"
	HOOK_OUTPUT_P        = "output-p"
	HOOK_INTERACTIVE_P   = "interactive-p"
)

// hookRune converts a character result; nil is end of file.
func hookRune(hook string, v any) (code rune, err error) {
	switch v := v.(type) {
	case nil:
		return noChar, io.EOF
	case rune:
		code = v
	case int:
		code = rune(v)
	case int64:
		code = rune(v)
	case string:
		runes := []rune(v)
		if len(runes) != 1 {
			return noChar, &HookResultError{Hook: hook, Value: v}
		}
		code = runes[0]
	default:
		return noChar, &HookResultError{Hook: hook, Value: v}
	}
	if code < 0 || code >= codec.CHAR_CODE_LIMIT {
		return noChar, &HookResultError{Hook: hook, Value: v}
	}
	return
}

// hookInteger converts an integer result; nil is end of file.
func hookInteger(hook string, v any) (*big.Int, error) {
	switch v := v.(type) {
	case nil:
		return nil, io.EOF
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, &HookResultError{Hook: hook, Value: v}
}

// hookPosition converts a position result; nil is no position.
func hookPosition(hook string, v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, ErrNoPosition
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case *big.Int:
		if v.IsInt64() {
			return v.Int64(), nil
		}
	}
	return 0, &HookResultError{Hook: hook, Value: v}
}

func hookBool(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

func hookString(hook string, v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", &HookResultError{Hook: hook, Value: v}
}

// hookListen converts a listen result; nil is no character yet.
func hookListen(v any) (ListenResult, error) {
	switch v := v.(type) {
	case nil:
		return LISTEN_NO_CHAR, nil
	case ListenResult:
		return v, nil
	case bool:
		if v {
			return LISTEN_AVAILABLE, nil
		}
		return LISTEN_NO_CHAR, nil
	case string:
		for result := LISTEN_AVAILABLE; result <= LISTEN_UNKNOWN; result++ {
			if result.String() == v {
				return result, nil
			}
		}
	}
	return LISTEN_UNKNOWN, &HookResultError{Hook: HOOK_LISTEN, Value: v}
}

func hookElementType(v any) ElementType {
	switch v := v.(type) {
	case ElementType:
		return v
	case string:
		for _, et := range []ElementType{CHARACTER, BASE_CHAR} {
			if et.String() == v {
				return et
			}
		}
	}
	return DEFAULT_ELEMENT
}

// CallbacksFromHooks fills a Callbacks slot for each hook h has.
func CallbacksFromHooks(h Hooks) (cb Callbacks) {
	call := func(name string, args ...any) (any, error) {
		logger.Tracef("hook %s%v", name, args)
		return h.Call(name, args...)
	}
	action := func(name string) func() error {
		if !h.Has(name) {
			return nil
		}
		return func() error {
			_, err := call(name)
			return err
		}
	}
	predicate := func(name string) func() bool {
		if !h.Has(name) {
			return nil
		}
		return func() bool {
			v, err := call(name)
			return err == nil && hookBool(v)
		}
	}
	readChar := func(name string) func() (rune, error) {
		if !h.Has(name) {
			return nil
		}
		return func() (rune, error) {
			v, err := call(name)
			if err != nil {
				return noChar, err
			}
			return hookRune(name, v)
		}
	}

	cb.ReadChar = readChar(HOOK_READ_CHAR)
	cb.PeekChar = readChar(HOOK_PEEK_CHAR)

	if h.Has(HOOK_WRITE_CHAR) {
		cb.WriteChar = func(code rune) error {
			_, err := call(HOOK_WRITE_CHAR, code)
			return err
		}
	}
	if h.Has(HOOK_UNREAD_CHAR) {
		cb.UnreadChar = func(code rune) error {
			_, err := call(HOOK_UNREAD_CHAR, code)
			return err
		}
	}
	if h.Has(HOOK_READ_BYTE) {
		cb.ReadByte = func() (*big.Int, error) {
			v, err := call(HOOK_READ_BYTE)
			if err != nil {
				return nil, err
			}
			return hookInteger(HOOK_READ_BYTE, v)
		}
	}
	if h.Has(HOOK_WRITE_BYTE) {
		cb.WriteByte = func(v *big.Int) error {
			_, err := call(HOOK_WRITE_BYTE, v)
			return err
		}
	}
	if h.Has(HOOK_READ_SEQUENCE) {
		cb.ReadSequence = func(buf []rune) (int, error) {
			v, err := call(HOOK_READ_SEQUENCE, len(buf))
			if err != nil {
				return 0, err
			}
			text, err := hookString(HOOK_READ_SEQUENCE, v)
			if err != nil {
				return 0, err
			}
			if v == nil {
				return 0, io.EOF
			}
			return copy(buf, []rune(text)), nil
		}
	}
	if h.Has(HOOK_WRITE_SEQUENCE) {
		cb.WriteSequence = func(buf []rune) error {
			_, err := call(HOOK_WRITE_SEQUENCE, string(buf))
			return err
		}
	}

	if h.Has(HOOK_LISTEN) {
		cb.Listen = func() (ListenResult, error) {
			v, err := call(HOOK_LISTEN)
			if err != nil {
				return LISTEN_UNKNOWN, err
			}
			return hookListen(v)
		}
	}
	cb.ClearInput = action(HOOK_CLEAR_INPUT)
	cb.ClearOutput = action(HOOK_CLEAR_OUTPUT)
	cb.ForceOutput = action(HOOK_FORCE_OUTPUT)
	cb.FinishOutput = action(HOOK_FINISH_OUTPUT)

	if h.Has(HOOK_ELEMENT_TYPE) {
		cb.ElementType = func() ElementType {
			v, err := call(HOOK_ELEMENT_TYPE)
			if err != nil {
				return DEFAULT_ELEMENT
			}
			return hookElementType(v)
		}
	}
	if h.Has(HOOK_EXTERNAL_FORMAT) {
		cb.ExternalFormat = func() codec.ExternalFormat {
			v, err := call(HOOK_EXTERNAL_FORMAT)
			if err != nil {
				return codec.DEFAULT_FORMAT
			}
			switch v := v.(type) {
			case codec.ExternalFormat:
				return v
			case string:
				return codec.ExternalFormat{Name: v}
			}
			return codec.DEFAULT_FORMAT
		}
	}

	if h.Has(HOOK_FILE_LENGTH) {
		cb.FileLength = func() (int64, error) {
			v, err := call(HOOK_FILE_LENGTH)
			if err != nil {
				return 0, err
			}
			return hookPosition(HOOK_FILE_LENGTH, v)
		}
	}
	if h.Has(HOOK_FILE_POSITION) {
		cb.FilePosition = func() (int64, error) {
			v, err := call(HOOK_FILE_POSITION)
			if err != nil {
				return 0, err
			}
			return hookPosition(HOOK_FILE_POSITION, v)
		}
		cb.SetFilePosition = func(pos int64) error {
			v, err := call(HOOK_FILE_POSITION, pos)
			if err != nil {
				return err
			}
			if !hookBool(v) {
				return ErrNoPosition
			}
			return nil
		}
	}
	if h.Has(HOOK_LINE_COLUMN) {
		cb.LineColumn = func() int {
			v, err := call(HOOK_LINE_COLUMN)
			if err != nil {
				return -1
			}
			column, err := hookPosition(HOOK_LINE_COLUMN, v)
			if err != nil {
				return -1
			}
			return int(column)
		}
	}

	if h.Has(HOOK_CLOSE) {
		cb.Close = func(abort bool) error {
			_, err := call(HOOK_CLOSE, abort)
			return err
		}
	}
	if h.Has(HOOK_PATHNAME) {
		cb.Pathname = func() string {
			v, err := call(HOOK_PATHNAME)
			if err != nil {
				return ""
			}
			name, _ := hookString(HOOK_PATHNAME, v)
			return name
		}
	}
	if h.Has(HOOK_TRUENAME) {
		cb.Truename = func() (string, error) {
			v, err := call(HOOK_TRUENAME)
			if err != nil {
				return "", err
			}
			return hookString(HOOK_TRUENAME, v)
		}
	}

	cb.IsInput = predicate(HOOK_INPUT_P)
	cb.IsOutput = predicate(HOOK_OUTPUT_P)
	cb.IsInteractive = predicate(HOOK_INTERACTIVE_P)
	return
}

// DecodeErrorHookFrom adapts the hook name into a codec decode error hook.
// The hook is called with the format name and the octets. It returns a
// replacement character, or nil to drop the octets.
func DecodeErrorHookFrom(h Hooks, name string) codec.DecodeErrorHook {
	return func(derr *codec.DecodingError) (rune, error) {
		v, err := h.Call(name, derr.Format, derr.Octets)
		if err != nil {
			return 0, err
		}
		if v == nil {
			return 0, codec.ErrSkip
		}
		return hookRune(name, v)
	}
}

// EncodeErrorHookFrom adapts the hook name into a codec encode error hook.
// The hook is called with the format name and the character. It returns a
// replacement character, or nil to write nothing.
func EncodeErrorHookFrom(h Hooks, name string) codec.EncodeErrorHook {
	return func(eerr *codec.EncodingError) (rune, error) {
		v, err := h.Call(name, eerr.Format, eerr.Code)
		if err != nil {
			return 0, err
		}
		if v == nil {
			return 0, codec.ErrSkip
		}
		return hookRune(name, v)
	}
}
