// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"errors"
	"io"
	"math/big"
	"slices"

	"github.com/ezrec/ansistream/byteint"
	"github.com/ezrec/ansistream/codec"
)

// FileOptions configures a stream over an operating system handle.
type FileOptions struct {
	Mode           Mode
	ElementType    ElementType
	ExternalFormat []any       // Designators for codec.Parse.
	Flags          codec.Flags // Behavior bits, such as STREAM_MIGHT_SEEK.
	OnDecodeError  codec.DecodeErrorHook
	OnEncodeError  codec.EncodeErrorHook
	Resolver       PathResolver
}

// octetIO is the raw transfer of a concrete file variant. Pending pushed
// back bytes are consumed by ReadByte8 before the handle is read.
type octetIO interface {
	ReadByte8(p []byte) (int, error)
	WriteByte8(p []byte) (int, error)
}

// fileStream is the state and character machinery shared by the descriptor
// and buffered handle variants.
type fileStream struct {
	ansiStream

	ops          octetIO
	mode         Mode
	codec        codec.Codec
	byteSize     int // Bits per read unit: the element width, or 8/16/32 for characters.
	elementType  ElementType
	filename     string
	tempFilename string
	created      bool
	resolver     PathResolver

	lastChar  rune
	lastCode  [2]rune
	unread    bool
	byteStack []byte
}

func (fs *fileStream) init(self Stream, ops octetIO, name string, opts FileOptions) (err error) {
	fs.ansiStream = newAnsiStream(self, name)
	fs.ops = ops
	fs.mode = opts.Mode
	fs.codec.Flags = opts.Flags
	fs.codec.OnDecodeError = opts.OnDecodeError
	fs.codec.OnEncodeError = opts.OnEncodeError
	fs.resolver = opts.Resolver
	if fs.resolver == nil {
		fs.resolver = OSResolver{}
	}
	fs.filename = name
	fs.forget()

	et := opts.ElementType
	if et == DEFAULT_ELEMENT {
		et = CHARACTER
	}
	err = fs.setElementType(et, opts.ExternalFormat...)
	return
}

// forget drops the unread state.
func (fs *fileStream) forget() {
	fs.lastChar = noChar
	fs.lastCode = [2]rune{noChar, noChar}
}

// setElementType derives the read unit, flags and codec from an element
// type and external format designators.
func (fs *fileStream) setElementType(et ElementType, designators ...any) (err error) {
	bits, signed, err := et.normalize()
	if err != nil {
		err = protocolError(fs.self, "element-type", err)
		return
	}

	flags := fs.codec.Flags &^ codec.STREAM_SIGNED_BYTES
	if signed {
		flags |= codec.STREAM_SIGNED_BYTES
	}

	if bits != 0 {
		flags, _, err = codec.Parse(flags.WithFormat(codec.STREAM_BINARY), designators...)
		if err != nil {
			err = protocolError(fs.self, "external-format", err)
			return
		}
		if flags&codec.STREAM_FORMAT != codec.STREAM_BINARY {
			err = protocolError(fs.self, "external-format", codec.ErrExternalFormatDesignator{Designator: designators})
			return
		}
		fs.codec.Flags = flags
		fs.codec.Tables = nil
		fs.byteSize = bits
		fs.elementType = et
		fs.elementType.Bits = bits
		return
	}

	if len(designators) == 0 {
		designators = []any{"default"}
	}
	flags, tables, err := codec.Parse(flags, designators...)
	if err != nil {
		err = protocolError(fs.self, "external-format", err)
		return
	}

	fs.codec.Flags = flags
	fs.codec.Tables = tables
	fs.codec.Reset()
	switch flags & codec.STREAM_FORMAT {
	case codec.STREAM_UCS_2, codec.STREAM_UCS_2BE:
		fs.byteSize = 16
	case codec.STREAM_UCS_4, codec.STREAM_UCS_4BE:
		fs.byteSize = 32
	default:
		fs.byteSize = 8
	}
	fs.elementType = et
	return
}

func (fs *fileStream) Variant() Variant {
	return VARIANT_FILE
}

func (fs *fileStream) IsInput() bool {
	return fs.mode.Input()
}

func (fs *fileStream) IsOutput() bool {
	return fs.mode.Output()
}

// Flags returns the stream flag word.
func (fs *fileStream) Flags() codec.Flags {
	return fs.codec.Flags
}

func (fs *fileStream) ElementType() ElementType {
	return fs.elementType
}

func (fs *fileStream) ExternalFormat() codec.ExternalFormat {
	if !fs.elementType.IsCharacter() {
		name := "unsigned-byte"
		if fs.elementType.Kind == ELEMENT_SIGNED_BYTE {
			name = "signed-byte"
		}
		return codec.ExternalFormat{Name: name}
	}
	return codec.Describe(fs.codec.Flags, fs.codec.Tables)
}

func (fs *fileStream) SetExternalFormat(designators ...any) error {
	return fs.setElementType(fs.elementType, designators...)
}

func (fs *fileStream) Column() int {
	return fs.column
}

func (fs *fileStream) SetColumn(column int) int {
	fs.column = column
	return column
}

func (fs *fileStream) Pathname() string {
	return fs.filename
}

func (fs *fileStream) Truename() (string, error) {
	return fs.resolver.Truename(fs.filename)
}

// popStack moves pending pushed back bytes into p.
func (fs *fileStream) popStack(p []byte) (n int) {
	n = copy(p, fs.byteStack)
	fs.byteStack = fs.byteStack[n:]
	if len(fs.byteStack) == 0 {
		fs.byteStack = nil
	}
	return
}

// pushBack queues octets ahead of any already pending.
func (fs *fileStream) pushBack(octets []byte) {
	if len(octets) == 0 {
		return
	}
	fs.byteStack = append(slices.Clone(octets), fs.byteStack...)
}

// readFull reads len(p) octets unless the stream ends first.
func (fs *fileStream) readFull(p []byte) (n int, err error) {
	for n < len(p) {
		var m int
		m, err = fs.ops.ReadByte8(p[n:])
		n += m
		if err != nil {
			return
		}
		if m == 0 {
			err = io.EOF
			return
		}
	}
	return
}

func (fs *fileStream) writeFull(p []byte) (err error) {
	for len(p) > 0 {
		var n int
		n, err = fs.ops.WriteByte8(p)
		if err != nil {
			return
		}
		if n == 0 {
			err = &IOError{Stream: fs.self, Op: "write", Err: io.ErrShortWrite}
			return
		}
		p = p[n:]
	}
	return
}

func (fs *fileStream) formatError(err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	var de *codec.DecodingError
	var ee *codec.EncodingError
	if errors.As(err, &de) || errors.As(err, &ee) || errors.Is(err, byteint.ErrRange) {
		return &FormatError{Stream: fs.self, Err: err}
	}
	return err
}

func (fs *fileStream) requireCharacter(op string, input bool) error {
	if input && !fs.mode.Input() {
		return notInput(fs.self, op)
	}
	if !input && !fs.mode.Output() {
		return notOutput(fs.self, op)
	}
	if !fs.elementType.IsCharacter() {
		return protocolError(fs.self, op, ErrNotCharacterStream)
	}
	return nil
}

func (fs *fileStream) requireBinary(op string, input bool) error {
	if input && !fs.mode.Input() {
		return notInput(fs.self, op)
	}
	if !input && !fs.mode.Output() {
		return notOutput(fs.self, op)
	}
	if fs.elementType.IsCharacter() {
		return protocolError(fs.self, op, ErrNotBinaryStream)
	}
	return nil
}

// readCharNoCursor reads one read unit at a time until the codec yields a
// character or ENCODING_BUFFER_MAX_SIZE bytes are pending.
func (fs *fileStream) readCharNoCursor() (code rune, err error) {
	var buf [codec.ENCODE_BUFFER_SIZE]byte
	width := fs.byteSize / 8
	pending := 0

	for {
		var n int
		n, err = fs.readFull(buf[pending : pending+width])
		pending += n
		if err != nil && !errors.Is(err, io.EOF) {
			fs.pushBack(buf[:pending])
			return
		}
		if n < width {
			if pending == 0 {
				return noChar, io.EOF
			}
			code, err = fs.codec.Incomplete(buf[:pending])
			if errors.Is(err, codec.ErrSkip) {
				return noChar, io.EOF
			}
			if err != nil {
				return noChar, fs.formatError(err)
			}
			break
		}

		var used int
		code, used, err = fs.codec.Decode(buf[:pending])
		if errors.Is(err, codec.ErrNeedMore) {
			pending = copy(buf[:], buf[used:pending])
			if pending < codec.ENCODING_BUFFER_MAX_SIZE {
				continue
			}
			code, err = fs.codec.Incomplete(buf[:pending])
			if errors.Is(err, codec.ErrSkip) {
				pending = 0
				continue
			}
			if err != nil {
				return noChar, fs.formatError(err)
			}
			break
		}
		fs.pushBack(buf[used:pending])
		if err != nil {
			return noChar, fs.formatError(err)
		}
		break
	}

	fs.lastChar = code
	fs.lastCode = [2]rune{code, noChar}
	fs.unread = false
	return
}

func (fs *fileStream) ReadChar() (code rune, err error) {
	err = fs.requireCharacter("read-char", true)
	if err != nil {
		return noChar, err
	}

	code, err = fs.readCharNoCursor()
	if err != nil {
		return
	}

	switch fs.codec.Flags & codec.STREAM_CRLF {
	case codec.STREAM_CRLF:
		if code != codec.CHAR_CODE_RETURN {
			break
		}
		next, nerr := fs.readCharNoCursor()
		switch {
		case nerr == nil && next == codec.CHAR_CODE_NEWLINE:
			code = codec.CHAR_CODE_NEWLINE
			fs.lastChar = code
			fs.lastCode = [2]rune{codec.CHAR_CODE_RETURN, codec.CHAR_CODE_NEWLINE}
		case nerr == nil:
			err = fs.pushCodes(fs.lastCode)
			if err != nil {
				return
			}
			fs.lastChar = codec.CHAR_CODE_RETURN
			fs.lastCode = [2]rune{codec.CHAR_CODE_RETURN, noChar}
		case errors.Is(nerr, io.EOF):
			fs.lastChar = codec.CHAR_CODE_RETURN
			fs.lastCode = [2]rune{codec.CHAR_CODE_RETURN, noChar}
		default:
			return noChar, nerr
		}
	case codec.STREAM_CR:
		if code == codec.CHAR_CODE_RETURN {
			code = codec.CHAR_CODE_NEWLINE
			fs.lastChar = code
		}
	}

	fs.cursor.Advance(code)
	return
}

// pushCodes re-encodes codes onto the pending byte stack.
func (fs *fileStream) pushCodes(codes [2]rune) (err error) {
	var buf [codec.ENCODE_BUFFER_SIZE]byte
	var octets []byte

	enc := fs.codec
	enc.OnEncodeError = nil
	for _, code := range codes {
		if code == noChar {
			break
		}
		var n int
		n, err = enc.Encode(buf[:], code)
		if err != nil {
			return fs.formatError(err)
		}
		octets = append(octets, buf[:n]...)
	}

	fs.pushBack(octets)
	return
}

func (fs *fileStream) UnreadChar(code rune) (err error) {
	err = fs.requireCharacter("unread-char", true)
	if err != nil {
		return
	}

	switch {
	case fs.unread:
		return protocolError(fs.self, "unread-char", ErrUnreadTwice)
	case fs.lastChar == noChar:
		return protocolError(fs.self, "unread-char", ErrUnreadNothing)
	case fs.lastChar != code:
		return protocolError(fs.self, "unread-char", ErrUnreadMismatch)
	}

	err = fs.pushCodes(fs.lastCode)
	if err != nil {
		return
	}

	fs.forget()
	fs.unread = true
	fs.cursor.Backup()
	return
}

func (fs *fileStream) PeekChar() (code rune, err error) {
	code, err = fs.ReadChar()
	if err != nil {
		return
	}
	err = fs.UnreadChar(code)
	return
}

func (fs *fileStream) writeCode(code rune) (err error) {
	var buf [codec.ENCODE_BUFFER_SIZE]byte
	n, err := fs.codec.Encode(buf[:], code)
	if err != nil {
		return fs.formatError(err)
	}
	return fs.writeFull(buf[:n])
}

func (fs *fileStream) WriteChar(code rune) (err error) {
	err = fs.requireCharacter("write-char", false)
	if err != nil {
		return
	}

	if code == codec.CHAR_CODE_NEWLINE && fs.codec.Flags&codec.STREAM_CR != 0 {
		err = fs.writeCode(codec.CHAR_CODE_RETURN)
		if err == nil && fs.codec.Flags&codec.STREAM_LF != 0 {
			err = fs.writeCode(codec.CHAR_CODE_NEWLINE)
		}
	} else {
		err = fs.writeCode(code)
	}
	if err != nil {
		return
	}

	fs.column = UpdateColumn(fs.column, code)
	return
}

func (fs *fileStream) layout() byteint.Layout {
	return byteint.LayoutFromFlags(fs.byteSize, fs.codec.Flags)
}

func (fs *fileStream) ReadInteger() (v *big.Int, err error) {
	err = fs.requireBinary("read-byte", true)
	if err != nil {
		return
	}

	layout := fs.layout()
	buf := make([]byte, layout.Width())
	n, err := fs.readFull(buf)
	switch {
	case n == 0 && errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.EOF):
		return nil, &IOError{Stream: fs.self, Op: "read-byte", Err: io.ErrUnexpectedEOF}
	case err != nil:
		return
	}

	v = layout.Decode(buf)
	return
}

func (fs *fileStream) WriteInteger(v *big.Int) (err error) {
	err = fs.requireBinary("write-byte", false)
	if err != nil {
		return
	}

	layout := fs.layout()
	buf := make([]byte, layout.Width())
	err = layout.Encode(buf, v)
	if err != nil {
		return fs.formatError(err)
	}
	return fs.writeFull(buf)
}

// cleanup runs once, after the handle is closed. A temp file replaces the
// target unless the close was aborted; an aborted close removes whatever
// the open created.
func (fs *fileStream) cleanup(abort bool) (err error) {
	switch {
	case !abort && fs.tempFilename != "":
		logger.Debugf("%s: replacing with %s", fs.filename, fs.tempFilename)
		err = fs.resolver.Rename(fs.tempFilename, fs.filename)
	case abort && fs.created:
		logger.Debugf("%s: removing aborted file", fs.filename)
		err = fs.resolver.Delete(fs.filename)
	case abort && fs.tempFilename != "":
		logger.Debugf("%s: removing aborted %s", fs.filename, fs.tempFilename)
		err = fs.resolver.Delete(fs.tempFilename)
	}
	if err != nil {
		err = &IOError{Stream: fs.self, Op: "close", Err: err}
	}
	fs.tempFilename = ""
	fs.created = false
	return
}

// StringLength returns the number of elements text would occupy when
// written to the stream.
func (fs *fileStream) StringLength(text string) (length int64, err error) {
	if !fs.elementType.IsCharacter() {
		return 0, protocolError(fs.self, "file-string-length", ErrNotCharacterStream)
	}

	var buf [codec.ENCODE_BUFFER_SIZE]byte
	enc := fs.codec
	octets := 0
	for _, code := range text {
		codes := []rune{code}
		if code == codec.CHAR_CODE_NEWLINE {
			switch fs.codec.Flags.LineEnding() {
			case codec.STREAM_CR:
				codes = []rune{codec.CHAR_CODE_RETURN}
			case codec.STREAM_CRLF:
				codes = []rune{codec.CHAR_CODE_RETURN, codec.CHAR_CODE_NEWLINE}
			}
		}
		for _, c := range codes {
			var n int
			n, err = enc.Encode(buf[:], c)
			if err != nil {
				return 0, fs.formatError(err)
			}
			octets += n
		}
	}

	length = int64(octets) / int64(fs.byteSize/8)
	return
}
