package codec

// Flags is the flag word of a stream. The low nibble selects the character
// format; the remaining bits select line endings, integer layout and stream
// behavior.
type Flags uint32

// Character formats, selected by Flags&(STREAM_FORMAT|STREAM_LITTLE_ENDIAN).
const (
	STREAM_BINARY                 = Flags(0)
	STREAM_FORMAT                 = Flags(0xF)
	STREAM_LATIN_1                = Flags(1)
	STREAM_ISO_8859_1             = STREAM_LATIN_1
	STREAM_UTF_8                  = Flags(2)
	STREAM_UCS_2                  = Flags(3)
	STREAM_UCS_2BE                = Flags(5)
	STREAM_UCS_2LE                = Flags(5 + 128)
	STREAM_UCS_4                  = Flags(6)
	STREAM_UCS_4BE                = Flags(7)
	STREAM_UCS_4LE                = Flags(7 + 128)
	STREAM_USER_FORMAT            = Flags(8)
	STREAM_USER_MULTISTATE_FORMAT = Flags(9)
	STREAM_US_ASCII               = Flags(10)
)

// Line endings, integer layout and behavior bits.
const (
	STREAM_CR               = Flags(16)
	STREAM_LF               = Flags(32)
	STREAM_CRLF             = STREAM_CR | STREAM_LF
	STREAM_SIGNED_BYTES     = Flags(64)
	STREAM_LITTLE_ENDIAN    = Flags(128)
	STREAM_C_STREAM         = Flags(256)
	STREAM_MIGHT_SEEK       = Flags(512)
	STREAM_CLOSE_COMPONENTS = Flags(1024)
)

const (
	// ENCODING_BUFFER_MAX_SIZE is the longest byte sequence a single
	// character may occupy, and the lookahead bound for table decoders.
	ENCODING_BUFFER_MAX_SIZE = 6
	// VECTOR_ENCODING_BUFFER_SIZE is the chunk size for bulk transfers.
	VECTOR_ENCODING_BUFFER_SIZE = 2048
)

// Byte order marks.
const (
	UCS_2_BOM         = 0xFEFF
	UCS_2_BOM_SWAPPED = 0xFFFE
	UCS_4_BOM         = 0x0000FEFF
	UCS_4_BOM_SWAPPED = 0xFFFE0000
)

const (
	CHAR_CODE_LIMIT   = 0x110000
	CHAR_CODE_NEWLINE = '\n'
	CHAR_CODE_RETURN  = '\r'
)

// Format returns the format selector: the format nibble plus the
// little-endian bit.
func (fl Flags) Format() Flags {
	return fl & (STREAM_FORMAT | STREAM_LITTLE_ENDIAN)
}

// WithFormat replaces the format selector of fl.
func (fl Flags) WithFormat(format Flags) Flags {
	return (fl &^ (STREAM_FORMAT | STREAM_LITTLE_ENDIAN)) | format
}

// LineEnding returns the CR and LF bits of fl.
func (fl Flags) LineEnding() Flags {
	return fl & STREAM_CRLF
}

// WithLineEnding replaces the line ending bits of fl.
func (fl Flags) WithLineEnding(eol Flags) Flags {
	return (fl &^ STREAM_CRLF) | (eol & STREAM_CRLF)
}

// Has reports whether all of the bits in mask are set.
func (fl Flags) Has(mask Flags) bool {
	return fl&mask == mask
}
