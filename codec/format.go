package codec

import (
	"strings"
)

// DefaultExternalFormat is substituted for the "default" designator.
var DefaultExternalFormat = []any{"utf-8", "lf"}

var formatNames = map[string]Flags{
	"pass-through": STREAM_BINARY,
	"latin-1":      STREAM_LATIN_1,
	"latin1":       STREAM_LATIN_1,
	"iso-8859-1":   STREAM_ISO_8859_1,
	"utf-8":        STREAM_UTF_8,
	"utf8":         STREAM_UTF_8,
	"ucs-2":        STREAM_UCS_2,
	"ucs-2be":      STREAM_UCS_2BE,
	"ucs-2le":      STREAM_UCS_2LE,
	"ucs-4":        STREAM_UCS_4,
	"ucs-4be":      STREAM_UCS_4BE,
	"ucs-4le":      STREAM_UCS_4LE,
	"us-ascii":     STREAM_US_ASCII,
	"ascii":        STREAM_US_ASCII,
}

var eolNames = map[string]Flags{
	"cr":   STREAM_CR,
	"lf":   STREAM_LF,
	"crlf": STREAM_CRLF,
}

// ExternalFormat names the format and line ending of a stream.
type ExternalFormat struct {
	Name string
	EOL  string
}

// DEFAULT_FORMAT is reported by streams with no format of their own.
var DEFAULT_FORMAT = ExternalFormat{Name: "default"}

func (ef ExternalFormat) String() string {
	if ef.EOL == "" {
		return ef.Name
	}
	return ef.Name + "/" + ef.EOL
}

// Describe returns the external format selected by flags and tables.
func Describe(flags Flags, tables []*Table) (ef ExternalFormat) {
	little := flags&STREAM_LITTLE_ENDIAN != 0

	switch flags & STREAM_FORMAT {
	case STREAM_BINARY:
		ef.Name = "pass-through"
	case STREAM_LATIN_1:
		ef.Name = "latin-1"
	case STREAM_UTF_8:
		ef.Name = "utf-8"
	case STREAM_UCS_2:
		ef.Name = "ucs-2"
	case STREAM_UCS_2BE:
		ef.Name = "ucs-2be"
		if little {
			ef.Name = "ucs-2le"
		}
	case STREAM_UCS_4:
		ef.Name = "ucs-4"
	case STREAM_UCS_4BE:
		ef.Name = "ucs-4be"
		if little {
			ef.Name = "ucs-4le"
		}
	case STREAM_US_ASCII:
		ef.Name = "us-ascii"
	case STREAM_USER_FORMAT, STREAM_USER_MULTISTATE_FORMAT:
		names := make([]string, 0, len(tables))
		for _, table := range tables {
			names = append(names, table.Name)
		}
		ef.Name = strings.Join(names, "+")
		if ef.Name == "" {
			ef.Name = "user"
		}
	default:
		ef.Name = "unknown"
	}

	switch flags & STREAM_CRLF {
	case STREAM_CR:
		ef.EOL = "cr"
	case STREAM_LF:
		ef.EOL = "lf"
	case STREAM_CRLF:
		ef.EOL = "crlf"
	}

	return
}

type parser struct {
	flags  Flags
	tables []*Table
	endian string
	eol    bool
	nested bool
}

func (p *parser) parse(designators []any) (err error) {
	for _, designator := range designators {
		switch d := designator.(type) {
		case string:
			err = p.name(d)
		case ExternalFormat:
			err = p.name(d.Name)
			if err == nil && d.EOL != "" {
				err = p.name(d.EOL)
			}
		case *Table:
			if d == nil {
				return ErrExternalFormatDesignator{Designator: d}
			}
			p.user([]*Table{d})
		case []*Table:
			if len(d) == 0 {
				return ErrExternalFormatDesignator{Designator: d}
			}
			p.user(d)
		case []any:
			err = p.parse(d)
		default:
			err = ErrExternalFormatDesignator{Designator: d}
		}
		if err != nil {
			return
		}
	}
	return
}

func (p *parser) user(tables []*Table) {
	p.tables = tables
	if len(tables) == 1 {
		p.flags = p.flags.WithFormat(STREAM_USER_FORMAT)
	} else {
		p.flags = p.flags.WithFormat(STREAM_USER_MULTISTATE_FORMAT)
	}
}

func (p *parser) name(designator string) (err error) {
	name := strings.ToLower(designator)

	if name == "default" {
		if p.nested {
			return ErrExternalFormatDesignator{Designator: designator}
		}
		p.nested = true
		defer func() { p.nested = false }()
		return p.parse(DefaultExternalFormat)
	}

	if eol, ok := eolNames[name]; ok {
		p.flags = p.flags.WithLineEnding(eol)
		p.eol = true
		return
	}

	switch name {
	case "little-endian", "big-endian":
		p.endian = name
		return
	}

	if format, ok := formatNames[name]; ok {
		p.flags = p.flags.WithFormat(format)
		p.tables = nil
		return
	}

	if table, ok := Lookup(name); ok {
		p.user([]*Table{table})
		return
	}

	table, err := TableFromCharmap(name)
	if err != nil {
		return ErrExternalFormatDesignator{Designator: designator}
	}
	p.user([]*Table{table})

	return
}

// Parse applies external format designators to flags. Designators are
// format names, line endings ("cr", "lf", "crlf"), byte orders
// ("little-endian", "big-endian"), "default", registered table names, IANA
// single byte character set names, *Table, []*Table, ExternalFormat, or a
// nested []any of the same. A format without a line ending gets "lf".
func Parse(flags Flags, designators ...any) (out Flags, tables []*Table, err error) {
	p := &parser{flags: flags}
	err = p.parse(designators)
	if err != nil {
		return
	}

	if p.endian != "" {
		switch p.flags & STREAM_FORMAT {
		case STREAM_UCS_2, STREAM_UCS_4, STREAM_USER_FORMAT, STREAM_USER_MULTISTATE_FORMAT:
			err = ErrExternalFormatDesignator{Designator: p.endian}
			return
		}
		if p.endian == "little-endian" {
			p.flags |= STREAM_LITTLE_ENDIAN
		} else {
			p.flags &^= STREAM_LITTLE_ENDIAN
		}
	}

	if !p.eol && p.flags.LineEnding() == 0 {
		p.flags |= STREAM_LF
	}

	out = p.flags
	tables = p.tables
	return
}
