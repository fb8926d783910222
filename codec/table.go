package codec

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ezrec/ansistream/internal"
)

type entryKind uint8

const (
	ENTRY_CHAR   = entryKind(1) // Sequence decodes to a character.
	ENTRY_MORE   = entryKind(2) // Sequence is a prefix; read another byte.
	ENTRY_SWITCH = entryKind(3) // Sequence activates another table.
)

type tableEntry struct {
	kind  entryKind
	code  rune
	state int
}

// Table is a user defined character table. A single table is a simple user
// format; several tables form a multistate format, where escape sequences
// switch the active table.
type Table struct {
	Name   string
	Escape []byte // Emitted when the encoder switches to this table.

	decode map[string]tableEntry
	encode map[rune][]byte
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{
		Name:   name,
		decode: map[string]tableEntry{},
		encode: map[rune][]byte{},
	}
}

func (t *Table) prefixes(seq []byte) {
	for n := 1; n < len(seq); n++ {
		key := string(seq[:n])
		if _, ok := t.decode[key]; !ok {
			t.decode[key] = tableEntry{kind: ENTRY_MORE}
		}
	}
}

// Map binds the byte sequence seq to code in both directions. When several
// sequences map to the same code the first one is used for encoding.
func (t *Table) Map(seq []byte, code rune) *Table {
	t.prefixes(seq)
	t.decode[string(seq)] = tableEntry{kind: ENTRY_CHAR, code: code}
	if _, ok := t.encode[code]; !ok {
		t.encode[code] = slices.Clone(seq)
	}
	return t
}

// Switch binds the escape sequence seq to activating table state.
func (t *Table) Switch(seq []byte, state int) *Table {
	t.prefixes(seq)
	t.decode[string(seq)] = tableEntry{kind: ENTRY_SWITCH, state: state}
	return t
}

// Len returns the number of characters the table can encode.
func (t *Table) Len() int {
	return len(t.encode)
}

// Codes returns the characters the table can encode, in ascending order.
func (t *Table) Codes() iter.Seq[rune] {
	return slices.Values(slices.Sorted(maps.Keys(t.encode)))
}

func (c *Codec) multistate() bool {
	return c.Flags&STREAM_FORMAT == STREAM_USER_MULTISTATE_FORMAT
}

// decodeTable walks the active table one byte at a time.
func (c *Codec) decodeTable(buf []byte) (rune, int, error) {
	if len(c.Tables) == 0 {
		return 0, 0, ErrTableMissing
	}
	if c.state >= len(c.Tables) {
		c.state = 0
	}

	start := 0
	for i := 0; ; i++ {
		if i-start >= ENCODING_BUFFER_MAX_SIZE {
			return 0, i, &DecodingError{Octets: buf[start:i], Err: ErrDecoderTable}
		}
		if i >= len(buf) {
			return 0, start, ErrNeedMore
		}

		entry, ok := c.Tables[c.state].decode[string(buf[start:i+1])]
		if !ok {
			return 0, i + 1, &DecodingError{Octets: buf[start : i+1]}
		}

		switch entry.kind {
		case ENTRY_CHAR:
			return entry.code, i + 1, nil
		case ENTRY_MORE:
			continue
		case ENTRY_SWITCH:
			if !c.multistate() || entry.state < 0 || entry.state >= len(c.Tables) {
				return 0, i + 1, &DecodingError{Octets: buf[start : i+1], Err: ErrDecoderTable}
			}
			c.state = entry.state
			start = i + 1
		}
	}
}

// encodeTable searches the tables starting with the active one. Selecting
// a different table emits its escape sequence first.
func (c *Codec) encodeTable(buf []byte, code rune) (int, error) {
	if len(c.Tables) == 0 {
		return 0, ErrTableMissing
	}
	if c.state >= len(c.Tables) {
		c.state = 0
	}

	tables := 1
	if c.multistate() {
		tables = len(c.Tables)
	}

	for k := range tables {
		index := (c.state + k) % len(c.Tables)
		table := c.Tables[index]
		seq, ok := table.encode[code]
		if !ok {
			continue
		}

		n := 0
		if index != c.state {
			n += copy(buf, table.Escape)
			c.state = index
		}
		n += copy(buf[n:], seq)
		return n, nil
	}

	return 0, &EncodingError{Code: code}
}

// TableFromCharmap builds a simple table from a single byte IANA character
// set, such as "windows-1252" or "koi8-r".
func TableFromCharmap(name string) (table *Table, err error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		err = ErrExternalFormatDesignator{Designator: name}
		return
	}

	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		err = ErrExternalFormatDesignator{Designator: name}
		return
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
		err = nil
	}

	table = NewTable(strings.ToLower(canonical))
	for b := range 256 {
		code := cm.DecodeByte(byte(b))
		if code == utf8.RuneError {
			continue
		}
		table.Map([]byte{byte(b)}, code)
	}

	return
}

var registry = struct {
	sync.Mutex
	tables map[string]*Table
}{
	tables: map[string]*Table{},
}

// Register makes table available to Parse under its name.
func Register(table *Table) {
	registry.Lock()
	defer registry.Unlock()

	registry.tables[strings.ToLower(table.Name)] = table
}

// Lookup returns the registered table with the given name.
func Lookup(name string) (table *Table, ok bool) {
	registry.Lock()
	defer registry.Unlock()

	table, ok = registry.tables[strings.ToLower(name)]
	return
}

// Names returns every built in format name followed by the registered
// table names in sorted order.
func Names() iter.Seq[string] {
	registry.Lock()
	registered := slices.Sorted(maps.Keys(registry.tables))
	registry.Unlock()

	builtin := slices.Sorted(maps.Keys(formatNames))

	return internal.IterSeqConcat(slices.Values(builtin), slices.Values(registered))
}
