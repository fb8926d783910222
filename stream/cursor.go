package stream

// Cursor tracks the line and column of an input stream. It remembers the
// position before the last advance, so exactly one step can be undone.
type Cursor struct {
	Line   int
	Column int

	prevLine   int
	prevColumn int
}

// NewCursor returns a cursor at line 1, column 0.
func NewCursor() Cursor {
	return Cursor{Line: 1, prevLine: 1}
}

func (c *Cursor) save() {
	c.prevLine, c.prevColumn = c.Line, c.Column
}

// AdvanceLine moves to the start of the next line.
func (c *Cursor) AdvanceLine() {
	c.save()
	c.Line++
	c.Column = 0
}

// AdvanceColumn moves one column right.
func (c *Cursor) AdvanceColumn() {
	c.save()
	c.Column++
}

// Advance moves past code.
func (c *Cursor) Advance(code rune) {
	if code == '\n' {
		c.AdvanceLine()
	} else {
		c.AdvanceColumn()
	}
}

// Backup returns to the position before the last advance. A second Backup
// has no further effect.
func (c *Cursor) Backup() {
	c.Line, c.Column = c.prevLine, c.prevColumn
}

// UpdateColumn returns the output column after writing code at column.
// An unknown column (-1) stays unknown until the next newline.
func UpdateColumn(column int, code rune) int {
	switch {
	case code == '\n':
		return 0
	case column < 0:
		return column
	case code == '\t':
		return (column &^ 7) + 8
	default:
		return column + 1
	}
}
