package lcd

import (
	"bytes"

	"github.com/juju/errors"
)

// Print draws text starting on a fresh row, unless display was just cleared.
// Text is translated to display codepage and word wrapped.
// Line break moves to next row, overflow past last column too.
// Advance past last row clears the whole display.
func (self *LCD) Print(text string) error {
	b, err := self.translate(text)
	if err != nil {
		return err
	}
	return self.PrintBytes(b)
}

// PrintBytes is Print for text already in display codepage.
func (self *LCD) PrintBytes(b []byte) error {
	if self.closed {
		return errors.Trace(ErrClosed)
	}
	if !self.clear {
		if err := self.nextRow(); err != nil {
			return errors.Annotate(err, "lcd print")
		}
	}

	for _, c := range wordWrap(b, self.cols) {
		if self.column >= self.cols || c == '\n' {
			if err := self.nextRow(); err != nil {
				return errors.Annotate(err, "lcd print")
			}
		}
		if c == '\n' {
			continue
		}
		if err := self.sendByte(c, true); err != nil {
			return errors.Annotatef(err, "lcd print row=%d column=%d", self.row, self.column)
		}
		self.column++
		self.clear = false
	}
	return nil
}

// ClearRow moves to column 0 of current row and marks it clear.
// Unless dirty, old content is overwritten with spaces first.
func (self *LCD) ClearRow(dirty bool) error {
	row := self.row
	if err := self.Position(0, row); err != nil {
		return err
	}
	self.clear = true
	if dirty {
		return nil
	}
	if err := self.PrintBytes(bytes.Repeat([]byte{' '}, self.cols)); err != nil {
		return err
	}
	if err := self.Position(0, row); err != nil {
		return err
	}
	self.clear = true
	return nil
}

func (self *LCD) nextRow() error {
	next := self.row + 1
	if next >= self.rows {
		return self.Clear()
	}
	return self.Position(0, next)
}

func (self *LCD) translate(s string) ([]byte, error) {
	b := []byte(s)
	if self.tr == nil {
		return b, nil
	}
	_, tb, err := self.tr.Translate(b, true)
	if err != nil {
		return nil, errors.Annotate(err, "lcd codepage")
	}
	// translator reuses single internal buffer, make a copy
	return append([]byte(nil), tb...), nil
}
