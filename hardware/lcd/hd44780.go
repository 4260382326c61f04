// Package lcd drives HD44780 character display over bit-banged GPIO
// in 4-bit or 8-bit data mode, with text layout: row advance, word wrap
// and horizontal scroll.
//
// LCD is not safe for concurrent use, callers must serialize access.
package lcd

import (
	"time"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/log2"
)

// Clear and Home take up to 1.52ms in controller.
const settleHold = 2 * time.Millisecond

type LCD struct {
	log     *log2.Log
	port    gpioport.Port
	clock   clock
	mode    BitMode
	pins    PinMap
	cols    int
	rows    int
	tr      charset.Translator
	claimed []string
	closed  bool
	control Control

	row    int
	column int
	clear  bool
}

// New claims pins and runs initialization sequence.
// On any error, pins claimed so far are released and no LCD is returned.
// Caller must Close() the result.
func New(port gpioport.Port, c Config, log *log2.Log) (*LCD, error) {
	return newLCD(port, c, log, realClock{})
}

func newLCD(port gpioport.Port, c Config, log *log2.Log, clk clock) (_ *LCD, err error) {
	if err = c.Validate(); err != nil {
		return nil, errors.Annotate(err, "lcd config")
	}
	self := &LCD{
		log:   log,
		port:  port,
		clock: clk,
		mode:  c.Mode,
		pins:  c.Pins,
		cols:  c.Columns,
		rows:  c.Rows,
	}
	if c.Codepage != "" {
		if self.tr, err = charset.TranslatorTo(c.Codepage); err != nil {
			return nil, errors.Annotatef(err, "lcd codepage=%s", c.Codepage)
		}
	}

	defer func() {
		if err != nil {
			self.log.Errorf("lcd init: %v", err)
			self.teardown()
		}
	}()
	if err = self.init(); err != nil {
		return nil, errors.Annotate(err, "lcd init")
	}
	return self, nil
}

func (self *LCD) init() error {
	self.log.Debugf("lcd init mode=%s geometry=%dx%d", self.mode, self.cols, self.rows)
	for _, s := range self.mode.Signals() {
		pin := self.pins.Pin(s)
		if err := self.port.ConfigureOutput(pin); err != nil {
			return errors.Trace(ConfigurationError{Signal: s, Pin: pin, Err: err})
		}
		self.claimed = append(self.claimed, pin)
		if err := self.set(s, gpioport.Low); err != nil {
			return err
		}
	}

	// Function set 8-bit three times takes controller out of any state,
	// including the middle of 4-bit transfer.
	if err := self.set(SignalRS, gpioport.Low); err != nil {
		return err
	}
	if err := self.set(SignalD4, gpioport.High); err != nil {
		return err
	}
	if err := self.set(SignalD5, gpioport.High); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if err := self.strobe(); err != nil {
			return err
		}
	}
	// Latch interface width, single nibble.
	width := gpioport.Low
	if self.mode == EightBit {
		width = gpioport.High
	}
	if err := self.set(SignalD4, width); err != nil {
		return err
	}
	if err := self.strobe(); err != nil {
		return err
	}

	fn := CommandFunction | FunctionFont5x10 | FunctionTwoLines
	if self.mode == EightBit {
		fn |= Function8Bit
	}
	if err := self.Command(fn); err != nil {
		return err
	}
	if err := self.SetControl(ControlOn | ControlCursor); err != nil {
		return err
	}
	if err := self.SetEntryMode(true, false); err != nil {
		return err
	}
	if err := self.Command(CommandShift | ShiftRight); err != nil {
		return err
	}
	return self.Clear()
}

// Close releases pins. Safe to call more than once.
func (self *LCD) Close() error {
	if self == nil || self.closed {
		return nil
	}
	self.teardown()
	return nil
}

func (self *LCD) teardown() {
	self.closed = true
	for _, pin := range self.claimed {
		self.port.Release(pin)
	}
	self.log.Debugf("lcd released pins=%v", self.claimed)
	self.claimed = nil
}

func (self *LCD) Mode() BitMode { return self.mode }
func (self *LCD) Columns() int  { return self.cols }
func (self *LCD) Rows() int     { return self.rows }

// Cursor returns logical cursor position.
func (self *LCD) Cursor() (row, column int) { return self.row, self.column }

// IsClear reports that nothing was drawn on current row since last clear/home/position reset.
func (self *LCD) IsClear() bool { return self.clear }

func (self *LCD) Command(c Command) error {
	return errors.Annotatef(self.sendByte(byte(c), false), "lcd command=%02x", byte(c))
}

func (self *LCD) Control() Control { return self.control }

func (self *LCD) SetControl(c Control) error {
	if err := self.Command(CommandControl | Command(c)); err != nil {
		return err
	}
	self.control = c
	return nil
}

func (self *LCD) SetEntryMode(increment, shift bool) error {
	c := CommandEntry
	if increment {
		c |= EntryIncrement
	}
	if shift {
		c |= EntryShift
	}
	return self.Command(c)
}

// Position moves cursor to zero based column x in row y.
// Controller addresses only two rows, x may equal Columns() (just past last cell).
func (self *LCD) Position(x, y int) error {
	if y < 0 || y >= self.rows || x < 0 || x > self.cols {
		return errors.Trace(GeometryError{Column: x, Row: y, Columns: self.cols, Rows: self.rows})
	}
	addr := CommandAddress
	if y == 1 {
		addr |= ddramRow1
	}
	if err := self.Command(addr + Command(x)); err != nil {
		return err
	}
	self.row, self.column = y, x
	return nil
}

func (self *LCD) Clear() error {
	if err := self.Command(CommandClear); err != nil {
		return err
	}
	self.clock.Sleep(settleHold)
	if err := self.Position(0, 0); err != nil {
		return err
	}
	self.clear = true
	return nil
}

func (self *LCD) Home() error {
	if err := self.Command(CommandHome); err != nil {
		return err
	}
	self.clock.Sleep(settleHold)
	self.row, self.column = 0, 0
	self.clear = true
	return nil
}
