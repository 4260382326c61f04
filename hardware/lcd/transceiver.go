package lcd

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/hardware/gpioport"
)

// Datasheet minimum E pulse is 450ns, slow GPIO paths need more.
const strobeHold = 1 * time.Millisecond

type clock interface {
	Sleep(d time.Duration)
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Sleep(d time.Duration)                  { time.Sleep(d) }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (self *LCD) set(s Signal, level gpioport.Level) error {
	pin := self.pins.Pin(s)
	if err := self.port.Write(pin, level); err != nil {
		return errors.Trace(IOError{Signal: s, Pin: pin, Err: err})
	}
	return nil
}

// setData drives lines from bits of v, lowest bit to first line.
func (self *LCD) setData(lines []Signal, v byte) error {
	for _, s := range lines {
		if err := self.set(s, gpioport.Level(v&1)); err != nil {
			return err
		}
		v >>= 1
	}
	return nil
}

func (self *LCD) strobe() error {
	if err := self.set(SignalE, gpioport.High); err != nil {
		return err
	}
	self.clock.Sleep(strobeHold)
	if err := self.set(SignalE, gpioport.Low); err != nil {
		return err
	}
	self.clock.Sleep(strobeHold)
	return nil
}

// sendByte transfers command (data=false) or character (data=true).
// FourBit mode sends high nibble first and never touches D0-D3.
func (self *LCD) sendByte(b byte, data bool) error {
	if self.closed {
		return errors.Trace(ErrClosed)
	}
	rs := gpioport.Low
	if data {
		rs = gpioport.High
	}
	if err := self.set(SignalRS, rs); err != nil {
		return err
	}

	if self.mode == EightBit {
		if err := self.setData(dataLines8, b); err != nil {
			return err
		}
		return self.strobe()
	}

	for _, nibble := range [2]byte{b >> 4, b & 0x0f} {
		if err := self.setData(dataLines4, nibble); err != nil {
			return err
		}
		if err := self.strobe(); err != nil {
			return err
		}
	}
	return nil
}
