package gpioport

import (
	"strconv"
	"sync"

	"github.com/juju/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// Rpio uses BCM2835 registers mapped from /dev/gpiomem, pin is BCM number.
// There is no claim in this model, release switches pin back to input.
type Rpio struct {
	mu   sync.Mutex
	pins map[string]rpio.Pin
}

var _ PortCloser = &Rpio{}

func OpenRpio() (*Rpio, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Annotate(err, "rpio open")
	}
	return &Rpio{pins: make(map[string]rpio.Pin)}, nil
}

func (self *Rpio) ConfigureOutput(pin string) error {
	n, err := strconv.ParseUint(pin, 10, 8)
	if err != nil {
		return errors.NotValidf("rpio pin=%s must be BCM number", pin)
	}

	self.mu.Lock()
	defer self.mu.Unlock()
	if _, ok := self.pins[pin]; ok {
		return errors.AlreadyExistsf("rpio pin=%s", pin)
	}
	p := rpio.Pin(n)
	p.Output()
	p.Low()
	self.pins[pin] = p
	return nil
}

func (self *Rpio) Write(pin string, level Level) error {
	self.mu.Lock()
	p, ok := self.pins[pin]
	self.mu.Unlock()
	if !ok {
		return errors.NotAssignedf("rpio pin=%s", pin)
	}
	if level == High {
		p.High()
	} else {
		p.Low()
	}
	return nil
}

func (self *Rpio) Release(pin string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if p, ok := self.pins[pin]; ok {
		p.Input()
		delete(self.pins, pin)
	}
}

func (self *Rpio) Close() error {
	self.mu.Lock()
	for pin, p := range self.pins {
		p.Input()
		delete(self.pins, pin)
	}
	self.mu.Unlock()
	return errors.Annotate(rpio.Close(), "rpio close")
}
