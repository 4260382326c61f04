package gpioport

import (
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/helpers"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Periph resolves pins by name in periph.io registry, e.g. "GPIO23" or "23".
type Periph struct {
	mu     sync.Mutex
	byName func(name string) gpio.PinIO
	pins   map[string]gpio.PinIO
}

var _ PortCloser = &Periph{}

func OpenPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph/init")
	}
	return NewPeriph(gpioreg.ByName), nil
}

func NewPeriph(byName func(name string) gpio.PinIO) *Periph {
	return &Periph{
		byName: byName,
		pins:   make(map[string]gpio.PinIO),
	}
}

func (self *Periph) ConfigureOutput(name string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if _, ok := self.pins[name]; ok {
		return errors.AlreadyExistsf("periph pin=%s", name)
	}
	p := self.byName(name)
	if p == nil {
		return errors.NotFoundf("periph pin=%s", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return errors.Annotatef(err, "periph pin=%s Out", name)
	}
	self.pins[name] = p
	return nil
}

func (self *Periph) Write(name string, level Level) error {
	self.mu.Lock()
	p, ok := self.pins[name]
	self.mu.Unlock()
	if !ok {
		return errors.NotAssignedf("periph pin=%s", name)
	}
	return errors.Annotatef(p.Out(gpio.Level(level == High)), "periph pin=%s", name)
}

func (self *Periph) Release(name string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	_ = self.release(name)
}

func (self *Periph) release(name string) error {
	p, ok := self.pins[name]
	if !ok {
		return nil
	}
	delete(self.pins, name)
	return p.Halt()
}

func (self *Periph) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	errs := make([]error, 0, len(self.pins))
	for name := range self.pins {
		errs = append(errs, self.release(name))
	}
	return helpers.FoldErrors(errs)
}
