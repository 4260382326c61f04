package gpioport

import (
	"strconv"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/helpers"
	gpio "github.com/temoto/gpio-cdev-go"
)

// Cdev drives pins through Linux GPIO character device.
// Each pin gets own line handle so it can be claimed and released separately.
type Cdev struct {
	mu    sync.Mutex
	chip  gpio.Chiper
	lines map[string]cdevLine
}

type cdevLine struct {
	h   gpio.Lineser
	set gpio.LineSetFunc
}

var _ PortCloser = &Cdev{}

// `path` is likely "/dev/gpiochipN"
func OpenCdev(path string) (*Cdev, error) {
	chip, err := gpio.Open(path, consumer)
	if err != nil {
		if chip != nil {
			_ = chip.Close()
		}
		return nil, errors.Annotatef(err, "gpio open chip=%s", path)
	}
	return NewCdev(chip), nil
}

func NewCdev(chip gpio.Chiper) *Cdev {
	return &Cdev{
		chip:  chip,
		lines: make(map[string]cdevLine),
	}
}

func (self *Cdev) ConfigureOutput(pin string) error {
	offset, err := parseLine(pin)
	if err != nil {
		return err
	}

	self.mu.Lock()
	defer self.mu.Unlock()
	if _, ok := self.lines[pin]; ok {
		return errors.AlreadyExistsf("gpio line=%s", pin)
	}
	h, err := self.chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, consumer, offset)
	if err != nil {
		return errors.Annotatef(err, "gpio OpenLines line=%s", pin)
	}
	line := cdevLine{h: h, set: h.SetFunc(offset)}
	line.set(byte(Low))
	if err = h.Flush(); err != nil {
		_ = h.Close()
		return errors.Annotatef(err, "gpio line=%s initial low", pin)
	}
	self.lines[pin] = line
	return nil
}

func (self *Cdev) Write(pin string, level Level) error {
	self.mu.Lock()
	line, ok := self.lines[pin]
	self.mu.Unlock()
	if !ok {
		return errors.NotAssignedf("gpio line=%s", pin)
	}
	line.set(byte(level))
	return errors.Annotatef(line.h.Flush(), "gpio line=%s", pin)
}

func (self *Cdev) Release(pin string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.release(pin)
}

func (self *Cdev) release(pin string) error {
	line, ok := self.lines[pin]
	if !ok {
		return nil
	}
	delete(self.lines, pin)
	err := line.h.Close()
	if gpio.IsClosed(err) {
		err = nil
	}
	return err
}

// Close releases remaining lines and the chip.
func (self *Cdev) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	errs := make([]error, 0, len(self.lines)+1)
	for pin := range self.lines {
		errs = append(errs, self.release(pin))
	}
	if err := self.chip.Close(); err != nil && !gpio.IsClosed(err) {
		errs = append(errs, err)
	}
	return helpers.FoldErrors(errs)
}

func parseLine(pin string) (uint32, error) {
	x, err := strconv.ParseUint(pin, 10, 32)
	if err != nil {
		return 0, errors.NotValidf("gpio line=%s must be number", pin)
	}
	return uint32(x), nil
}
