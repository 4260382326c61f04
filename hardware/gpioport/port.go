// Package gpioport is the digital output boundary used by the LCD driver.
// Backends: Linux GPIO character device (gpio-cdev-go), periph.io registry,
// BCM2835 memory mapped registers (go-rpio) and in-memory Mock for tests.
package gpioport

import (
	"io"

	"github.com/juju/errors"
)

type Level byte

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == Low {
		return "low"
	}
	return "high"
}

// Port is per-pin output control.
// Pin identifier format is backend specific: line offset for cdev and rpio,
// registry name for periph.
type Port interface {
	// ConfigureOutput claims pin as output.
	ConfigureOutput(pin string) error
	Write(pin string, level Level) error
	// Release is idempotent and best effort.
	Release(pin string)
}

// PortCloser owns a device handle besides pins.
type PortCloser interface {
	Port
	io.Closer
}

const (
	DriverCdev   = "cdev"
	DriverPeriph = "periph"
	DriverRpio   = "rpio"

	DefaultChip = "/dev/gpiochip0"
	consumer    = "lcd"
)

// Open creates backend by name. chip is only used by cdev.
func Open(driver, chip string) (PortCloser, error) {
	switch driver {
	case "", DriverCdev:
		if chip == "" {
			chip = DefaultChip
		}
		return OpenCdev(chip)
	case DriverPeriph:
		return OpenPeriph()
	case DriverRpio:
		return OpenRpio()
	}
	return nil, errors.NotValidf("gpio driver=%s", driver)
}
