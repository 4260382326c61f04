package lcd

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

type Signal uint8

const (
	SignalRS Signal = iota // command/data, aliases: A0, RS
	SignalE                // enable
	SignalD0
	SignalD1
	SignalD2
	SignalD3
	SignalD4
	SignalD5
	SignalD6
	SignalD7
)

var signalNames = [...]string{"RS", "E", "D0", "D1", "D2", "D3", "D4", "D5", "D6", "D7"}

func (s Signal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return fmt.Sprintf("signal(%d)", uint8(s))
}

var (
	dataLines8 = []Signal{SignalD0, SignalD1, SignalD2, SignalD3, SignalD4, SignalD5, SignalD6, SignalD7}
	dataLines4 = []Signal{SignalD4, SignalD5, SignalD6, SignalD7}
)

type BitMode uint8

const (
	EightBit BitMode = iota
	FourBit
)

func (m BitMode) String() string {
	if m == FourBit {
		return "4bit"
	}
	return "8bit"
}

func ParseBitMode(s string) (BitMode, error) {
	switch strings.ToLower(s) {
	case "", "8bit", "8":
		return EightBit, nil
	case "4bit", "4":
		return FourBit, nil
	}
	return EightBit, errors.NotValidf("bit mode=%s", s)
}

// PinMap maps signals to Port pin identifiers.
// D0-D3 are ignored in FourBit mode.
type PinMap struct {
	RS string `hcl:"rs"`
	E  string `hcl:"e"`
	D0 string `hcl:"d0"`
	D1 string `hcl:"d1"`
	D2 string `hcl:"d2"`
	D3 string `hcl:"d3"`
	D4 string `hcl:"d4"`
	D5 string `hcl:"d5"`
	D6 string `hcl:"d6"`
	D7 string `hcl:"d7"`
}

// DefaultPinMap is BCM numbering of a Raspberry Pi wiring.
func DefaultPinMap() PinMap {
	return PinMap{
		RS: "0", E: "1",
		D0: "17", D1: "18", D2: "21", D3: "22",
		D4: "23", D5: "24", D6: "25", D7: "4",
	}
}

func (pm *PinMap) Pin(s Signal) string {
	switch s {
	case SignalRS:
		return pm.RS
	case SignalE:
		return pm.E
	case SignalD0:
		return pm.D0
	case SignalD1:
		return pm.D1
	case SignalD2:
		return pm.D2
	case SignalD3:
		return pm.D3
	case SignalD4:
		return pm.D4
	case SignalD5:
		return pm.D5
	case SignalD6:
		return pm.D6
	case SignalD7:
		return pm.D7
	}
	panic(fmt.Sprintf("code error invalid signal=%d", s))
}

// Signals returns used signals in configuration order.
func (m BitMode) Signals() []Signal {
	if m == FourBit {
		return append([]Signal{SignalRS, SignalE}, dataLines4...)
	}
	return append([]Signal{SignalRS, SignalE}, dataLines8...)
}

type Config struct {
	Mode    BitMode
	Pins    PinMap
	Columns int
	Rows    int
	// Codepage is go-charset name of display character ROM, e.g. "windows-1251".
	// Empty sends text bytes as is.
	Codepage string
}

// Validate checks geometry and that used signals have distinct pins.
func (c *Config) Validate() error {
	if c.Columns < 1 || c.Columns > MaxColumns || c.Rows < 1 || c.Rows > MaxRows {
		return errors.Trace(GeometryError{Columns: c.Columns, Rows: c.Rows})
	}
	seen := make(map[string]Signal, len(signalNames))
	for _, s := range c.Mode.Signals() {
		pin := c.Pins.Pin(s)
		if pin == "" {
			return errors.NotValidf("pinmap %s empty", s)
		}
		if other, ok := seen[pin]; ok {
			return errors.NotValidf("pinmap pin=%s used by %s and %s", pin, other, s)
		}
		seen[pin] = s
	}
	return nil
}
