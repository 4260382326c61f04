package gpioport

import (
	"fmt"
	"strings"
	"sync"

	"github.com/juju/errors"
)

type Op byte

const (
	OpConfigure Op = iota + 1
	OpWrite
	OpRelease
)

func (op Op) String() string {
	switch op {
	case OpConfigure:
		return "configure"
	case OpWrite:
		return "write"
	case OpRelease:
		return "release"
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

type Event struct {
	Op    Op
	Pin   string
	Level Level
}

func (e Event) String() string {
	if e.Op == OpWrite {
		return fmt.Sprintf("%s %s=%s", e.Op, e.Pin, e.Level)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Pin)
}

// Mock is in-memory Port. It records every call and injects faults.
// Safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	events  []Event
	levels  map[string]Level
	claimed map[string]bool
	writes  int
	closed  bool

	// ConfigureErr fails ConfigureOutput for listed pins.
	ConfigureErr map[string]error
	// WriteErr fails every Write to listed pins.
	WriteErr map[string]error
	// FailWriteAt fails N-th (1-based) Write since creation or Reset, 0 = never.
	FailWriteAt int
}

var _ PortCloser = &Mock{}

func NewMock() *Mock {
	return &Mock{
		levels:       make(map[string]Level),
		claimed:      make(map[string]bool),
		ConfigureErr: make(map[string]error),
		WriteErr:     make(map[string]error),
	}
}

func (self *Mock) ConfigureOutput(pin string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if err := self.ConfigureErr[pin]; err != nil {
		return err
	}
	if self.claimed[pin] {
		return errors.AlreadyExistsf("mock pin=%s", pin)
	}
	self.claimed[pin] = true
	self.events = append(self.events, Event{Op: OpConfigure, Pin: pin})
	return nil
}

func (self *Mock) Write(pin string, level Level) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if !self.claimed[pin] {
		return errors.NotAssignedf("mock pin=%s", pin)
	}
	self.writes++
	if self.FailWriteAt != 0 && self.writes == self.FailWriteAt {
		return errors.Errorf("mock write #%d pin=%s", self.writes, pin)
	}
	if err := self.WriteErr[pin]; err != nil {
		return err
	}
	self.levels[pin] = level
	self.events = append(self.events, Event{Op: OpWrite, Pin: pin, Level: level})
	return nil
}

func (self *Mock) Release(pin string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if !self.claimed[pin] {
		return
	}
	delete(self.claimed, pin)
	self.events = append(self.events, Event{Op: OpRelease, Pin: pin})
}

func (self *Mock) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.closed = true
	return nil
}

// Reset forgets recorded events and write counter, keeps pin state.
func (self *Mock) Reset() {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.events = nil
	self.writes = 0
}

func (self *Mock) Events() []Event {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]Event(nil), self.events...)
}

// Filter returns pins of recorded events with given op, in order.
func (self *Mock) Filter(op Op) []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	var pins []string
	for _, e := range self.events {
		if e.Op == op {
			pins = append(pins, e.Pin)
		}
	}
	return pins
}

// Writes counts successful writes to pin among recorded events.
func (self *Mock) Writes(pin string) int {
	self.mu.Lock()
	defer self.mu.Unlock()
	n := 0
	for _, e := range self.events {
		if e.Op == OpWrite && e.Pin == pin {
			n++
		}
	}
	return n
}

func (self *Mock) Level(pin string) Level {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.levels[pin]
}

func (self *Mock) Claimed() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.claimed)
}

func (self *Mock) IsClosed() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.closed
}

func (self *Mock) String() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	ss := make([]string, len(self.events))
	for i, e := range self.events {
		ss[i] = e.String()
	}
	return strings.Join(ss, "\n")
}
