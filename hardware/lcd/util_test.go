package lcd

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/log2"
)

type fakeClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
	waits  []time.Duration
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *fakeClock) reset() {
	c.mu.Lock()
	c.sleeps, c.waits = nil, nil
	c.mu.Unlock()
}

func testConfig(mode BitMode, cols, rows int) Config {
	return Config{Mode: mode, Pins: DefaultPinMap(), Columns: cols, Rows: rows}
}

// newTestLCD returns initialized LCD with recorded events and sleeps reset.
func newTestLCD(t testing.TB, c Config) (*LCD, *gpioport.Mock, *fakeClock) {
	mock := gpioport.NewMock()
	clk := &fakeClock{}
	l, err := newLCD(mock, c, log2.NewTest(t, log2.LDebug), clk)
	require.NoError(t, err)
	mock.Reset()
	clk.reset()
	return l, mock, clk
}

// latch is data line state at rising edge of E.
type latch struct {
	rs    gpioport.Level
	value byte
}

func latches(mock *gpioport.Mock, pins PinMap, mode BitMode) []latch {
	lines := dataLines8
	if mode == FourBit {
		lines = dataLines4
	}
	levels := make(map[string]gpioport.Level)
	var result []latch
	for _, e := range mock.Events() {
		if e.Op != gpioport.OpWrite {
			continue
		}
		levels[e.Pin] = e.Level
		if e.Pin == pins.E && e.Level == gpioport.High {
			var v byte
			for i, s := range lines {
				v |= byte(levels[pins.Pin(s)]) << uint(i)
			}
			result = append(result, latch{rs: levels[pins.RS], value: v})
		}
	}
	return result
}

type transfer struct {
	data bool
	b    byte
}

// transfers decodes latches into bytes, assumes latches start at byte boundary.
func transfers(t testing.TB, mock *gpioport.Mock, pins PinMap, mode BitMode) []transfer {
	ls := latches(mock, pins, mode)
	var result []transfer
	if mode == EightBit {
		for _, l := range ls {
			result = append(result, transfer{data: l.rs == gpioport.High, b: l.value})
		}
		return result
	}
	require.Equal(t, 0, len(ls)%2, "odd nibble count")
	for i := 0; i < len(ls); i += 2 {
		require.Equal(t, ls[i].rs, ls[i+1].rs, "rs changed between nibbles")
		result = append(result, transfer{data: ls[i].rs == gpioport.High, b: ls[i].value<<4 | ls[i+1].value})
	}
	return result
}

func commands(ts []transfer) []byte {
	var bs []byte
	for _, t := range ts {
		if !t.data {
			bs = append(bs, t.b)
		}
	}
	return bs
}

func printed(ts []transfer) string {
	var bs []byte
	for _, t := range ts {
		if t.data {
			bs = append(bs, t.b)
		}
	}
	return string(bs)
}
