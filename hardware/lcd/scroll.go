package lcd

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/juju/errors"
)

type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "ltr":
		return LeftToRight, nil
	case "rtl":
		return RightToLeft, nil
	}
	return LeftToRight, errors.NotValidf("scroll direction=%s", s)
}

const (
	DefaultScrollSpeed float64 = 22
	DefaultScrollTimes uint32  = 3
)

// ScrollOptions zero fields mean defaults.
type ScrollOptions struct {
	// Speed is steps per 20 seconds, bigger is faster.
	Speed     float64
	Times     uint32
	Direction Direction
}

func (o ScrollOptions) withDefaults() ScrollOptions {
	if o.Speed <= 0 {
		o.Speed = DefaultScrollSpeed
	}
	if o.Times == 0 {
		o.Times = DefaultScrollTimes
	}
	return o
}

// Interval is delay between scroll steps.
func (o ScrollOptions) Interval() time.Duration {
	o = o.withDefaults()
	return time.Duration(100 / (o.Speed * 5) * float64(time.Second))
}

// Scroll slides a row wide window over text repeated Times, separated by space.
// Each step redraws same row without clearing it.
// Text that fits one row is printed once and held for Times intervals.
// Cancellation is checked between steps and during the hold.
func (self *LCD) Scroll(ctx context.Context, text string, opt ScrollOptions) error {
	opt = opt.withDefaults()
	interval := opt.Interval()
	b, err := self.translate(text)
	if err != nil {
		return err
	}

	if len(b) <= self.cols {
		if err := self.PrintBytes(b); err != nil {
			return errors.Annotate(err, "lcd scroll")
		}
		return self.wait(ctx, time.Duration(opt.Times)*interval)
	}

	looped := loopText(b, int(opt.Times))
	self.log.Debugf("lcd scroll length=%d direction=%s interval=%v", len(looped), opt.Direction, interval)
	for _, start := range windowStarts(len(looped), self.cols, opt.Direction) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := self.PrintBytes(looped[start : start+self.cols]); err != nil {
			return errors.Annotate(err, "lcd scroll")
		}
		// no physical clear between steps, it flickers
		if err := self.ClearRow(true); err != nil {
			return errors.Annotate(err, "lcd scroll")
		}
		if err := self.wait(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

func (self *LCD) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-self.clock.After(d):
		return nil
	}
}

// loopText is (b + " ") * times without last space.
func loopText(b []byte, times int) []byte {
	unit := append(append(make([]byte, 0, len(b)+1), b...), ' ')
	looped := bytes.Repeat(unit, times)
	return looped[:len(looped)-1]
}

// windowStarts lists first index of each width sized window over length bytes.
func windowStarts(length, width int, dir Direction) []int {
	last := length - width
	if last < 0 {
		return nil
	}
	starts := make([]int, 0, last+1)
	for i := 0; i <= last; i++ {
		start := i
		if dir == RightToLeft {
			start = last - i
		}
		starts = append(starts, start)
	}
	return starts
}
