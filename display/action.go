// Package display builds engine actions over the LCD found in context Global.
package display

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/engine"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/state"
)

func device(ctx context.Context) (*lcd.LCD, error) {
	g := state.GetGlobal(ctx)
	if g.LCD == nil {
		return nil, errors.Trace(lcd.ErrClosed)
	}
	return g.LCD, nil
}

var Clear = engine.Func{Name: "clear", F: func(ctx context.Context) error {
	d, err := device(ctx)
	if err != nil {
		return err
	}
	return d.Clear()
}}

var Home = engine.Func{Name: "home", F: func(ctx context.Context) error {
	d, err := device(ctx)
	if err != nil {
		return err
	}
	return d.Home()
}}

func Print(text string) engine.Doer {
	return engine.Func{Name: fmt.Sprintf("print(%q)", text), F: func(ctx context.Context) error {
		d, err := device(ctx)
		if err != nil {
			return err
		}
		return d.Print(text)
	}}
}

// Scroll uses configured options, direction overrides unless nil.
func Scroll(text string, direction *lcd.Direction) engine.Doer {
	name := fmt.Sprintf("scroll(%q)", text)
	if direction != nil {
		name = fmt.Sprintf("scroll/%s(%q)", direction.String(), text)
	}
	return engine.Func{Name: name, F: func(ctx context.Context) error {
		d, err := device(ctx)
		if err != nil {
			return err
		}
		opt := state.GetGlobal(ctx).Scroll
		if direction != nil {
			opt.Direction = *direction
		}
		return d.Scroll(ctx, text, opt)
	}}
}

func Position(x, y int) engine.Doer {
	return engine.Func{Name: fmt.Sprintf("pos(%d,%d)", x, y), F: func(ctx context.Context) error {
		d, err := device(ctx)
		if err != nil {
			return err
		}
		return d.Position(x, y)
	}}
}

func Command(c lcd.Command) engine.Doer {
	return engine.Func{Name: fmt.Sprintf("cmd(%02x)", byte(c)), F: func(ctx context.Context) error {
		d, err := device(ctx)
		if err != nil {
			return err
		}
		return d.Command(c)
	}}
}

func Control(c lcd.Control) engine.Doer {
	return engine.Func{Name: fmt.Sprintf("control(%03b)", byte(c)), F: func(ctx context.Context) error {
		d, err := device(ctx)
		if err != nil {
			return err
		}
		return d.SetControl(c)
	}}
}
