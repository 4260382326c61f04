package main

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/display"
	"github.com/temoto/charlcd/engine"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/state"
	"github.com/temoto/charlcd/tele"
)

// loop is the only goroutine touching display until Alive is stopped.
// Stop cancels running action, e.g. long scroll.
func loop(ctx context.Context, g *state.Global, messages <-chan tele.Message) {
	if !g.Alive.Add(1) {
		return
	}
	defer g.Alive.Done()

	stopCh := g.Alive.StopChan()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-stopCh:
			return
		case m, ok := <-messages:
			if !ok {
				g.Log.Infof("tele messages closed")
				g.Alive.Stop()
				return
			}
			d, err := messageDoer(m)
			if err != nil {
				g.Error(err)
				continue
			}
			if err = d.Do(ctx); err != nil {
				if errors.Cause(err) == context.Canceled {
					g.Log.Infof("%s interrupted", d.String())
					continue
				}
				g.Error(err, "tele message=%s", m.String())
			}
		}
	}
}

func messageDoer(m tele.Message) (engine.Doer, error) {
	switch m.Action {
	case tele.ActionClear:
		return display.Clear, nil
	case tele.ActionPrint:
		return display.Print(m.Text), nil
	case tele.ActionScroll:
		if m.Direction == "" {
			return display.Scroll(m.Text, nil), nil
		}
		dir, err := lcd.ParseDirection(m.Direction)
		if err != nil {
			return nil, err
		}
		return display.Scroll(m.Text, &dir), nil
	}
	return nil, errors.NotValidf("message action=%s", m.Action.String())
}
