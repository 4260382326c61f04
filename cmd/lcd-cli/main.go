package main

import (
	"context"
	"flag"
	"os"
	"sync"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/helpers/cli"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/state"
)

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := cmdline.String("config", "charlcd.hcl", "")
	useMock := cmdline.Bool("mock", false, "in-memory GPIO, logs pin events")
	cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	config := state.MustReadConfig(log, state.NewOsFullReader(), *configPath)
	ctx, g := state.NewContext(log)
	var mock *gpioport.Mock
	if *useMock {
		mock = gpioport.NewMock()
		g.Port = mock
	}
	g.MustInit(ctx, config)
	defer func() {
		if err := g.Close(); err != nil {
			log.Error(errors.ErrorStack(err))
		}
		if mock != nil {
			log.Debugf("mock %s", mock.String())
		}
	}()

	e := newExecutor(ctx)
	cli.MainLoop("lcd-cli", e.exec, newCompleter(), e.interrupt)
}

// executor runs one line at a time, interrupt cancels current line.
type executor struct {
	ctx    context.Context
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newExecutor(ctx context.Context) *executor { return &executor{ctx: ctx} }

func (self *executor) exec(line string) {
	g := state.GetGlobal(self.ctx)
	d, err := parseLine(line)
	if err != nil {
		g.Log.Errorf(errors.ErrorStack(err))
		return
	}
	ctx, cancel := context.WithCancel(self.ctx)
	self.mu.Lock()
	self.cancel = cancel
	self.mu.Unlock()
	defer func() {
		self.mu.Lock()
		self.cancel = nil
		self.mu.Unlock()
		cancel()
	}()

	if err = d.Do(ctx); err != nil {
		if errors.Cause(err) == context.Canceled {
			g.Log.Infof("interrupted")
			return
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}

func (self *executor) interrupt() {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.cancel != nil {
		self.cancel()
	}
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		prompt.Suggest{Text: "clear", Description: "clear display"},
		prompt.Suggest{Text: "home", Description: "cursor to 0,0"},
		prompt.Suggest{Text: "pos", Description: "pos X Y - move cursor"},
		prompt.Suggest{Text: "print", Description: "print TEXT on next row"},
		prompt.Suggest{Text: "scroll", Description: "scroll [ltr|rtl] TEXT"},
		prompt.Suggest{Text: "cmd", Description: "cmd XX - raw command byte"},
		prompt.Suggest{Text: "control", Description: "control [on] [cursor] [blink]"},
		prompt.Suggest{Text: "sleep", Description: "sleep MS"},
		prompt.Suggest{Text: "loop=N", Description: "repeat line N times"},
		prompt.Suggest{Text: "log=yes", Description: "enable debug logging"},
		prompt.Suggest{Text: "log=no", Description: "disable debug logging"},
		prompt.Suggest{Text: "help"},
	}

	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}
