package main

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/charlcd/engine"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/state"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	type Case struct {
		line      string
		expect    string
		expectErr string
	}
	cases := []Case{
		{"", "", ""},
		{"  ;  ", "", ""},
		{"clear", "input:clear", ""},
		{"loop=3 clear; home", "RepeatN(N=3 D=input:clear; home)", ""},
		{"loop=0 clear", "", "word=loop=0 not valid"},
		{"loop=x clear", "", "word=loop=x not valid"},
		{"pos 1", "", "pos expects X Y not valid"},
		{"pos a 1", "", "pos X=a not valid"},
		{"cmd zz", "", "cmd hex byte=zz not valid"},
		{"cmd 100", "", "cmd hex byte=100 not valid"},
		{"control on flash", "", "control flag=flash not valid"},
		{"scroll rtl", "", "scroll without text not valid"},
		{"sleep soon", "", "sleep MS=soon not valid"},
		{"dance", "", "command=dance not supported"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.line, func(t *testing.T) {
			d, err := parseLine(c.line)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, d.String())
		})
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	type Case struct {
		input  string
		expect string
	}
	cases := []Case{
		{"print hello  world", `print("hello  world")`},
		{`print a\nb`, `print("a\nb")`},
		{"print", `print("")`},
		{"scroll rtl long text", `scroll/rtl("long text")`},
		{"scroll ltr x", `scroll/ltr("x")`},
		{"scroll rtlx", `scroll("rtlx")`},
		{"pos 3 1", "pos(3,1)"},
		{"cmd 0x01", "cmd(01)"},
		{"cmd c0", "cmd(c0)"},
		{"control", "control(000)"},
		{"control on blink", "control(101)"},
		{"control cursor on", "control(110)"},
		{"sleep 20", "Sleep(20ms)"},
		{"log=yes", "log"},
		{"help", "help"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			d, err := parseCommand(c.input)
			require.NoError(t, err)
			assert.Equal(t, c.expect, d.String())
		})
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	ctx, g, mock := state.NewTestContext(t, `lcd { mode = "4bit" columns = 16 }`, nil)
	defer g.Close()

	d, err := parseLine("print ab; pos 2 1; control on; log=no")
	require.NoError(t, err)
	require.NoError(t, d.Do(ctx))
	row, column := g.LCD.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, column)
	assert.Equal(t, lcd.ControlOn, g.LCD.Control())
	assert.False(t, g.Log.Enabled(log2.LDebug))

	d, err = parseLine("clear")
	require.NoError(t, err)
	require.NoError(t, d.Do(ctx))
	assert.True(t, g.LCD.IsClear())

	d, err = parseLine("pos 0 5")
	require.NoError(t, err)
	assert.True(t, lcd.IsGeometry(d.Do(ctx)))

	require.NoError(t, g.Close())
	assert.Equal(t, 0, mock.Claimed())
}

func TestExecutorInterrupt(t *testing.T) {
	t.Parallel()

	ctx, g, _ := state.NewTestContext(t, ``, nil)
	defer g.Close()
	e := newExecutor(ctx)
	e.interrupt()

	seq := engine.NewSeq("interrupted")
	called := false
	seq.Append(engine.Func{Name: "self-interrupt", F: func(ctx context.Context) error {
		e.interrupt()
		return nil
	}}).Append(engine.Func0{Name: "after", F: func() error { called = true; return nil }})
	ctxRun, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	err := seq.Do(ctxRun)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.False(t, called)
}
