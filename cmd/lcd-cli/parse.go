package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/charlcd/display"
	"github.com/temoto/charlcd/engine"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/state"
)

const usage = `syntax: commands separated by ;
(main)
- clear                     clear display, cursor to 0,0
- home                      cursor to 0,0 without clearing
- pos X Y                   move cursor to column X row Y
- print TEXT                print on next row, \n is line break
- scroll [ltr|rtl] TEXT     scroll TEXT on current row
- cmd XX                    send raw command byte in hex
- control [on] [cursor] [blink]  display on/off, cursor, blink
- sleep MS                  pause MS milliseconds

(meta)
- log=yes  enable debug logging
- log=no   disable debug logging
- loop=N   repeat N times all commands on this line, must be first word
- help
`

var doUsage = engine.Func{Name: "help", F: func(ctx context.Context) error {
	log2.ContextValueLogger(ctx).Infof(usage)
	return nil
}}

func doLogLevel(level log2.Level) engine.Doer {
	return engine.Func{Name: "log", F: func(ctx context.Context) error {
		state.GetGlobal(ctx).Log.SetLevel(level)
		return nil
	}}
}

func parseLine(line string) (engine.Doer, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return engine.Nothing{}, nil
	}

	loopn := uint(0)
	if strings.HasPrefix(line, "loop=") {
		word, rest := splitWord(line)
		i, err := strconv.ParseUint(word[5:], 10, 32)
		if err != nil || i == 0 {
			return nil, errors.NotValidf("word=%s", word)
		}
		loopn, line = uint(i), rest
	}

	tx := engine.NewSeq("input:" + line)
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := parseCommand(part)
		if err != nil {
			return nil, errors.Annotatef(err, "command='%s'", part)
		}
		tx.Append(d)
	}
	if tx.Len() == 0 {
		return engine.Nothing{}, nil
	}

	if loopn != 0 {
		return engine.RepeatN{N: loopn, D: tx}, nil
	}
	return tx, nil
}

func parseCommand(s string) (engine.Doer, error) {
	word, rest := splitWord(s)
	switch word {
	case "help":
		return doUsage, nil
	case "log=yes":
		return doLogLevel(log2.LDebug), nil
	case "log=no":
		return doLogLevel(log2.LInfo), nil
	case "clear":
		return display.Clear, nil
	case "home":
		return display.Home, nil

	case "pos":
		args := strings.Fields(rest)
		if len(args) != 2 {
			return nil, errors.NotValidf("pos expects X Y")
		}
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, errors.NotValidf("pos X=%s", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, errors.NotValidf("pos Y=%s", args[1])
		}
		return display.Position(x, y), nil

	case "print":
		return display.Print(unescape(rest)), nil

	case "scroll":
		var direction *lcd.Direction
		if dw, text := splitWord(rest); dw == "ltr" || dw == "rtl" {
			d, _ := lcd.ParseDirection(dw)
			direction, rest = &d, text
		}
		if rest == "" {
			return nil, errors.NotValidf("scroll without text")
		}
		return display.Scroll(unescape(rest), direction), nil

	case "cmd":
		b, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(rest), "0x"), 16, 8)
		if err != nil {
			return nil, errors.NotValidf("cmd hex byte=%s", rest)
		}
		return display.Command(lcd.Command(b)), nil

	case "control":
		var c lcd.Control
		for _, flag := range strings.Fields(rest) {
			switch flag {
			case "on":
				c |= lcd.ControlOn
			case "cursor":
				c |= lcd.ControlCursor
			case "blink":
				c |= lcd.ControlBlink
			default:
				return nil, errors.NotValidf("control flag=%s", flag)
			}
		}
		return display.Control(c), nil

	case "sleep":
		ms, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 32)
		if err != nil {
			return nil, errors.NotValidf("sleep MS=%s", rest)
		}
		return engine.Sleep{Duration: time.Duration(ms) * time.Millisecond}, nil
	}
	return nil, errors.NotSupportedf("command=%s", word)
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func unescape(s string) string { return strings.Replace(s, `\n`, "\n", -1) }
