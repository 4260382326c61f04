package cli

import (
	"bufio"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// MainLoop feeds exec with lines from interactive prompt or, when stdin is not a terminal,
// from stdin until EOF.
// Signal calls interrupt to abort current line; second signal before next line exits.
func MainLoop(tag string, exec func(line string), complete func(d prompt.Document) []prompt.Suggest, interrupt func()) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	pending := make(chan struct{}, 1)
	go func() {
		for s := range signalCh {
			select {
			case pending <- struct{}{}:
				log.Printf("%s: signal=%v interrupt", tag, s)
				if interrupt != nil {
					interrupt()
				}
			default:
				os.Exit(1)
			}
		}
	}()
	execLine := func(line string) {
		// new line resets interrupt counter
		select {
		case <-pending:
		default:
		}
		exec(line)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(execLine, complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			execLine(strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
	}
}
