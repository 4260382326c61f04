// lcdd shows greeting and text received over MQTT on character display.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/state"
	"github.com/temoto/charlcd/tele"
)

func main() {
	flagConfig := flag.String("config", "charlcd.hcl", "")
	flag.Parse()

	log := log2.NewStderr(log2.LInfo)
	if sdnotify(log, "start") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	ctx, g := state.NewContext(log)
	g.MustInit(ctx, config)
	log.Infof("lcd ready %dx%d mode=%s", g.LCD.Columns(), g.LCD.Rows(), g.LCD.Mode())

	// display works without remote control
	var messages <-chan tele.Message
	if err := g.InitTele(); err != nil {
		g.Error(err)
	} else if g.Tele != nil {
		messages = g.Tele.Messages()
	}

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigch
		log.Infof("signal=%v stopping", s)
		g.Alive.Stop()
	}()

	if greeting := config.LCD.Greeting; greeting != "" {
		if err := g.LCD.Print(greeting); err != nil {
			g.Error(err, "greeting")
		}
	}
	sdnotify(log, daemon.SdNotifyReady)

	loop(ctx, g, messages)
	g.Alive.Wait()

	sdnotify(log, daemon.SdNotifyStopping)
	if err := g.Close(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

func sdnotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
