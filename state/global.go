package state

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/helpers"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/tele"
)

// Global is runtime state shared by commands.
// LCD is not safe for concurrent use, commands run display actions on one goroutine.
type Global struct {
	Alive  *alive.Alive
	Config *Config
	Log    *log2.Log
	Port   gpioport.PortCloser
	LCD    *lcd.LCD
	Scroll lcd.ScrollOptions
	Tele   *tele.Subscriber
}

const ContextKey = "run/state-global"

func NewContext(log *log2.Log) (context.Context, *Global) {
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)
	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// Init opens GPIO port unless already set (tests, -mock) and initializes display.
// If `Init` fails, port is closed and `Global` is not usable.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	if cfg.Log.Debug {
		g.Log.SetLevel(log2.LDebug)
	}

	lcdConfig, scroll, err := cfg.LCD.Build()
	if err != nil {
		return err
	}
	if err = cfg.Tele.Validate(); err != nil {
		return errors.Annotate(err, "config")
	}
	g.Scroll = scroll

	if g.Port == nil {
		g.Log.Debugf("gpio driver=%s chip=%s", cfg.LCD.Driver, cfg.LCD.PinChip)
		if g.Port, err = gpioport.Open(cfg.LCD.Driver, cfg.LCD.PinChip); err != nil {
			return errors.Annotatef(err, "config: lcd.driver=%s", cfg.LCD.Driver)
		}
	}
	if g.LCD, err = lcd.New(g.Port, lcdConfig, g.Log); err != nil {
		_ = g.Port.Close()
		g.Port = nil
		return err
	}
	return nil
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

// InitTele connects MQTT subscriber if enabled in config, otherwise returns nil.
func (g *Global) InitTele() error {
	if !g.Config.Tele.Enabled {
		g.Log.Infof("tele disabled")
		return nil
	}
	log := g.Log.Clone(log2.LInfo)
	if g.Config.Tele.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	g.Tele = tele.NewSubscriber(log, g.Config.Tele)
	return errors.Annotate(g.Tele.Start(), "tele init")
}

// Close releases display pins and GPIO device, safe to call more than once.
func (g *Global) Close() error {
	g.Tele.Close()
	g.Tele = nil
	errs := make([]error, 0, 2)
	if g.LCD != nil {
		errs = append(errs, g.LCD.Close())
	}
	if g.Port != nil {
		errs = append(errs, g.Port.Close())
		g.Port = nil
	}
	return helpers.FoldErrors(errs)
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}
