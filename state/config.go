package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/helpers"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/tele"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LCD LCDConfig `hcl:"lcd"`
	Log struct {
		Debug bool `hcl:"debug"`
	} `hcl:"log"`
	Tele tele.Config `hcl:"tele"`

	_copy_guard sync.Mutex //nolint:unused
}

type LCDConfig struct { //nolint:maligned
	Driver   string     `hcl:"driver"`
	PinChip  string     `hcl:"pin_chip"`
	Mode     string     `hcl:"mode"`
	Columns  int        `hcl:"columns"`
	Rows     int        `hcl:"rows"`
	Codepage string     `hcl:"codepage"`
	Greeting string     `hcl:"greeting"`
	Pinmap   lcd.PinMap `hcl:"pinmap"`
	Scroll   struct {
		Speed     float64 `hcl:"speed"`
		Times     int     `hcl:"times"`
		Direction string  `hcl:"direction"`
	} `hcl:"scroll"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

const (
	DefaultColumns = 20
	DefaultRows    = 2
)

// setDefaults fills zero values, including each empty pin.
func (c *Config) setDefaults() {
	l := &c.LCD
	if l.Driver == "" {
		l.Driver = gpioport.DriverCdev
	}
	if l.PinChip == "" {
		l.PinChip = gpioport.DefaultChip
	}
	if l.Mode == "" {
		l.Mode = lcd.EightBit.String()
	}
	if l.Columns == 0 {
		l.Columns = DefaultColumns
	}
	if l.Rows == 0 {
		l.Rows = DefaultRows
	}
	def := lcd.DefaultPinMap()
	for _, p := range []struct{ pin, def *string }{
		{&l.Pinmap.RS, &def.RS}, {&l.Pinmap.E, &def.E},
		{&l.Pinmap.D0, &def.D0}, {&l.Pinmap.D1, &def.D1}, {&l.Pinmap.D2, &def.D2}, {&l.Pinmap.D3, &def.D3},
		{&l.Pinmap.D4, &def.D4}, {&l.Pinmap.D5, &def.D5}, {&l.Pinmap.D6, &def.D6}, {&l.Pinmap.D7, &def.D7},
	} {
		if *p.pin == "" {
			*p.pin = *p.def
		}
	}
	if l.Scroll.Speed == 0 {
		l.Scroll.Speed = lcd.DefaultScrollSpeed
	}
	if l.Scroll.Times == 0 {
		l.Scroll.Times = int(lcd.DefaultScrollTimes)
	}
	c.Tele.SetDefaults()
}

// Build validates and converts to driver types.
func (self *LCDConfig) Build() (lcd.Config, lcd.ScrollOptions, error) {
	var c lcd.Config
	var opt lcd.ScrollOptions
	mode, err := lcd.ParseBitMode(self.Mode)
	if err != nil {
		return c, opt, errors.Annotate(err, "config: lcd.mode")
	}
	c = lcd.Config{
		Mode:     mode,
		Pins:     self.Pinmap,
		Columns:  self.Columns,
		Rows:     self.Rows,
		Codepage: self.Codepage,
	}
	if err = c.Validate(); err != nil {
		return c, opt, errors.Annotate(err, "config: lcd")
	}

	if self.Scroll.Speed < 0 {
		return c, opt, errors.NotValidf("config: lcd.scroll.speed=%v", self.Scroll.Speed)
	}
	if self.Scroll.Times < 0 {
		return c, opt, errors.NotValidf("config: lcd.scroll.times=%d", self.Scroll.Times)
	}
	opt.Speed = self.Scroll.Speed
	opt.Times = uint32(self.Scroll.Times)
	if opt.Direction, err = lcd.ParseDirection(self.Scroll.Direction); err != nil {
		return c, opt, errors.Annotate(err, "config: lcd.scroll.direction")
	}
	return c, opt, nil
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// ReadConfig reads names in order, later values overwrite earlier.
// With OsFullReader, includes are relative to directory of the first name.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if err := osfs.SetBase(dir); err != nil {
			return nil, err
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	c.setDefaults()
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
