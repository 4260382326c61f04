package state

import (
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/log2"
	"github.com/temoto/charlcd/tele"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", "", func(t testing.TB, c *Config) {
			assert.Equal(t, gpioport.DriverCdev, c.LCD.Driver)
			assert.Equal(t, gpioport.DefaultChip, c.LCD.PinChip)
			assert.Equal(t, "8bit", c.LCD.Mode)
			assert.Equal(t, 20, c.LCD.Columns)
			assert.Equal(t, 2, c.LCD.Rows)
			assert.Equal(t, lcd.DefaultPinMap(), c.LCD.Pinmap)
			assert.Equal(t, lcd.DefaultScrollSpeed, c.LCD.Scroll.Speed)
			assert.Equal(t, 3, c.LCD.Scroll.Times)
			assert.False(t, c.Log.Debug)
			assert.False(t, c.Tele.Enabled)
			assert.Equal(t, tele.DefaultBroker, c.Tele.Broker)
			assert.Equal(t, tele.DefaultTopicPrefix, c.Tele.TopicPrefix)

			lc, opt, err := c.LCD.Build()
			require.NoError(t, err)
			assert.Equal(t, lcd.Config{Mode: lcd.EightBit, Pins: lcd.DefaultPinMap(), Columns: 20, Rows: 2}, lc)
			assert.Equal(t, lcd.ScrollOptions{Speed: lcd.DefaultScrollSpeed, Times: lcd.DefaultScrollTimes, Direction: lcd.LeftToRight}, opt)
		}, ""},

		{"lcd", `
lcd {
	driver = "rpio"
	mode = "4bit"
	columns = 16
	rows = 1
	codepage = "windows-1251"
	greeting = "hello"
	pinmap { rs = "7" e = "8" }
	scroll { speed = 10.0 times = 2 direction = "rtl" }
}
log { debug = true }`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, "rpio", c.LCD.Driver)
				assert.Equal(t, "hello", c.LCD.Greeting)
				assert.True(t, c.Log.Debug)
				lc, opt, err := c.LCD.Build()
				require.NoError(t, err)
				assert.Equal(t, lcd.FourBit, lc.Mode)
				assert.Equal(t, 16, lc.Columns)
				assert.Equal(t, 1, lc.Rows)
				assert.Equal(t, "windows-1251", lc.Codepage)
				assert.Equal(t, "7", lc.Pins.RS)
				assert.Equal(t, "8", lc.Pins.E)
				assert.Equal(t, "23", lc.Pins.D4, "unset pin gets default")
				assert.Equal(t, lcd.ScrollOptions{Speed: 10, Times: 2, Direction: lcd.RightToLeft}, opt)
			},
			"",
		},

		{"tele", `tele { enable = true broker = "tcp://broker:1883" client_id = "hall" topic_prefix = "hall/lcd" keepalive_sec = 30 }`,
			func(t testing.TB, c *Config) {
				assert.True(t, c.Tele.Enabled)
				assert.Equal(t, "tcp://broker:1883", c.Tele.Broker)
				assert.Equal(t, "hall", c.Tele.ClientId)
				assert.Equal(t, "hall/lcd", c.Tele.TopicPrefix)
				assert.Equal(t, 30, c.Tele.KeepaliveSec)
				assert.NoError(t, c.Tele.Validate())
			},
			"",
		},

		{"include-normalize", `
lcd { columns = 16 }
include "./empty" {}`,
			nil, ""},

		{"include-optional", `
include "columns-40" {}
include "non-exist" { optional = true }`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, 40, c.LCD.Columns)
			}, ""},

		{"include-overwrites", `
lcd { columns = 16 }
include "columns-40" {}`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, 40, c.LCD.Columns)
			}, ""},

		{"error-syntax", `hello`, nil, "key 'hello' expected start of object"},
		{"error-include-loop", `include "include-loop" {}`, nil, "config include loop: from=include-loop include=include-loop"},
		{"error-include-required", `include "non-exist" {}`, nil, "config required name=non-exist"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(map[string]string{
				"test-inline":  c.input,
				"empty":        "",
				"columns-40":   "lcd{columns=40}",
				"include-loop": `include "include-loop" {}`,
			})
			cfg, err := ReadConfig(log, fs, "test-inline")
			if c.expectErr == "" {
				if err != nil {
					t.Fatalf("error expected=nil actual='%v'", errors.ErrorStack(err))
				}
				if c.check != nil {
					c.check(t, cfg)
				}
			} else {
				require.Error(t, err)
				if !strings.Contains(err.Error(), c.expectErr) {
					t.Fatalf("error expected='%s' actual='%v'", c.expectErr, err)
				}
			}
		})
	}
}

func TestLCDConfigBuild(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"mode", `lcd { mode = "3bit" }`, errors.IsNotValid},
		{"columns", `lcd { columns = 41 }`, lcd.IsGeometry},
		{"rows", `lcd { rows = 4 }`, lcd.IsGeometry},
		{"duplicate-pin", `lcd { pinmap { d7 = "0" } }`, errors.IsNotValid},
		{"speed", `lcd { scroll { speed = -1.5 } }`, errors.IsNotValid},
		{"times", `lcd { scroll { times = -1 } }`, errors.IsNotValid},
		{"direction", `lcd { scroll { direction = "up" } }`, errors.IsNotValid},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			cfg, err := ReadConfig(log, NewMockFullReader(map[string]string{"test-inline": c.input}), "test-inline")
			require.NoError(t, err)
			_, _, err = cfg.LCD.Build()
			require.Error(t, err)
			assert.True(t, c.check(err), errors.ErrorStack(err))
		})
	}
}

func TestOsFullReader(t *testing.T) {
	t.Parallel()

	fs := NewOsFullReader()
	require.NoError(t, fs.SetBase("/etc/lcd"))
	assert.Equal(t, "/etc/lcd/local.hcl", fs.Normalize("./local.hcl"))
	assert.Equal(t, "/opt/x.hcl", fs.Normalize("/opt/x.hcl"))
	b, err := fs.ReadAll("/nonexistent-charlcd-test/config.hcl")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestFunctionalBundled(t *testing.T) {
	// not Parallel
	t.Logf("this test needs OS open|read|stat access to file `../charlcd.hcl`")

	log := log2.NewTest(t, log2.LDebug)
	cfg := MustReadConfig(log, NewOsFullReader(), "../charlcd.hcl")
	_, _, err := cfg.LCD.Build()
	require.NoError(t, err)
}
