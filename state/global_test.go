package state

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/hardware/lcd"
	"github.com/temoto/charlcd/log2"
)

func TestGlobalInit(t *testing.T) {
	t.Parallel()

	ctx, g, mock := NewTestContext(t, `lcd { mode = "4bit" columns = 16 }`, nil)
	assert.Equal(t, g, GetGlobal(ctx))
	require.NotNil(t, g.LCD)
	assert.Equal(t, lcd.FourBit, g.LCD.Mode())
	assert.Equal(t, 16, g.LCD.Columns())
	assert.Equal(t, 6, mock.Claimed())
	assert.Equal(t, lcd.DefaultScrollTimes, g.Scroll.Times)
	assert.NoError(t, g.InitTele(), "disabled by default")
	assert.Nil(t, g.Tele)

	require.NoError(t, g.Close())
	assert.Equal(t, 0, mock.Claimed())
	assert.True(t, mock.IsClosed())
	assert.Nil(t, g.Port)
	require.NoError(t, g.Close())
}

func TestGlobalInitFailure(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	cfg, err := ReadConfig(log, NewMockFullReader(map[string]string{"c": `lcd { mode = "4bit" }`}), "c")
	require.NoError(t, err)
	ctx, g := NewContext(log)
	mock := gpioport.NewMock()
	mock.ConfigureErr["24"] = fmt.Errorf("busy")
	g.Port = mock

	err = g.Init(ctx, cfg)
	require.Error(t, err)
	assert.True(t, lcd.IsConfiguration(err))
	assert.Nil(t, g.LCD)
	assert.Nil(t, g.Port)
	assert.True(t, mock.IsClosed())
	assert.Equal(t, 0, mock.Claimed())
}

func TestGlobalInitBadConfig(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	cfg, err := ReadConfig(log, NewMockFullReader(map[string]string{"c": `lcd { driver = "mock" columns = 99 }`}), "c")
	require.NoError(t, err)
	ctx, g := NewContext(log)
	err = g.Init(ctx, cfg)
	assert.True(t, lcd.IsGeometry(err))
	assert.Nil(t, g.Port, "port not opened")
}

func TestGetGlobalPanic(t *testing.T) {
	t.Parallel()

	ctx, _ := NewContext(log2.NewTest(t, log2.LDebug))
	assert.NotPanics(t, func() { GetGlobal(ctx) })
	assert.Panics(t, func() { GetGlobal(context.Background()) })
}
