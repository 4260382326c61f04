package state

import (
	"context"
	"testing"

	"github.com/temoto/charlcd/hardware/gpioport"
	"github.com/temoto/charlcd/log2"
)

// NewTestContext returns initialized Global with display on in-memory port.
// Extra sources are available for include.
func NewTestContext(t testing.TB, confString string, sources map[string]string) (context.Context, *Global, *gpioport.Mock) {
	all := map[string]string{"test-inline": confString}
	for k, v := range sources {
		all[k] = v
	}
	fs := NewMockFullReader(all)

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	ctx, g := NewContext(log)
	mock := gpioport.NewMock()
	g.Port = mock
	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))
	return ctx, g, mock
}
