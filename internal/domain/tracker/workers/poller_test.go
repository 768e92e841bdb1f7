package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCycler struct {
	interval  time.Duration
	calls     atomic.Int32
	announced atomic.Int32
	panics    atomic.Int32
	// behaviour for call n (1-based); nil entries succeed
	script map[int32]func() (int, error)
}

func (c *scriptedCycler) RunCycle(context.Context) (int, error) {
	n := c.calls.Add(1)
	if f := c.script[n]; f != nil {
		return f()
	}
	return 1, nil
}

func (c *scriptedCycler) AnnounceStart(context.Context) { c.announced.Add(1) }
func (c *scriptedCycler) Interval() time.Duration { return c.interval }
func (c *scriptedCycler) RecordPanic() { c.panics.Add(1) }

func TestPoller_SurvivesFailuresAndPanics(t *testing.T) {
	cycler := &scriptedCycler{
		interval: 5 * time.Millisecond,
		script: map[int32]func() (int, error){
			1: func() (int, error) { return 0, errors.New("network down") },
			2: func() (int, error) { panic("bad payload") },
		},
	}

	p := NewPoller(cycler, zerolog.Nop())
	require.NoError(t, p.Start(context.Background()))
	require.Error(t, p.Start(context.Background()), "double start")

	assert.Eventually(t, func() bool { return cycler.calls.Load() >= 4 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))

	assert.Equal(t, int32(1), cycler.announced.Load())
	assert.Equal(t, int32(1), cycler.panics.Load())
}

func TestPoller_RunsImmediatelyThenWaits(t *testing.T) {
	cycler := &scriptedCycler{interval: time.Hour}

	p := NewPoller(cycler, zerolog.Nop())
	require.NoError(t, p.Start(context.Background()))

	assert.Eventually(t, func() bool { return cycler.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), cycler.calls.Load())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx), "stop interrupts the sleep")
}

func TestPoller_StopWithoutStart(t *testing.T) {
	p := NewPoller(&scriptedCycler{interval: time.Second}, zerolog.Nop())
	assert.NoError(t, p.Stop(context.Background()))
}
