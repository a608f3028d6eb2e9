package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeHost_Percent(t *testing.T) {
	f := NewFakeHost(4)
	f.Set(func(f *FakeHost) {
		f.Overall = 37
		f.PerCore = []float64{10, 20, 30, 40}
	})

	overall, err := f.Percent(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{37}, overall)

	perCore, err := f.Percent(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40}, perCore)

	// Returned slice is a copy.
	perCore[0] = 99
	again, _ := f.Percent(context.Background(), true)
	assert.Equal(t, 10.0, again[0])
	assert.Equal(t, 3, f.PercentHit)
}

func TestFakeHost_Errors(t *testing.T) {
	boom := errors.New("boom")
	f := NewFakeHost(2)
	f.Set(func(f *FakeHost) {
		f.CPUErr = boom
		f.MemErr = boom
		f.NetErr = boom
		f.ProcErr = boom
	})

	_, err := f.Percent(context.Background(), true)
	assert.ErrorIs(t, err, boom)
	_, err = f.VirtualMemory(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = f.NetCounters(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = f.Processes(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFakeHost_AddTraffic(t *testing.T) {
	f := NewFakeHost(1)
	f.AddTraffic(100, 50)
	f.AddTraffic(1, 2)

	c, err := f.NetCounters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, host.NetCounters{BytesRecv: 101, BytesSent: 52}, c)
}

func TestProcs(t *testing.T) {
	procs := Procs(0, 12.5)
	require.Len(t, procs, 2)

	name, err := procs[1].Name(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", name)

	pct, err := procs[1].CPUPercent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.5, pct)
}

func TestFakeProcess_Err(t *testing.T) {
	p := FakeProcess{ProcName: "gone", Percent: 5, Err: errors.New("no such process")}

	_, err := p.Name(context.Background())
	assert.Error(t, err)
	_, err = p.CPUPercent(context.Background())
	assert.Error(t, err)
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewFakeClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(2 * time.Second)
	assert.Equal(t, start.Add(2*time.Second), c.Now())
}
