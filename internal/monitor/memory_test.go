package monitor

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/pulse/internal/host"
	hosttesting "github.com/rileyhilliard/pulse/internal/host/testing"
)

func TestPressureFor(t *testing.T) {
	tests := []struct {
		percent  float64
		expected Pressure
	}{
		{0, PressureNormal},
		{59.9, PressureNormal},
		{60, PressureWarning},
		{79.99, PressureWarning},
		{80, PressureCritical},
		{100, PressureCritical},
		{math.NaN(), PressureUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2f", tt.percent), func(t *testing.T) {
			assert.Equal(t, tt.expected, PressureFor(tt.percent))
		})
	}
}

func TestPressureForProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("below 60 is normal", prop.ForAll(
		func(p float64) bool { return PressureFor(p) == PressureNormal },
		gen.Float64Range(0, 59.999999),
	))
	properties.Property("60 to below 80 is warning", prop.ForAll(
		func(p float64) bool { return PressureFor(p) == PressureWarning },
		gen.Float64Range(60, 79.999999),
	))
	properties.Property("80 and above is critical", prop.ForAll(
		func(p float64) bool { return PressureFor(p) == PressureCritical },
		gen.Float64Range(80, 100),
	))
	properties.Property("deterministic", prop.ForAll(
		func(p float64) bool { return PressureFor(p) == PressureFor(p) },
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestPressureText(t *testing.T) {
	for _, p := range []Pressure{PressureUnavailable, PressureNormal, PressureWarning, PressureCritical} {
		text, err := p.MarshalText()
		assert.NoError(t, err)

		var back Pressure
		assert.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}
	assert.Equal(t, "unavailable", Pressure(0).String())
}

func TestMemorySourceSample(t *testing.T) {
	fake := hosttesting.NewFakeHost(1)
	fake.Virtual = host.VirtualMemory{Total: 16 << 30, Used: 12 << 30, Available: 4 << 30, UsedPercent: 75}
	fake.Swap = host.SwapMemory{Total: 2 << 30, Used: 1 << 29, UsedPercent: 25}

	r := NewMemorySource(fake, nil).Sample(context.Background())

	assert.Equal(t, MemoryReading{
		TotalBytes:     16 << 30,
		UsedBytes:      12 << 30,
		AvailableBytes: 4 << 30,
		Percent:        75,
		SwapTotalBytes: 2 << 30,
		SwapUsedBytes:  1 << 29,
		SwapPercent:    25,
		Pressure:       PressureWarning,
		Available:      true,
	}, r)
}

func TestMemorySourceRederivesPressure(t *testing.T) {
	fake := hosttesting.NewFakeHost(1)
	src := NewMemorySource(fake, nil)

	fake.Set(func(f *hosttesting.FakeHost) { f.Virtual.UsedPercent = 85 })
	assert.Equal(t, PressureCritical, src.Sample(context.Background()).Pressure)

	fake.Set(func(f *hosttesting.FakeHost) { f.Virtual.UsedPercent = 30 })
	assert.Equal(t, PressureNormal, src.Sample(context.Background()).Pressure)
}

func TestMemorySourceFailureIsUnavailable(t *testing.T) {
	fake := hosttesting.NewFakeHost(1)
	src := NewMemorySource(fake, nil)

	fake.Set(func(f *hosttesting.FakeHost) { f.Virtual.UsedPercent = 90 })
	assert.Equal(t, PressureCritical, src.Sample(context.Background()).Pressure)

	fake.Set(func(f *hosttesting.FakeHost) { f.MemErr = fmt.Errorf("host_statistics64 failed") })
	r := src.Sample(context.Background())

	assert.False(t, r.Available)
	assert.Equal(t, PressureUnavailable, r.Pressure, "stale pressure must not be reused")
	assert.Zero(t, r.Percent)
}

func TestMemorySourceNaNPercentIsUnavailable(t *testing.T) {
	fake := hosttesting.NewFakeHost(1)
	fake.Virtual = host.VirtualMemory{Total: 8 << 30, UsedPercent: math.NaN()}
	r := NewMemorySource(fake, nil).Sample(context.Background())

	assert.False(t, r.Available)
	assert.Equal(t, PressureUnavailable, r.Pressure)
	assert.Zero(t, r.Percent, "NaN must not reach the snapshot")
}
