package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/pulse/internal/logger"
)

func TestRegistryDeliversInRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)

	var order []string
	for _, name := range []string{"tray", "panel", "exporter"} {
		name := name
		r.Subscribe(func(Snapshot) error {
			order = append(order, name)
			return nil
		})
	}

	assert.Zero(t, r.Deliver(Snapshot{Sequence: 1}))
	assert.Equal(t, []string{"tray", "panel", "exporter"}, order)
}

func TestRegistryIsolatesFailures(t *testing.T) {
	log := logger.NewBufferLogger()
	r := NewRegistry(log)

	var got []uint64
	r.Subscribe(func(Snapshot) error { return fmt.Errorf("render failed") })
	r.Subscribe(func(Snapshot) error { panic("nil map") })
	r.Subscribe(func(s Snapshot) error {
		got = append(got, s.Sequence)
		return nil
	})

	assert.Equal(t, 2, r.Deliver(Snapshot{Sequence: 1}))
	assert.Equal(t, 2, r.Deliver(Snapshot{Sequence: 2}))

	assert.Equal(t, []uint64{1, 2}, got)
	assert.Equal(t, 3, r.Len(), "failing subscribers stay registered")
	assert.True(t, log.HasLevel("warn"))
}

func TestRegistryUnsubscribe(t *testing.T) {
	r := NewRegistry(nil)

	calls := map[string]int{}
	a := r.Subscribe(func(Snapshot) error { calls["a"]++; return nil })
	r.Subscribe(func(Snapshot) error { calls["b"]++; return nil })

	r.Deliver(Snapshot{})
	assert.True(t, r.Unsubscribe(a))
	assert.False(t, r.Unsubscribe(a), "second unsubscribe is a no-op")
	r.Deliver(Snapshot{})

	assert.Equal(t, 1, calls["a"])
	assert.Equal(t, 2, calls["b"])
	assert.Equal(t, 1, r.Len())
}

func TestRegistryHandlesAreUnique(t *testing.T) {
	r := NewRegistry(nil)
	a := r.Subscribe(func(Snapshot) error { return nil })
	r.Unsubscribe(a)
	b := r.Subscribe(func(Snapshot) error { return nil })
	assert.NotEqual(t, a, b)
}

func TestRegistryGivesEachSubscriberACopy(t *testing.T) {
	r := NewRegistry(nil)

	r.Subscribe(func(s Snapshot) error {
		s.CPU.PerCore[0] = 99
		return nil
	})
	var seen float64
	r.Subscribe(func(s Snapshot) error {
		seen = s.CPU.PerCore[0]
		return nil
	})

	snap := Snapshot{CPU: CPUReading{PerCore: []float64{1}}}
	r.Deliver(snap)

	assert.Equal(t, 1.0, seen)
	assert.Equal(t, 1.0, snap.CPU.PerCore[0])
}
