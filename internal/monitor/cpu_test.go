package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/exec/mocks"
	hosttesting "github.com/rileyhilliard/pulse/internal/host/testing"
)

func TestSplitCores(t *testing.T) {
	perCore := []float64{10, 20, 30, 40, 50, 60}

	tests := []struct {
		name   string
		layout CoreLayout
		wantP  []float64
		wantE  []float64
	}{
		{"heterogeneous", CoreLayout{PCount: 4, ECount: 2}, []float64{10, 20, 30, 40}, []float64{50, 60}},
		{"homogeneous fallback", CoreLayout{PCount: 6}, perCore, []float64{}},
		{"zero layout treats all as P", CoreLayout{}, perCore, []float64{}},
		{"remainder belongs to neither", CoreLayout{PCount: 2, ECount: 2}, []float64{10, 20}, []float64{30, 40}},
		{"P count exceeds cores", CoreLayout{PCount: 8, ECount: 4}, perCore, []float64{}},
		{"E clamped", CoreLayout{PCount: 4, ECount: 8}, []float64{10, 20, 30, 40}, []float64{50, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, e := SplitCores(perCore, tt.layout)
			assert.Equal(t, tt.wantP, p)
			assert.Equal(t, tt.wantE, e)
		})
	}
}

func TestSplitCoresCopies(t *testing.T) {
	perCore := []float64{1, 2, 3}
	p, _ := SplitCores(perCore, CoreLayout{PCount: 3})
	p[0] = 99
	assert.Equal(t, 1.0, perCore[0])
}

func TestSplitCoresProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("P and E slices are a prefix of per-core", prop.ForAll(
		func(perCore []float64, pCount, eCount int) bool {
			p, e := SplitCores(perCore, CoreLayout{PCount: pCount, ECount: eCount})
			if len(p)+len(e) > len(perCore) {
				return false
			}
			joined := append(append([]float64{}, p...), e...)
			for i, v := range joined {
				if perCore[i] != v {
					return false
				}
			}
			if pCount > 0 && len(p) != min(pCount, len(perCore)) {
				return false
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
		gen.IntRange(0, 32),
		gen.IntRange(0, 32),
	))

	properties.TestingRun(t)
}

func TestDetectCoreLayout(t *testing.T) {
	tests := []struct {
		name    string
		p0      string
		p0Err   error
		p1      string
		p1Err   error
		logical int
		want    CoreLayout
	}{
		{"apple silicon", "8\n", nil, "4\n", nil, 12, CoreLayout{PCount: 8, ECount: 4}},
		{"both queries fail", "", fmt.Errorf("unknown oid"), "", fmt.Errorf("unknown oid"), 16, CoreLayout{PCount: 16}},
		{"both zero", "0", nil, "0", nil, 4, CoreLayout{PCount: 4}},
		{"only perflevel0", "10", nil, "", fmt.Errorf("unknown oid"), 10, CoreLayout{PCount: 10}},
		{"unparseable", "garbage", nil, "garbage", nil, 2, CoreLayout{PCount: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runner := mocks.NewMockRunner(ctrl)

			runner.EXPECT().
				Run(gomock.Any(), 2*time.Second, "sysctl", "-n", PerfLevel0Key).
				Return(tt.p0, tt.p0Err)
			runner.EXPECT().
				Run(gomock.Any(), 2*time.Second, "sysctl", "-n", PerfLevel1Key).
				Return(tt.p1, tt.p1Err)

			got := DetectCoreLayout(context.Background(), runner, 0, tt.logical, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCPUSourcePrimesCounters(t *testing.T) {
	fake := hosttesting.NewFakeHost(4)
	NewCPUSource(context.Background(), fake, CoreLayout{PCount: 4}, nil)
	assert.Equal(t, 2, fake.PercentHit, "construction should prime per-core and overall counters")
}

func TestCPUSourceSample(t *testing.T) {
	fake := hosttesting.NewFakeHost(6)
	fake.Set(func(f *hosttesting.FakeHost) {
		f.Overall = 37.5
		f.PerCore = []float64{90, 80, 70, 60, 5, 150}
	})

	src := NewCPUSource(context.Background(), fake, CoreLayout{PCount: 4, ECount: 2}, nil)
	r := src.Sample(context.Background())

	require.True(t, r.Available)
	assert.Equal(t, 37.5, r.Overall)
	assert.Equal(t, []float64{90, 80, 70, 60, 5, 100}, r.PerCore, "values clamped to 0..100")
	assert.Equal(t, []float64{90, 80, 70, 60}, r.PCores)
	assert.Equal(t, []float64{5, 100}, r.ECores)
	assert.Equal(t, 4, r.PCount)
	assert.Equal(t, 2, r.ECount)
	assert.Equal(t, CoreLayout{PCount: 4, ECount: 2}, src.Layout())
}

func TestCPUSourceSampleFailure(t *testing.T) {
	fake := hosttesting.NewFakeHost(4)
	src := NewCPUSource(context.Background(), fake, CoreLayout{PCount: 2, ECount: 2}, nil)

	fake.Set(func(f *hosttesting.FakeHost) { f.CPUErr = fmt.Errorf("host_processor_info failed") })
	r := src.Sample(context.Background())

	assert.False(t, r.Available)
	assert.Zero(t, r.Overall)
	assert.Equal(t, []float64{0, 0, 0, 0}, r.PerCore)
	assert.Equal(t, 2, r.PCount)
	assert.Equal(t, 2, r.ECount)
	assert.LessOrEqual(t, r.PCount+r.ECount, len(r.PerCore))
}
