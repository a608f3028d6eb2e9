package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const iorgSample = `+-o AGXAcceleratorG14X  <class AGXAcceleratorG14X, id 0x1000003a5, registered, matched, active, busy 0 (2 ms), retain 62>
    {
      "PerformanceStatistics" = {"In use system memory"=184549376,"Renderer Utilization %"=9,"Tiler Utilization %"=4,"Device Utilization %"=17,"gpu-core-utilization-%"=42}
      "AGXParameterBufferMaxSize" = 402653184
    }
`

func TestParseIORegUtilization(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
		wantOK bool
	}{
		{"core counter wins over device", iorgSample, 42, true},
		{"spaced assignment", `"gpu-core-utilization-%" = 42`, 42, true},
		{"generic counter", `"gpu-utilization-%" = 7`, 7, true},
		{"device utilization fallback", `"Device Utilization %"=33,"Tiler Utilization %"=1`, 33, true},
		{"generic preferred over device", `"Device Utilization %"=33,"gpu-utilization-%"=12`, 12, true},
		{"clamped", `"gpu-utilization-%" = 250`, 100, true},
		{"no counters", `"Renderer Utilization %"=9`, 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseIORegUtilization(tt.output)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNvidiaSMIUtilization(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
		wantOK bool
	}{
		{"single gpu", "35\n", 35, true},
		{"first of several", "80\n10\n", 80, true},
		{"float rounds", " 12.6 ", 13, true},
		{"not supported", "[N/A]\n", 0, false},
		{"no devices", "No devices were found\n", 0, false},
		{"driver failure", "NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver.", 0, false},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNvidiaSMIUtilization(tt.output)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
