package monitor

import (
	"encoding/json"
	"time"
)

// Unavailable is the display text for a metric that could not be read.
const Unavailable = "N/A"

// Snapshot is every reading from one tick. All fields are always populated;
// a failed source reports its unavailable reading instead of being omitted.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Sequence  uint64         `json:"sequence"`
	CPU       CPUReading     `json:"cpu"`
	GPU       GPUReading     `json:"gpu"`
	Memory    MemoryReading  `json:"memory"`
	Network   NetworkReading `json:"network"`
	Processes []ProcessEntry `json:"processes"`
}

// Clone returns a deep copy, so the receiver can be shared with consumers
// that may retain or modify what they are given.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.CPU.PerCore = cloneFloats(s.CPU.PerCore)
	out.CPU.PCores = cloneFloats(s.CPU.PCores)
	out.CPU.ECores = cloneFloats(s.CPU.ECores)
	out.Network.DownloadHistory = cloneFloats(s.Network.DownloadHistory)
	out.Network.UploadHistory = cloneFloats(s.Network.UploadHistory)
	if s.Processes != nil {
		out.Processes = make([]ProcessEntry, len(s.Processes))
		copy(out.Processes, s.Processes)
	}
	return out
}

// CPUReading holds processor load in percent (0-100).
// PCores and ECores are contiguous slices of PerCore; PCount and ECount are
// their lengths.
type CPUReading struct {
	Overall   float64   `json:"overall_percent"`
	PerCore   []float64 `json:"per_core"`
	PCores    []float64 `json:"p_core_percents"`
	ECores    []float64 `json:"e_core_percents"`
	PCount    int       `json:"p_count"`
	ECount    int       `json:"e_count"`
	Available bool      `json:"available"`
}

// GPUReading holds GPU utilization. An unavailable reading is distinct from
// 0%: Utilization is meaningless when Available is false.
type GPUReading struct {
	Utilization int  `json:"utilization"`
	Available   bool `json:"available"`
}

// MarshalJSON encodes an unavailable utilization as null.
func (g GPUReading) MarshalJSON() ([]byte, error) {
	var util *int
	if g.Available {
		v := g.Utilization
		util = &v
	}
	return json.Marshal(struct {
		Utilization *int `json:"utilization"`
		Available   bool `json:"available"`
	}{util, g.Available})
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (g *GPUReading) UnmarshalJSON(data []byte) error {
	var raw struct {
		Utilization *int `json:"utilization"`
		Available   bool `json:"available"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = GPUReading{}
	if raw.Utilization != nil {
		g.Utilization = *raw.Utilization
		g.Available = raw.Available
	}
	return nil
}

// Pressure is the memory pressure band derived from used percent.
// The zero value is PressureUnavailable.
type Pressure int

const (
	PressureUnavailable Pressure = iota
	PressureNormal
	PressureWarning
	PressureCritical
)

// String returns the lowercase band name.
func (p Pressure) String() string {
	switch p {
	case PressureNormal:
		return "normal"
	case PressureWarning:
		return "warning"
	case PressureCritical:
		return "critical"
	default:
		return "unavailable"
	}
}

// MarshalText encodes the band by name.
func (p Pressure) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a band name. Unknown names decode as unavailable.
func (p *Pressure) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*p = PressureNormal
	case "warning":
		*p = PressureWarning
	case "critical":
		*p = PressureCritical
	default:
		*p = PressureUnavailable
	}
	return nil
}

// MemoryReading holds RAM and swap usage in bytes.
type MemoryReading struct {
	TotalBytes     uint64   `json:"total_bytes"`
	UsedBytes      uint64   `json:"used_bytes"`
	AvailableBytes uint64   `json:"available_bytes"`
	Percent        float64  `json:"percent"`
	SwapTotalBytes uint64   `json:"swap_total_bytes"`
	SwapUsedBytes  uint64   `json:"swap_used_bytes"`
	SwapPercent    float64  `json:"swap_percent"`
	Pressure       Pressure `json:"pressure"`
	Available      bool     `json:"available"`
}

// NetworkReading holds throughput in bytes per second across all interfaces.
// Histories are ordered oldest to newest and always have the configured length.
type NetworkReading struct {
	DownloadBps     float64   `json:"download_bps"`
	UploadBps       float64   `json:"upload_bps"`
	DownloadHuman   string    `json:"download_human"`
	UploadHuman     string    `json:"upload_human"`
	DownloadHistory []float64 `json:"download_history"`
	UploadHistory   []float64 `json:"upload_history"`
	Available       bool      `json:"available"`
}

// ProcessEntry is one row of the top-processes list.
type ProcessEntry struct {
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
