// Package exporter publishes snapshots as Prometheus gauges.
package exporter

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/monitor"
)

const namespace = "pulse"

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// Exporter holds the gauges for the latest snapshot on its own registry.
type Exporter struct {
	registry *prometheus.Registry

	sequence      prometheus.Gauge
	timestamp     prometheus.Gauge
	cpuOverall    prometheus.Gauge
	cpuCore       *prometheus.GaugeVec
	cpuCoreCount  *prometheus.GaugeVec
	gpuUtil       prometheus.Gauge
	memBytes      *prometheus.GaugeVec
	memPercent    *prometheus.GaugeVec
	memPressure   *prometheus.GaugeVec
	netRate       *prometheus.GaugeVec
	procCPU       *prometheus.GaugeVec
	available     *prometheus.GaugeVec
	pressureNames []monitor.Pressure
	spans         *SpanProcessor
}

// New creates an exporter with every gauge registered.
func New() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		sequence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "snapshot_sequence",
			Help: "Sequence number of the latest snapshot.",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "snapshot_timestamp_seconds",
			Help: "Unix time the latest snapshot was taken.",
		}),
		cpuOverall: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cpu", Name: "usage_percent",
			Help: "Overall CPU usage.",
		}),
		cpuCore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cpu", Name: "core_usage_percent",
			Help: "Per-core CPU usage by class (p, e, or other).",
		}, []string{"core", "class"}),
		cpuCoreCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cpu", Name: "cores",
			Help: "Logical cores per class.",
		}, []string{"class"}),
		gpuUtil: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "gpu", Name: "utilization_percent",
			Help: "GPU utilization. Not updated while unavailable.",
		}),
		memBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "memory", Name: "bytes",
			Help: "Memory and swap in bytes.",
		}, []string{"kind"}),
		memPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "memory", Name: "usage_percent",
			Help: "RAM and swap usage.",
		}, []string{"kind"}),
		memPressure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "memory", Name: "pressure",
			Help: "1 for the current memory pressure band, 0 otherwise.",
		}, []string{"level"}),
		netRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "network", Name: "bytes_per_second",
			Help: "Network throughput.",
		}, []string{"direction"}),
		procCPU: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "process", Name: "cpu_percent",
			Help: "CPU usage of the top processes.",
		}, []string{"rank", "name"}),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "source_available",
			Help: "1 if the source produced a reading for the latest snapshot.",
		}, []string{"source"}),
		pressureNames: []monitor.Pressure{
			monitor.PressureNormal, monitor.PressureWarning,
			monitor.PressureCritical, monitor.PressureUnavailable,
		},
		spans: newSpanProcessor(),
	}

	e.registry.MustRegister(
		e.sequence, e.timestamp,
		e.cpuOverall, e.cpuCore, e.cpuCoreCount,
		e.gpuUtil,
		e.memBytes, e.memPercent, e.memPressure,
		e.netRate, e.procCPU, e.available,
		e.spans.tick, e.spans.source, e.spans.panics,
	)
	return e
}

// Registry returns the exporter's registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Update sets every gauge from snap. Its signature matches monitor.Subscriber.
func (e *Exporter) Update(snap monitor.Snapshot) error {
	e.sequence.Set(float64(snap.Sequence))
	e.timestamp.Set(float64(snap.Timestamp.UnixNano()) / 1e9)

	e.setAvailable("cpu", snap.CPU.Available)
	e.setAvailable("gpu", snap.GPU.Available)
	e.setAvailable("memory", snap.Memory.Available)
	e.setAvailable("network", snap.Network.Available)

	if snap.CPU.Available {
		e.cpuOverall.Set(snap.CPU.Overall)
		e.cpuCore.Reset()
		for i, v := range snap.CPU.PerCore {
			e.cpuCore.WithLabelValues(strconv.Itoa(i), coreClass(i, snap.CPU)).Set(v)
		}
	}
	e.cpuCoreCount.WithLabelValues("p").Set(float64(snap.CPU.PCount))
	e.cpuCoreCount.WithLabelValues("e").Set(float64(snap.CPU.ECount))

	if snap.GPU.Available {
		e.gpuUtil.Set(float64(snap.GPU.Utilization))
	}

	if snap.Memory.Available {
		m := snap.Memory
		e.memBytes.WithLabelValues("total").Set(float64(m.TotalBytes))
		e.memBytes.WithLabelValues("used").Set(float64(m.UsedBytes))
		e.memBytes.WithLabelValues("available").Set(float64(m.AvailableBytes))
		e.memBytes.WithLabelValues("swap_total").Set(float64(m.SwapTotalBytes))
		e.memBytes.WithLabelValues("swap_used").Set(float64(m.SwapUsedBytes))
		e.memPercent.WithLabelValues("ram").Set(m.Percent)
		e.memPercent.WithLabelValues("swap").Set(m.SwapPercent)
	}
	for _, p := range e.pressureNames {
		v := 0.0
		if p == snap.Memory.Pressure {
			v = 1
		}
		e.memPressure.WithLabelValues(p.String()).Set(v)
	}

	if snap.Network.Available {
		e.netRate.WithLabelValues("download").Set(snap.Network.DownloadBps)
		e.netRate.WithLabelValues("upload").Set(snap.Network.UploadBps)
	}

	e.procCPU.Reset()
	for i, p := range snap.Processes {
		e.procCPU.WithLabelValues(strconv.Itoa(i+1), p.Name).Set(p.CPUPercent)
	}
	return nil
}

func (e *Exporter) setAvailable(source string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	e.available.WithLabelValues(source).Set(v)
}

func coreClass(i int, cpu monitor.CPUReading) string {
	switch {
	case i < cpu.PCount:
		return "p"
	case i < cpu.PCount+cpu.ECount:
		return "e"
	default:
		return "other"
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (e *Exporter) Serve(ctx context.Context, addr string, log logger.Logger) error {
	log = logger.OrNoop(log)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Couldn't listen on "+addr,
			"Pick a free address with --listen, e.g. --listen 127.0.0.1:9274")
	}
	return e.serve(ctx, ln, log)
}

func (e *Exporter) serve(ctx context.Context, ln net.Listener, log logger.Logger) error {
	srv := &http.Server{
		Handler:           e.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("serving metrics on http://%s/metrics", ln.Addr())

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.WrapWithCode(err, errors.ErrExport, "Metrics server failed", "")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Metrics server did not shut down cleanly", "")
	}
	return nil
}
