// Package metrics counts countdown activity with Prometheus collectors.
//
// The collector owns a private registry so several engines (or tests) never
// collide on the global default registry. There is no HTTP listener; the
// snapshot is written in text exposition format for a node-exporter textfile
// collector to pick up.
package metrics

import (
	"fmt"
	"log"

	"github.com/lixenwraith/pomodoro/timer"
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "pomodoro_"

// Collector implements timer.Sink, timer.Notifier and timer.PhaseObserver
type Collector struct {
	registry *prometheus.Registry

	starts      prometheus.Counter
	stops       prometheus.Counter
	ticks       prometheus.Counter
	expirations prometheus.Counter
	configures  prometheus.Counter
	remaining   prometheus.Gauge
	progress    prometheus.Gauge
	phase       *prometheus.GaugeVec
	zone        *prometheus.GaugeVec
}

// NewCollector creates and registers all collectors on a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		starts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "starts_total",
			Help: "Countdowns started or resumed",
		}),
		stops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "stops_total",
			Help: "Running countdowns paused",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "ticks_total",
			Help: "Countdown ticks applied",
		}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "expirations_total",
			Help: "Countdowns that reached zero",
		}),
		configures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "configures_total",
			Help: "Accepted duration changes",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "remaining_seconds",
			Help: "Seconds left on the countdown",
		}),
		progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "progress_ratio",
			Help: "Remaining over configured duration",
		}),
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricPrefix + "phase",
			Help: "1 for the current phase, 0 otherwise",
		}, []string{"phase"}),
		zone: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricPrefix + "zone",
			Help: "1 for the current color zone, 0 otherwise",
		}, []string{"zone"}),
	}

	c.registry.MustRegister(
		c.starts, c.stops, c.ticks, c.expirations, c.configures,
		c.remaining, c.progress, c.phase, c.zone,
	)
	c.setPhase(timer.PhaseIdle)
	c.setZone(timer.ZoneNormal)
	return c
}

// Registry exposes the private registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Render records one frame. Frames emitted by Configure carry PhaseIdle; every
// other frame comes from a tick.
func (c *Collector) Render(f timer.Frame) {
	if f.Phase == timer.PhaseIdle {
		c.configures.Inc()
	} else {
		c.ticks.Inc()
	}

	c.remaining.Set(float64(f.Remaining))
	c.progress.Set(f.Progress)
	c.setZone(f.Zone)
}

// PhaseChanged counts starts and stops and tracks the current phase
func (c *Collector) PhaseChanged(from, to timer.Phase) {
	switch {
	case to == timer.PhaseRunning:
		c.starts.Inc()
	case from == timer.PhaseRunning && to == timer.PhaseIdle:
		c.stops.Inc()
	}
	c.setPhase(to)
}

// Expired counts completed countdowns
func (c *Collector) Expired(timer.Expiry) {
	c.expirations.Inc()
}

func (c *Collector) setPhase(p timer.Phase) {
	for _, ph := range []timer.Phase{timer.PhaseIdle, timer.PhaseRunning, timer.PhaseExpired} {
		v := 0.0
		if ph == p {
			v = 1
		}
		c.phase.WithLabelValues(ph.String()).Set(v)
	}
}

func (c *Collector) setZone(z timer.ColorZone) {
	for _, zn := range []timer.ColorZone{timer.ZoneNormal, timer.ZoneWarning, timer.ZoneAlert} {
		v := 0.0
		if zn == z {
			v = 1
		}
		c.zone.WithLabelValues(zn.String()).Set(v)
	}
}

// WriteTextfile writes the current snapshot in text exposition format.
// The file is written to a temporary name and renamed into place.
func (c *Collector) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	log.Printf("metrics: wrote %s", path)
	return nil
}
