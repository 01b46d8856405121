package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what the application has done since it started.
type Metrics struct {
	commands      atomic.Uint64
	commandErrors atomic.Uint64
	swaps         atomic.Uint64
	reloads       atomic.Uint64
	reloadErrors  atomic.Uint64
	reloadTotalNs atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordCommand records an executed command.
func (m *Metrics) RecordCommand(err error) {
	m.commands.Add(1)
	if err != nil {
		m.commandErrors.Add(1)
	}
}

// RecordSwap records a change of active source.
func (m *Metrics) RecordSwap() {
	m.swaps.Add(1)
}

// RecordReload records a file reload and how long it took.
func (m *Metrics) RecordReload(duration time.Duration, err error) {
	m.reloads.Add(1)
	m.reloadTotalNs.Add(duration.Nanoseconds())
	if err != nil {
		m.reloadErrors.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Commands      uint64
	CommandErrors uint64
	Swaps         uint64
	Reloads       uint64
	ReloadErrors  uint64
	ReloadAvg     time.Duration
	Uptime        time.Duration
}

// Snapshot returns the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Commands:      m.commands.Load(),
		CommandErrors: m.commandErrors.Load(),
		Swaps:         m.swaps.Load(),
		Reloads:       m.reloads.Load(),
		ReloadErrors:  m.reloadErrors.Load(),
		Uptime:        time.Since(m.startTime),
	}
	if s.Reloads > 0 {
		s.ReloadAvg = time.Duration(m.reloadTotalNs.Load() / int64(s.Reloads))
	}
	return s
}
