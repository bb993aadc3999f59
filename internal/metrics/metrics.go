// Package metrics exposes the emulator's server-health counters and
// gauges to Prometheus on a pull basis, grounded on the teacher's
// internal/metrics Collector pattern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/x32emu/x32emu/internal/status"
)

// StatusSource exposes the transport loop's published subscription
// snapshot. Satisfied by *status.Publisher; the metrics collector never
// touches the subscription registry directly (SPEC_FULL.md §5).
type StatusSource interface {
	Load() status.Snapshot
}

// Counters is the set of monotonic event counters accumulated during a
// run. The transport loop increments MessagesReceived,
// MessagesDispatched, BatchCommands, and MeterEmissions; nothing in this
// module increments UnknownAddress, SnapshotWrites, or
// SnapshotWriteErrors, so those metrics stay at zero. A single process-wide
// instance is shared by reference; every field is updated with
// atomic-style single-writer increments from the transport loop's one
// goroutine (spec.md §5), then read concurrently at scrape time.
type Counters struct {
	MessagesReceived      uint64
	MessagesDispatched    uint64
	UnknownAddress        uint64
	MeterEmissions        uint64
	SnapshotWrites        uint64
	SnapshotWriteErrors   uint64
	BatchCommands         uint64
}

// Collector is a prometheus.Collector that gathers x32emu metrics at
// scrape time from the subscription engine and the shared counters.
type Collector struct {
	status    StatusSource
	counters  *Counters
	startTime time.Time

	messagesReceivedDesc   *prometheus.Desc
	messagesDispatchedDesc *prometheus.Desc
	unknownAddressDesc     *prometheus.Desc
	xremoteSubsDesc        *prometheus.Desc
	meterSubsDesc          *prometheus.Desc
	meterEmissionsDesc     *prometheus.Desc
	snapshotWritesDesc     *prometheus.Desc
	snapshotWriteErrsDesc  *prometheus.Desc
	batchCommandsDesc      *prometheus.Desc
	uptimeDesc             *prometheus.Desc
}

// NewCollector creates a metrics collector. src may be nil if the
// transport loop is not yet wired.
func NewCollector(src StatusSource, counters *Counters, startTime time.Time) *Collector {
	return &Collector{
		status:    src,
		counters:  counters,
		startTime: startTime,

		messagesReceivedDesc: prometheus.NewDesc(
			"x32emu_messages_received_total",
			"Total OSC messages received from the UDP socket",
			nil, nil,
		),
		messagesDispatchedDesc: prometheus.NewDesc(
			"x32emu_messages_dispatched_total",
			"Total decoded OSC messages handed to the dispatcher, including unknown addresses",
			nil, nil,
		),
		unknownAddressDesc: prometheus.NewDesc(
			"x32emu_unknown_address_total",
			"Total inbound messages addressed to an unknown OSC address",
			nil, nil,
		),
		xremoteSubsDesc: prometheus.NewDesc(
			"x32emu_xremote_subscribers",
			"Number of currently live /xremote subscribers",
			nil, nil,
		),
		meterSubsDesc: prometheus.NewDesc(
			"x32emu_meter_subscriptions",
			"Number of currently live /meters subscriptions",
			nil, nil,
		),
		meterEmissionsDesc: prometheus.NewDesc(
			"x32emu_meter_emissions_total",
			"Total meter blob messages emitted by the tick pump",
			nil, nil,
		),
		snapshotWritesDesc: prometheus.NewDesc(
			"x32emu_snapshot_writes_total",
			"Total successful snapshot file writes",
			nil, nil,
		),
		snapshotWriteErrsDesc: prometheus.NewDesc(
			"x32emu_snapshot_write_errors_total",
			"Total failed snapshot file writes",
			nil, nil,
		),
		batchCommandsDesc: prometheus.NewDesc(
			"x32emu_batch_commands_total",
			"Total \"/\" batch messages dispatched",
			nil, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			"x32emu_uptime_seconds",
			"Seconds since the x32emu process started",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.messagesReceivedDesc
	ch <- c.messagesDispatchedDesc
	ch <- c.unknownAddressDesc
	ch <- c.xremoteSubsDesc
	ch <- c.meterSubsDesc
	ch <- c.meterEmissionsDesc
	ch <- c.snapshotWritesDesc
	ch <- c.snapshotWriteErrsDesc
	ch <- c.batchCommandsDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.counters != nil {
		ch <- prometheus.MustNewConstMetric(c.messagesReceivedDesc, prometheus.CounterValue, float64(c.counters.MessagesReceived))
		ch <- prometheus.MustNewConstMetric(c.messagesDispatchedDesc, prometheus.CounterValue, float64(c.counters.MessagesDispatched))
		ch <- prometheus.MustNewConstMetric(c.unknownAddressDesc, prometheus.CounterValue, float64(c.counters.UnknownAddress))
		ch <- prometheus.MustNewConstMetric(c.meterEmissionsDesc, prometheus.CounterValue, float64(c.counters.MeterEmissions))
		ch <- prometheus.MustNewConstMetric(c.snapshotWritesDesc, prometheus.CounterValue, float64(c.counters.SnapshotWrites))
		ch <- prometheus.MustNewConstMetric(c.snapshotWriteErrsDesc, prometheus.CounterValue, float64(c.counters.SnapshotWriteErrors))
		ch <- prometheus.MustNewConstMetric(c.batchCommandsDesc, prometheus.CounterValue, float64(c.counters.BatchCommands))
	}

	if c.status != nil {
		snap := c.status.Load()
		ch <- prometheus.MustNewConstMetric(c.xremoteSubsDesc, prometheus.GaugeValue, float64(len(snap.LiveRemotes)))
		ch <- prometheus.MustNewConstMetric(c.meterSubsDesc, prometheus.GaugeValue, float64(len(snap.Meters)))
	}

	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.GaugeValue, time.Since(c.startTime).Seconds())
}
