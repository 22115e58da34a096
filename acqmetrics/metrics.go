// Package acqmetrics exposes Prometheus counters and gauges for the
// acquisition runtime: frames committed, dropped and appended per stream,
// ring occupancy, and stream state. cmd/acqd serves these on /metrics; the
// shapes and promauto usage follow the pack's existing Prometheus
// instrumentation style.
package acqmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acquire_frames_committed_total",
			Help: "Total frames successfully committed to the ring, by stream",
		},
		[]string{"stream_id"},
	)

	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acquire_frames_dropped_total",
			Help: "Total frames the producer could not reserve ring space for, by stream",
		},
		[]string{"stream_id"},
	)

	FramesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acquire_frames_appended_total",
			Help: "Total frames handed to a storage sink's Append, by stream",
		},
		[]string{"stream_id"},
	)

	RingOccupancyBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "acquire_ring_occupancy_bytes",
			Help: "Bytes currently unread by the gating consumer reader, by stream",
		},
		[]string{"stream_id"},
	)

	StreamState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "acquire_stream_state",
			Help: "Current controller state for the stream (enumerated: 0=uninit,1=idle,2=configured,3=armed,4=running)",
		},
		[]string{"stream_id"},
	)
)
