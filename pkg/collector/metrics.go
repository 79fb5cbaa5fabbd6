package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamharvest_batches_written_total",
			Help: "Total number of batches appended to the output sink",
		},
		[]string{"source"},
	)

	batchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamharvest_batch_duration_seconds",
			Help:    "Wall time per batch, including per-item pauses and the checkpoint write",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"source"},
	)

	recordsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamharvest_records_written_total",
			Help: "Total number of records appended to the output sink",
		},
		[]string{"source"},
	)

	placeholdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamharvest_placeholders_total",
			Help: "Total number of placeholder records written for items that failed to parse",
		},
		[]string{"source"},
	)

	checkpointValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steamharvest_checkpoint_value",
			Help: "Cursor value persisted after the most recent batch",
		},
		[]string{"source"},
	)
)
