package gowergo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordMatrixBuild is called after each dissimilarity-matrix build.
	RecordMatrixBuild(records int, duration time.Duration, err error)

	// RecordPartition is called after each PAM run.
	RecordPartition(k int, duration time.Duration, err error)

	// RecordScan is called after each cluster-count scan.
	RecordScan(kMin, kMax int, duration time.Duration, err error)

	// RecordEmbed is called after each 2D embedding run.
	RecordEmbed(records int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMatrixBuild(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPartition(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordEmbed(int, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection,
// useful for debugging without external dependencies.
type BasicMetricsCollector struct {
	MatrixBuilds     atomic.Int64
	MatrixErrors     atomic.Int64
	MatrixTotalNanos atomic.Int64

	Partitions          atomic.Int64
	PartitionErrors     atomic.Int64
	PartitionTotalNanos atomic.Int64

	Scans      atomic.Int64
	ScanErrors atomic.Int64

	Embeds      atomic.Int64
	EmbedErrors atomic.Int64
}

// RecordMatrixBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatrixBuild(_ int, duration time.Duration, err error) {
	b.MatrixBuilds.Add(1)
	b.MatrixTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatrixErrors.Add(1)
	}
}

// RecordPartition implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPartition(_ int, duration time.Duration, err error) {
	b.Partitions.Add(1)
	b.PartitionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PartitionErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(_, _ int, _ time.Duration, err error) {
	b.Scans.Add(1)
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// RecordEmbed implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmbed(_ int, _ time.Duration, err error) {
	b.Embeds.Add(1)
	if err != nil {
		b.EmbedErrors.Add(1)
	}
}
