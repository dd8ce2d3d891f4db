// Package metrics exports per-run collector figures to a Prometheus Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"auction_backend/internal/feature/auctions/usecase"
)

const namespace = "auction_collector"

// RunMetrics holds the gauges describing the latest run.
// A batch job is not scraped, so values are pushed once per run.
type RunMetrics struct {
	registry *prometheus.Registry

	Listings          prometheus.Gauge
	Items             prometheus.Gauge
	PricesWritten     prometheus.Gauge
	StatementsFailed  prometheus.Gauge
	MetadataResolved  prometheus.Gauge
	MetadataPending   prometheus.Gauge
	DurationSeconds   prometheus.Gauge
	LastSuccessUnixTS prometheus.Gauge
}

// NewRunMetrics registers the run gauges on a private registry.
func NewRunMetrics() *RunMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &RunMetrics{
		registry:          prometheus.NewRegistry(),
		Listings:          gauge("listings", "Raw auction listings received in the last run."),
		Items:             gauge("items", "Distinct items after normalization in the last run."),
		PricesWritten:     gauge("prices_written", "Hourly price cells written in the last run."),
		StatementsFailed:  gauge("statements_failed", "Store statements that failed in the last run."),
		MetadataResolved:  gauge("metadata_resolved", "Item names resolved by the last backfill."),
		MetadataPending:   gauge("metadata_pending", "Items still waiting for a name after the last run."),
		DurationSeconds:   gauge("duration_seconds", "Wall time of the last run."),
		LastSuccessUnixTS: gauge("last_success_timestamp_seconds", "Unix time of the last successful run."),
	}
	m.registry.MustRegister(
		m.Listings, m.Items, m.PricesWritten, m.StatementsFailed,
		m.MetadataResolved, m.MetadataPending, m.DurationSeconds, m.LastSuccessUnixTS,
	)
	return m
}

// Observe copies a run report into the gauges.
func (m *RunMetrics) Observe(r usecase.RunReport, finishedAt time.Time) {
	m.Listings.Set(float64(r.Listings))
	m.Items.Set(float64(r.Items))
	m.PricesWritten.Set(float64(r.Upsert.Prices))
	m.StatementsFailed.Set(float64(r.Upsert.Failed + r.Backfill.Failed))
	m.MetadataResolved.Set(float64(r.Backfill.Resolved))
	if r.Backfill.Remaining >= 0 {
		m.MetadataPending.Set(float64(r.Backfill.Remaining))
	}
	m.DurationSeconds.Set(r.Duration.Seconds())
	m.LastSuccessUnixTS.Set(float64(finishedAt.Unix()))
}

// Push replaces the job's metrics on the Pushgateway at url.
func (m *RunMetrics) Push(ctx context.Context, client *http.Client, url, job, instance string) error {
	p := push.New(url, job).Gatherer(m.registry)
	if client != nil {
		p = p.Client(client)
	}
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
