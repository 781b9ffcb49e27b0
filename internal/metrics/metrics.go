package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedCacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_feed_cache_reads_total",
			Help: "Feed cache page reads by outcome",
		},
		[]string{"outcome"}, // hit, miss, degraded
	)

	feedRefills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_feed_refills_total",
			Help: "Total number of candidate pool refills",
		},
	)

	candidateScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidate_scan_duration_seconds",
			Help:    "Duration of candidate DB scans",
			Buckets: prometheus.DefBuckets,
		},
	)

	candidatesScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidates_scanned",
			Help:    "Pool size returned by candidate scans",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
	)

	premiumDenied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_premium_denied_total",
			Help: "Gated filter requests rejected for missing entitlement",
		},
	)
)

func RecordCacheHit()      { feedCacheReads.WithLabelValues("hit").Inc() }
func RecordCacheMiss()     { feedCacheReads.WithLabelValues("miss").Inc() }
func RecordCacheDegraded() { feedCacheReads.WithLabelValues("degraded").Inc() }
func RecordRefill()        { feedRefills.Inc() }
func RecordPremiumDenied() { premiumDenied.Inc() }

func RecordScan(d time.Duration, poolSize int) {
	candidateScanDuration.Observe(d.Seconds())
	candidatesScanned.Observe(float64(poolSize))
}
