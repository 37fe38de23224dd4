package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	LandingsDetected    prometheus.Counter
	CertificatesOK      prometheus.Counter
	CertificatesFailed  prometheus.Counter
	TradeExportsSent    prometheus.Counter
	TradeExportsInvalid prometheus.Counter
	SnapshotsWritten    *prometheus.CounterVec
	ReportsDrained      prometheus.Counter
	RefreshFailures     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LandingsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_landings_detected_total",
			Help: "Validated landings the update detector marked reportable",
		}),
		CertificatesOK: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_certificates_reported_total",
			Help: "Certificates reported successfully",
		}),
		CertificatesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_certificates_failed_total",
			Help: "Certificates whose report call failed and was isolated",
		}),
		TradeExportsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_trade_exports_published_total",
			Help: "Trade export payloads published to the queue",
		}),
		TradeExportsInvalid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_trade_exports_rejected_total",
			Help: "Trade export payloads rejected by schema validation",
		}),
		SnapshotsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catchrec_snapshots_written_total",
			Help: "Report snapshots written to object storage",
		}, []string{"document_type"}),
		ReportsDrained: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_reports_drained_total",
			Help: "Unprocessed validation reports marked processed",
		}),
		RefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catchrec_reference_refresh_failures_total",
			Help: "Reference data refresh cycles that failed",
		}),
	}
}
