// Package drain moves persisted validation reports into the object-storage
// audit trail in bounded batches.
package drain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"catchrec/internal/blob"
	"catchrec/internal/landings"
	"catchrec/internal/platform/metrics"
)

// Store is the slice of the document store the drain loop needs.
type Store interface {
	FindUnprocessed(ctx context.Context, limit int) ([]landings.UnprocessedValidationReport, error)
	MarkProcessed(ctx context.Context, ids []string) error
}

// docTypePrefixes fixes the bucket order and blob-name prefixes per document
// type.
var docTypePrefixes = []struct {
	docType landings.DocumentType
	prefix  string
}{
	{landings.DocTypeProcessingStatement, "PS"},
	{landings.DocTypeStorageDocument, "SD"},
	{landings.DocTypeCatchCertificate, "CC"},
}

// Drainer snapshots unprocessed reports to object storage and marks them
// processed. The write happens before the mark, so a crash between the two
// re-snapshots the batch next run: delivery is at-least-once and downstream
// consumers must tolerate duplicate files.
type Drainer struct {
	store    Store
	writer   blob.Writer
	env      string
	maxBatch int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures a Drainer.
type Option func(*Drainer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Drainer) { d.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Drainer) { d.metrics = m }
}

// WithClock sets the clock function for testability.
func WithClock(now func() time.Time) Option {
	return func(d *Drainer) {
		if now != nil {
			d.now = now
		}
	}
}

// New wires a drainer. env is the inferred environment segment for blob names;
// maxBatch bounds each fetch.
func New(store Store, writer blob.Writer, env string, maxBatch int, opts ...Option) (*Drainer, error) {
	if store == nil {
		return nil, fmt.Errorf("report store is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("blob writer is required")
	}
	if maxBatch <= 0 {
		return nil, fmt.Errorf("max batch must be positive")
	}
	d := &Drainer{
		store:    store,
		writer:   writer,
		env:      env,
		maxBatch: maxBatch,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ProcessReports drains unprocessed reports until a fetch comes back empty.
// Each batch is partitioned by document type, each non-empty partition is
// written as one JSON snapshot, and the whole fetch batch is then marked
// processed. Any write or mark failure propagates immediately, leaving the
// still-unprocessed rows for the next invocation.
func (d *Drainer) ProcessReports(ctx context.Context) error {
	d.logger.InfoContext(ctx, "draining validation reports", "maxBatch", d.maxBatch)
	for {
		batch, err := d.store.FindUnprocessed(ctx, d.maxBatch)
		if err != nil {
			return fmt.Errorf("fetch unprocessed reports: %w", err)
		}
		if len(batch) == 0 {
			d.logger.InfoContext(ctx, "drain complete, no unprocessed reports remain")
			return nil
		}

		for _, bucket := range docTypePrefixes {
			var part []landings.UnprocessedValidationReport
			for _, rec := range batch {
				if rec.DocumentType == bucket.docType {
					part = append(part, rec)
				}
			}
			if len(part) == 0 {
				continue
			}
			if err := d.snapshot(ctx, bucket.prefix, part); err != nil {
				return err
			}
			d.logger.InfoContext(ctx, "snapshot written",
				"documentType", string(bucket.docType),
				"count", len(part),
			)
			if d.metrics != nil {
				d.metrics.SnapshotsWritten.WithLabelValues(string(bucket.docType)).Inc()
			}
		}

		ids := make([]string, len(batch))
		for i, rec := range batch {
			ids[i] = rec.ID
		}
		if err := d.store.MarkProcessed(ctx, ids); err != nil {
			return fmt.Errorf("mark reports processed: %w", err)
		}
		if d.metrics != nil {
			d.metrics.ReportsDrained.Add(float64(len(ids)))
		}
	}
}

func (d *Drainer) snapshot(ctx context.Context, prefix string, part []landings.UnprocessedValidationReport) error {
	payloads := make([]json.RawMessage, len(part))
	for i, rec := range part {
		payloads[i] = json.RawMessage(rec.Payload)
	}
	text, err := json.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", prefix, err)
	}
	name := d.blobName(prefix)
	if err := d.writer.WriteText(ctx, name, string(text)); err != nil {
		return fmt.Errorf("write %s snapshot: %w", prefix, err)
	}
	return nil
}

// blobName encodes doc-type prefix, environment, and a UTC timestamp to
// millisecond precision: _{prefix}_{ENV}_{yyyyMMdd_HH-mm-ss-SSS}.json
func (d *Drainer) blobName(prefix string) string {
	t := d.now().UTC()
	ts := fmt.Sprintf("%s-%03d", t.Format("20060102_15-04-05"), t.Nanosecond()/int(time.Millisecond))
	return fmt.Sprintf("_%s_%s_%s.json", prefix, d.env, ts)
}
