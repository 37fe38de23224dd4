package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"catchrec/internal/extdata"
	"catchrec/internal/landings"
	"catchrec/internal/platform/metrics"
	"catchrec/internal/risk"
)

// Service orchestrates per-certificate reporting. The per-certificate loop is
// strictly sequential so log ordering and error isolation stay deterministic
// per run; certificate counts per run are small batches, not firehose volumes.
type Service struct {
	certs      CertificateStore
	store      Store
	mapper     Mapper
	updater    LandingUpdater
	dispatcher CaseDispatcher
	salesNotes extdata.SalesNoteStore
	scorer     *risk.Scorer
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the clock function for testability.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New wires the orchestrator. Every collaborator except metrics is required.
func New(certs CertificateStore, store Store, mapper Mapper, updater LandingUpdater, dispatcher CaseDispatcher, salesNotes extdata.SalesNoteStore, scorer *risk.Scorer, opts ...Option) (*Service, error) {
	if certs == nil {
		return nil, fmt.Errorf("certificate store is required")
	}
	if store == nil {
		return nil, fmt.Errorf("report store is required")
	}
	if mapper == nil {
		return nil, fmt.Errorf("report mapper is required")
	}
	if updater == nil {
		return nil, fmt.Errorf("landing updater is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("case dispatcher is required")
	}
	if salesNotes == nil {
		return nil, fmt.Errorf("sales note store is required")
	}
	if scorer == nil {
		return nil, fmt.Errorf("risk scorer is required")
	}
	s := &Service{
		certs:      certs,
		store:      store,
		mapper:     mapper,
		updater:    updater,
		dispatcher: dispatcher,
		salesNotes: salesNotes,
		scorer:     scorer,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ReportLandings groups the input by document number and invokes reportFn per
// group. A failure for one certificate is logged with its id and the loop
// continues; it never aborts the batch. After a successful report the landing
// updater runs for that certificate; its errors are logged independently.
func (s *Service) ReportLandings(ctx context.Context, recs []landings.ValidatedLandingRecord, reportFn ReportFunc, label string) []Outcome {
	groups := landings.GroupByCertificate(recs)
	outcomes := make([]Outcome, 0, len(groups))
	for _, group := range groups {
		err := reportFn(ctx, group.Landings)
		if err != nil {
			s.logger.ErrorContext(ctx, "certificate report failed",
				"label", label,
				"documentNumber", group.DocumentNumber,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.CertificatesFailed.Inc()
			}
			outcomes = append(outcomes, Outcome{DocumentNumber: group.DocumentNumber, Err: err})
			continue
		}
		if s.metrics != nil {
			s.metrics.CertificatesOK.Inc()
		}
		if err := s.updater.RunUpdateForLandings(ctx, group.DocumentNumber, group.Landings); err != nil {
			s.logger.ErrorContext(ctx, "landing status update failed",
				"label", label,
				"documentNumber", group.DocumentNumber,
				"error", err,
			)
		}
		outcomes = append(outcomes, Outcome{DocumentNumber: group.DocumentNumber})
	}
	return outcomes
}

// ReportSubmitted reports one certificate's newly-submitted landings: fetch
// the owning certificate, map and persist the report, then enrich and dispatch
// to case management when the certificate carries exporter details. Stage
// failures are returned with the stage name; the grouping level catches them.
func (s *Service) ReportSubmitted(ctx context.Context, group []landings.ValidatedLandingRecord) error {
	if len(group) == 0 {
		return nil
	}
	cert, err := s.reportCertificate(ctx, group)
	if err != nil {
		return err
	}
	if !cert.HasExporterDetails() {
		s.logger.InfoContext(ctx, "certificate has no exporter details, skipping dispatch",
			"documentNumber", cert.DocumentNumber)
		return nil
	}
	enriched := s.annotateSalesNotes(ctx, group)
	if err := s.dispatcher.Dispatch(ctx, cert, enriched, "cc-submitted"); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// Report14DayLimitReached handles the 14-day-exceeded escalation path. An
// empty batch skips entirely; a certificate without exporter details logs and
// exits without dispatch.
func (s *Service) Report14DayLimitReached(ctx context.Context, group []landings.ValidatedLandingRecord) error {
	if len(group) == 0 {
		return nil
	}
	cert, err := s.reportCertificate(ctx, group)
	if err != nil {
		return err
	}
	if !cert.HasExporterDetails() {
		s.logger.ErrorContext(ctx, "certificate has no exporter details, cannot escalate",
			"documentNumber", cert.DocumentNumber)
		return nil
	}
	enriched := s.annotateSalesNotes(ctx, group)
	if err := s.dispatcher.Dispatch(ctx, cert, enriched, "cc-14-day-limit"); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// reportCertificate runs the fetch, map, attach, persist stages shared by both
// reporting paths.
func (s *Service) reportCertificate(ctx context.Context, group []landings.ValidatedLandingRecord) (landings.Certificate, error) {
	documentNumber := group[0].DocumentNumber

	cert, err := s.certs.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		return landings.Certificate{}, fmt.Errorf("fetch certificate: %w", err)
	}

	payload, err := s.mapper.MapToReport(cert, group)
	if err != nil {
		return landings.Certificate{}, fmt.Errorf("map report: %w", err)
	}

	rec := ValidationReport{
		ID:             uuid.NewString(),
		DocumentNumber: cert.DocumentNumber,
		DocumentType:   cert.DocumentType,
		Payload:        payload,
		Breakdown:      s.breakdown(group),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return landings.Certificate{}, fmt.Errorf("persist report: %w", err)
	}
	return cert, nil
}

// breakdown aggregates landing weights by species, state and presentation,
// converting to live weight with the cached conversion factors.
func (s *Service) breakdown(group []landings.ValidatedLandingRecord) []landings.BreakdownEntry {
	index := make(map[string]int)
	var entries []landings.BreakdownEntry
	for _, rec := range group {
		key := rec.SpeciesCode + "|" + rec.State + "|" + rec.Presentation
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, landings.BreakdownEntry{
				SpeciesCode:  rec.SpeciesCode,
				State:        rec.State,
				Presentation: rec.Presentation,
			})
		}
		factor := s.scorer.ToLiveWeightFactor(rec.SpeciesCode, rec.State, rec.Presentation)
		entries[i].Weight += rec.Weight
		entries[i].LiveWeight += rec.Weight * factor
	}
	return entries
}

// annotateSalesNotes sets HasSalesNote per landing by probing extended-data
// storage. Invalid dates and blank RSS numbers skip the probe; probe errors
// log and leave the record unenriched. Nothing here throws.
func (s *Service) annotateSalesNotes(ctx context.Context, group []landings.ValidatedLandingRecord) []landings.ValidatedLandingRecord {
	out := append([]landings.ValidatedLandingRecord(nil), group...)
	for i := range out {
		if out[i].LandingDate.IsZero() {
			s.logger.InfoContext(ctx, "invalid landing date, skipping sales note probe",
				"documentNumber", out[i].DocumentNumber)
			continue
		}
		if out[i].RSSNumber == "" {
			s.logger.InfoContext(ctx, "blank rss number, skipping sales note probe",
				"documentNumber", out[i].DocumentNumber)
			continue
		}
		has, err := s.salesNotes.HasSalesNote(ctx, out[i].LandingDate, out[i].RSSNumber)
		if err != nil {
			s.logger.ErrorContext(ctx, "sales note probe failed",
				"documentNumber", out[i].DocumentNumber,
				"rssNumber", out[i].RSSNumber,
				"error", err,
			)
			continue
		}
		out[i].HasSalesNote = &has
	}
	return out
}
