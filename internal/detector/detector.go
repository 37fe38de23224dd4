// Package detector decides which validated landing records represent a
// reportable change for the current pipeline run.
package detector

import (
	"errors"
	"log/slog"
	"time"

	"catchrec/internal/landings"
	"catchrec/internal/refdata"
	"catchrec/internal/risk"
	"catchrec/internal/rules"
)

var errNilCache = errors.New("reference data cache is required")

// Detector filters a batch of validated landing records down to the "new
// landings" set handed to the reporting orchestrator.
type Detector struct {
	scorer *risk.Scorer
	cache  *refdata.Cache
	window rules.WindowRule
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithWindowRule overrides the retrospective-window rule (tests, rule-library
// upgrades).
func WithWindowRule(rule rules.WindowRule) Option {
	return func(d *Detector) {
		d.window = rule
	}
}

// New builds a detector over the given cache.
func New(cache *refdata.Cache, opts ...Option) (*Detector, error) {
	if cache == nil {
		return nil, errNilCache
	}
	d := &Detector{
		cache:  cache,
		scorer: risk.NewScorer(cache),
		window: rules.StdWindowRule{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DetectNew returns the records that must be reported this run, in input
// order. Each record appears at most once.
//
// Inclusion rules, applied after the retrospective-window filter:
//   - Pending: include iff an observed landing matches on day, RSS number and
//     source. The observed Ignore flag is irrelevant; case management must see
//     first-ever data.
//   - Elog, or LandingOveruse classified High by composite risk: include iff
//     matched AND (the observed landing is not flagged Ignore, OR the record
//     is both exceeding its time limit and has status Elog — the 14-day
//     escalation forces visibility past an acknowledgement).
//   - Any other status: excluded.
func (d *Detector) DetectNew(records []landings.ValidatedLandingRecord, observed []landings.ObservedLanding, ref time.Time) []landings.ValidatedLandingRecord {
	out := make([]landings.ValidatedLandingRecord, 0, len(records))
	for _, rec := range records {
		if !d.window.InWindow(rec, ref) {
			continue
		}
		match, ok := firstMatch(observed, rec)
		if !ok {
			continue
		}
		switch {
		case rec.Status == landings.StatusPending:
			out = append(out, rec)
		case rec.Status == landings.StatusElog || d.isHighRiskOveruse(rec):
			if !match.Ignore || (rec.ExceedsTimeLimit && rec.Status == landings.StatusElog) {
				out = append(out, rec)
			}
		}
	}
	return out
}

func (d *Detector) isHighRiskOveruse(rec landings.ValidatedLandingRecord) bool {
	if rec.Status != landings.StatusLandingOveruse {
		return false
	}
	score := d.scorer.CompositeScore(rec.RiskScore, rec.PLN, rec.SpeciesCode, rec.ExporterAccountID, rec.ExporterContactID)
	return risk.Classify(score, d.cache.Weighting().Threshold) == risk.High
}

func firstMatch(observed []landings.ObservedLanding, rec landings.ValidatedLandingRecord) (landings.ObservedLanding, bool) {
	for _, o := range observed {
		if o.Matches(rec) {
			return o, true
		}
	}
	return landings.ObservedLanding{}, false
}
