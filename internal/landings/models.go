package landings

import "time"

// Status classifies a validated landing after the upstream rule evaluation.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusElog           Status = "ELOG"
	StatusLandingOveruse Status = "LANDING_OVERUSE"
)

// DocumentType identifies the certificate family a report belongs to.
type DocumentType string

const (
	DocTypeCatchCertificate    DocumentType = "catchCertificate"
	DocTypeProcessingStatement DocumentType = "processingStatement"
	DocTypeStorageDocument     DocumentType = "storageDocument"
)

// BreakdownEntry is one species/state/presentation weight line attached to a
// certificate report.
type BreakdownEntry struct {
	SpeciesCode  string  `json:"speciesCode"`
	State        string  `json:"state"`
	Presentation string  `json:"presentation"`
	Weight       float64 `json:"weight"`
	LiveWeight   float64 `json:"liveWeight"`
}

// ValidatedLandingRecord is one row per (certificate, species, landing date)
// produced by the upstream query layer. The core never mutates it except for
// the HasSalesNote annotation added during enrichment.
type ValidatedLandingRecord struct {
	DocumentNumber string
	SpeciesCode    string
	State          string
	Presentation   string
	LandingDate    time.Time
	RSSNumber      string
	PLN            string
	Source         string
	Status         Status

	Weight     float64
	LiveWeight float64

	// RiskScore, when non-nil, bypasses the cache-backed composite score.
	RiskScore *float64

	ExporterAccountID string
	ExporterContactID string

	IsOverusedThisCert bool
	ExceedsTimeLimit   bool
	HasSalesNote       *bool
}

// ObservedLanding is a landing seen during the current pipeline run, used by
// the update detector to decide what counts as new.
type ObservedLanding struct {
	LandingDate time.Time
	RSSNumber   string
	Source      string
	Ignore      bool
}

// Matches reports whether the observed landing corresponds to the record on
// the detector's match key: same day, same RSS number, same source.
func (o ObservedLanding) Matches(rec ValidatedLandingRecord) bool {
	return sameDay(o.LandingDate, rec.LandingDate) &&
		o.RSSNumber == rec.RSSNumber &&
		o.Source == rec.Source
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// CertificateReportGroup is a transient grouping of landings by certificate,
// rebuilt every pipeline run.
type CertificateReportGroup struct {
	DocumentNumber string
	Landings       []ValidatedLandingRecord
}

// GroupByCertificate buckets landings by document number, preserving first-seen
// group order and within-group input order.
func GroupByCertificate(records []ValidatedLandingRecord) []CertificateReportGroup {
	index := make(map[string]int, len(records))
	groups := make([]CertificateReportGroup, 0, len(records))
	for _, rec := range records {
		i, ok := index[rec.DocumentNumber]
		if !ok {
			i = len(groups)
			index[rec.DocumentNumber] = i
			groups = append(groups, CertificateReportGroup{DocumentNumber: rec.DocumentNumber})
		}
		groups[i].Landings = append(groups[i].Landings, rec)
	}
	return groups
}

// UnprocessedValidationReport is a persisted report row awaiting the drain
// loop. The core reads it and flips Processed; it never deletes rows.
type UnprocessedValidationReport struct {
	ID           string       `json:"id"`
	DocumentType DocumentType `json:"documentType"`
	Payload      []byte       `json:"payload"`
	Processed    bool         `json:"-"`
}

// Certificate is the owning export document for a group of landings, fetched
// from the document store during reporting.
type Certificate struct {
	DocumentNumber string
	DocumentType   DocumentType
	ExporterName   string
	OrganisationID string
	UserID         string
}

// HasExporterDetails reports whether the certificate carries enough exporter
// identity to dispatch case-management events.
func (c Certificate) HasExporterDetails() bool {
	return c.ExporterName != ""
}
