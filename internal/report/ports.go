// Package report groups detected landings by certificate and reports each
// certificate independently: persistence, case-management dispatch, and the
// 14-day escalation path.
package report

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"catchrec/internal/landings"
)

// CertificateStore resolves the owning certificate document for a group of
// landings.
type CertificateStore interface {
	FindByDocumentNumber(ctx context.Context, documentNumber string) (landings.Certificate, error)
}

// Store persists certificate reports.
type Store interface {
	Insert(ctx context.Context, rec ValidationReport) error
}

// Mapper is the rule-library boundary that turns a certificate plus its
// validation data into the domain report payload. Internals are external;
// only the shape is contracted here.
type Mapper interface {
	MapToReport(cert landings.Certificate, group []landings.ValidatedLandingRecord) ([]byte, error)
}

// LandingUpdater persists the new landing statuses for a certificate after a
// successful report. Its errors are independent of the report call's.
type LandingUpdater interface {
	RunUpdateForLandings(ctx context.Context, documentNumber string, group []landings.ValidatedLandingRecord) error
}

// CaseDispatcher hands an enriched certificate report to case management.
type CaseDispatcher interface {
	Dispatch(ctx context.Context, cert landings.Certificate, group []landings.ValidatedLandingRecord, label string) error
}

// ReportFunc reports one certificate's landings. ReportLandings invokes it per
// group under isolated error handling.
type ReportFunc func(ctx context.Context, group []landings.ValidatedLandingRecord) error
