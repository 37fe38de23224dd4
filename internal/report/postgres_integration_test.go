//go:build integration

package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"catchrec/internal/landings"
	"catchrec/internal/report"
	"catchrec/pkg/sentinel"
	"catchrec/pkg/testutil/containers"
)

type PostgresReportSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *report.PostgresStore
	certs    *report.PostgresCertificates
	updater  *report.PostgresLandingUpdater
}

func TestPostgresReportSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresReportSuite))
}

func (s *PostgresReportSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = report.NewPostgres(s.postgres.DB)
	s.certs = report.NewPostgresCertificates(s.postgres.DB)
	s.updater = report.NewPostgresLandingUpdater(s.postgres.DB)
}

func (s *PostgresReportSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"validation_reports", "certificates", "reported_landings")
	s.Require().NoError(err)
}

func (s *PostgresReportSuite) newReport(doc string, docType landings.DocumentType, createdAt time.Time) report.ValidationReport {
	return report.ValidationReport{
		ID:             uuid.NewString(),
		DocumentNumber: doc,
		DocumentType:   docType,
		Payload:        []byte(`{"documentNumber":"` + doc + `"}`),
		Breakdown: []landings.BreakdownEntry{
			{SpeciesCode: "COD", State: "FRE", Presentation: "GUT", Weight: 100, LiveWeight: 120},
		},
		CreatedAt: createdAt,
	}
}

func (s *PostgresReportSuite) TestInsertAndDrainCycle() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	older := s.newReport("CC1", landings.DocTypeCatchCertificate, base.Add(-time.Hour))
	newer := s.newReport("CC2", landings.DocTypeProcessingStatement, base)
	s.Require().NoError(s.store.Insert(ctx, older))
	s.Require().NoError(s.store.Insert(ctx, newer))

	// Oldest first, bounded by limit.
	batch, err := s.store.FindUnprocessed(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(batch, 1)
	s.Equal(older.ID, batch[0].ID)
	s.Equal(landings.DocTypeCatchCertificate, batch[0].DocumentType)
	s.JSONEq(string(older.Payload), string(batch[0].Payload))

	s.Require().NoError(s.store.MarkProcessed(ctx, []string{older.ID}))

	batch, err = s.store.FindUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(batch, 1)
	s.Equal(newer.ID, batch[0].ID)

	s.Require().NoError(s.store.MarkProcessed(ctx, []string{newer.ID}))
	batch, err = s.store.FindUnprocessed(ctx, 10)
	s.Require().NoError(err)
	s.Empty(batch)
}

func (s *PostgresReportSuite) TestMarkProcessedEmptyBatch() {
	s.NoError(s.store.MarkProcessed(context.Background(), nil))
}

func (s *PostgresReportSuite) TestCertificateLookup() {
	ctx := context.Background()
	_, err := s.postgres.DB.ExecContext(ctx, `
		INSERT INTO certificates (document_number, document_type, exporter_name, organisation_id, user_id)
		VALUES ('CC1', 'catchCertificate', 'Ocean Exports Ltd', 'org-1', 'user-1'),
		       ('CC2', 'catchCertificate', NULL, NULL, NULL)
	`)
	s.Require().NoError(err)

	cert, err := s.certs.FindByDocumentNumber(ctx, "CC1")
	s.Require().NoError(err)
	s.Equal("Ocean Exports Ltd", cert.ExporterName)
	s.Equal(landings.DocTypeCatchCertificate, cert.DocumentType)
	s.True(cert.HasExporterDetails())

	// NULL columns coalesce to empty strings.
	cert, err = s.certs.FindByDocumentNumber(ctx, "CC2")
	s.Require().NoError(err)
	s.False(cert.HasExporterDetails())

	_, err = s.certs.FindByDocumentNumber(ctx, "CC-GONE")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresReportSuite) TestLandingUpdaterUpsert() {
	ctx := context.Background()
	rec := landings.ValidatedLandingRecord{
		DocumentNumber: "CC1",
		SpeciesCode:    "COD",
		LandingDate:    time.Date(2019, 7, 10, 0, 0, 0, 0, time.UTC),
		RSSNumber:      "rssWA1",
		Status:         landings.StatusPending,
	}

	s.Require().NoError(s.updater.RunUpdateForLandings(ctx, "CC1", []landings.ValidatedLandingRecord{rec}))

	// Re-running with a new status updates in place rather than duplicating.
	rec.Status = landings.StatusElog
	s.Require().NoError(s.updater.RunUpdateForLandings(ctx, "CC1", []landings.ValidatedLandingRecord{rec}))

	var count int
	var status string
	err := s.postgres.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(status) FROM reported_landings WHERE document_number = 'CC1'`).
		Scan(&count, &status)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.Equal("ELOG", status)
}
