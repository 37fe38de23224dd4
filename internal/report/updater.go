package report

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"catchrec/internal/landings"
)

// PostgresLandingUpdater records the reported status for a certificate's
// landings so the next detector run sees them as already reported.
type PostgresLandingUpdater struct {
	db *sql.DB
}

func NewPostgresLandingUpdater(db *sql.DB) *PostgresLandingUpdater {
	return &PostgresLandingUpdater{db: db}
}

func (u *PostgresLandingUpdater) RunUpdateForLandings(ctx context.Context, documentNumber string, group []landings.ValidatedLandingRecord) error {
	query := `
		INSERT INTO reported_landings (document_number, species_code, landing_date, rss_number, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_number, species_code, landing_date) DO UPDATE SET
			status = EXCLUDED.status
	`
	for _, rec := range group {
		_, err := u.db.ExecContext(ctx, query,
			documentNumber, rec.SpeciesCode, rec.LandingDate, rec.RSSNumber, string(rec.Status))
		if err != nil {
			return fmt.Errorf("update landing status: %w", err)
		}
	}
	return nil
}

// MemoryLandingUpdater records updater calls for tests.
type MemoryLandingUpdater struct {
	mu      sync.Mutex
	updated map[string][]landings.ValidatedLandingRecord
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryLandingUpdater() *MemoryLandingUpdater {
	return &MemoryLandingUpdater{updated: make(map[string][]landings.ValidatedLandingRecord)}
}

func (u *MemoryLandingUpdater) RunUpdateForLandings(_ context.Context, documentNumber string, group []landings.ValidatedLandingRecord) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	u.updated[documentNumber] = append(u.updated[documentNumber], group...)
	return nil
}

// Updated returns the landings recorded for a certificate.
func (u *MemoryLandingUpdater) Updated(documentNumber string) []landings.ValidatedLandingRecord {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]landings.ValidatedLandingRecord(nil), u.updated[documentNumber]...)
}
