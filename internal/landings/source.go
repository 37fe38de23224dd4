package landings

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Source supplies the validated landing records and this run's observed
// landings. The validation itself happens upstream; this core only reads its
// output.
type Source interface {
	FetchValidated(ctx context.Context, ref time.Time) ([]ValidatedLandingRecord, error)
	FetchObserved(ctx context.Context, ref time.Time) ([]ObservedLanding, error)
}

// PostgresSource reads the upstream query layer's output tables.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) FetchValidated(ctx context.Context, ref time.Time) ([]ValidatedLandingRecord, error) {
	query := `
		SELECT document_number, species_code, state, presentation, landing_date,
		       rss_number, pln, source, status, weight, live_weight, risk_score,
		       COALESCE(exporter_account_id, ''), COALESCE(exporter_contact_id, ''),
		       is_overused_this_cert, exceeds_time_limit
		FROM validated_landings
		WHERE landing_date >= $1
	`
	rows, err := s.db.QueryContext(ctx, query, ref.AddDate(0, 0, -31))
	if err != nil {
		return nil, fmt.Errorf("fetch validated landings: %w", err)
	}
	defer rows.Close()

	var out []ValidatedLandingRecord
	for rows.Next() {
		var rec ValidatedLandingRecord
		var status string
		var riskScore sql.NullFloat64
		err := rows.Scan(&rec.DocumentNumber, &rec.SpeciesCode, &rec.State, &rec.Presentation,
			&rec.LandingDate, &rec.RSSNumber, &rec.PLN, &rec.Source, &status,
			&rec.Weight, &rec.LiveWeight, &riskScore,
			&rec.ExporterAccountID, &rec.ExporterContactID,
			&rec.IsOverusedThisCert, &rec.ExceedsTimeLimit)
		if err != nil {
			return nil, fmt.Errorf("scan validated landing: %w", err)
		}
		rec.Status = Status(status)
		if riskScore.Valid {
			v := riskScore.Float64
			rec.RiskScore = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validated landings: %w", err)
	}
	return out, nil
}

func (s *PostgresSource) FetchObserved(ctx context.Context, ref time.Time) ([]ObservedLanding, error) {
	query := `
		SELECT landing_date, rss_number, source, ignore_flag
		FROM observed_landings
		WHERE landing_date >= $1
	`
	rows, err := s.db.QueryContext(ctx, query, ref.AddDate(0, 0, -31))
	if err != nil {
		return nil, fmt.Errorf("fetch observed landings: %w", err)
	}
	defer rows.Close()

	var out []ObservedLanding
	for rows.Next() {
		var o ObservedLanding
		if err := rows.Scan(&o.LandingDate, &o.RSSNumber, &o.Source, &o.Ignore); err != nil {
			return nil, fmt.Errorf("scan observed landing: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observed landings: %w", err)
	}
	return out, nil
}
