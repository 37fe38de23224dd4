package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"catchrec/internal/landings"
)

// PostgresStore persists validation reports in PostgreSQL. It serves both the
// orchestrator's inserts and the drain loop's unprocessed fetch/mark cycle so
// the two stages share one table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed report store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, rec ValidationReport) error {
	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	query := `
		INSERT INTO validation_reports (id, document_number, document_type, payload, breakdown, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.DocumentNumber, string(rec.DocumentType), rec.Payload, breakdown, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert validation report: %w", err)
	}
	return nil
}

// FindUnprocessed returns up to limit unprocessed reports, oldest first.
func (s *PostgresStore) FindUnprocessed(ctx context.Context, limit int) ([]landings.UnprocessedValidationReport, error) {
	query := `
		SELECT id, document_type, payload
		FROM validation_reports
		WHERE processed = false
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("find unprocessed reports: %w", err)
	}
	defer rows.Close()

	var out []landings.UnprocessedValidationReport
	for rows.Next() {
		var rec landings.UnprocessedValidationReport
		var docType string
		if err := rows.Scan(&rec.ID, &docType, &rec.Payload); err != nil {
			return nil, fmt.Errorf("scan unprocessed report: %w", err)
		}
		rec.DocumentType = landings.DocumentType(docType)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unprocessed reports: %w", err)
	}
	return out, nil
}

// MarkProcessed flips the processed flag for every id in the batch.
func (s *PostgresStore) MarkProcessed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE validation_reports SET processed = true WHERE id = ANY($1)`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("mark reports processed: %w", err)
	}
	return nil
}
