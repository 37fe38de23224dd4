//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// pipeline schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// schema is the full table set the pipeline touches. Integration tests get a
// fresh database per container, so this runs once on startup.
const schema = `
	CREATE TABLE IF NOT EXISTS validated_landings (
		document_number TEXT NOT NULL,
		species_code TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		presentation TEXT NOT NULL DEFAULT '',
		landing_date TIMESTAMPTZ NOT NULL,
		rss_number TEXT NOT NULL DEFAULT '',
		pln TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		live_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_score DOUBLE PRECISION,
		exporter_account_id TEXT NOT NULL DEFAULT '',
		exporter_contact_id TEXT NOT NULL DEFAULT '',
		is_overused_this_cert BOOLEAN NOT NULL DEFAULT false,
		exceeds_time_limit BOOLEAN NOT NULL DEFAULT false
	);

	CREATE TABLE IF NOT EXISTS observed_landings (
		landing_date TIMESTAMPTZ NOT NULL,
		rss_number TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		ignore_flag BOOLEAN NOT NULL DEFAULT false
	);

	CREATE TABLE IF NOT EXISTS certificates (
		document_number TEXT PRIMARY KEY,
		document_type TEXT NOT NULL,
		exporter_name TEXT,
		organisation_id TEXT,
		user_id TEXT
	);

	CREATE TABLE IF NOT EXISTS validation_reports (
		id TEXT PRIMARY KEY,
		document_number TEXT NOT NULL,
		document_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		breakdown JSONB NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reported_landings (
		document_number TEXT NOT NULL,
		species_code TEXT NOT NULL,
		landing_date TIMESTAMPTZ NOT NULL,
		rss_number TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		PRIMARY KEY (document_number, species_code, landing_date)
	);
`

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("catchrec_test"),
		tcpostgres.WithUsername("catchrec"),
		tcpostgres.WithPassword("catchrec"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	t.Cleanup(func() {
		_ = pc.DB.Close()
		_ = pc.Container.Terminate(context.Background())
	})

	return pc
}

// TruncateTables empties the given tables. Use between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", strings.Join(tables, ", ")))
	return err
}
