package report

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"catchrec/internal/landings"
	"catchrec/pkg/sentinel"
)

// PostgresCertificates resolves certificates from the document store.
type PostgresCertificates struct {
	db *sql.DB
}

func NewPostgresCertificates(db *sql.DB) *PostgresCertificates {
	return &PostgresCertificates{db: db}
}

func (s *PostgresCertificates) FindByDocumentNumber(ctx context.Context, documentNumber string) (landings.Certificate, error) {
	query := `
		SELECT document_number, document_type, COALESCE(exporter_name, ''), COALESCE(organisation_id, ''), COALESCE(user_id, '')
		FROM certificates
		WHERE document_number = $1
	`
	var cert landings.Certificate
	var docType string
	err := s.db.QueryRowContext(ctx, query, documentNumber).Scan(
		&cert.DocumentNumber, &docType, &cert.ExporterName, &cert.OrganisationID, &cert.UserID)
	if err == sql.ErrNoRows {
		return landings.Certificate{}, fmt.Errorf("certificate %s: %w", documentNumber, sentinel.ErrNotFound)
	}
	if err != nil {
		return landings.Certificate{}, fmt.Errorf("find certificate %s: %w", documentNumber, err)
	}
	cert.DocumentType = landings.DocumentType(docType)
	return cert, nil
}

// MemoryCertificates is an in-memory CertificateStore for tests.
type MemoryCertificates struct {
	mu    sync.RWMutex
	certs map[string]landings.Certificate
	// Err, when set, is returned by every lookup.
	Err error
}

func NewMemoryCertificates() *MemoryCertificates {
	return &MemoryCertificates{certs: make(map[string]landings.Certificate)}
}

// Add registers a certificate.
func (s *MemoryCertificates) Add(cert landings.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certs[cert.DocumentNumber] = cert
}

func (s *MemoryCertificates) FindByDocumentNumber(_ context.Context, documentNumber string) (landings.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return landings.Certificate{}, s.Err
	}
	if cert, ok := s.certs[documentNumber]; ok {
		return cert, nil
	}
	return landings.Certificate{}, fmt.Errorf("certificate %s: %w", documentNumber, sentinel.ErrNotFound)
}
