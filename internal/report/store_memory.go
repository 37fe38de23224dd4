package report

import (
	"context"
	"sync"

	"catchrec/internal/landings"
)

// MemoryStore keeps validation reports in memory for tests and local runs. It
// implements the same surface as PostgresStore.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []ValidationReport
	// InsertErr, when set, is returned by Insert.
	InsertErr error
	// MarkErr, when set, is returned by MarkProcessed.
	MarkErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, rec ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.reports = append(s.reports, rec)
	return nil
}

func (s *MemoryStore) FindUnprocessed(_ context.Context, limit int) ([]landings.UnprocessedValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []landings.UnprocessedValidationReport
	for _, rec := range s.reports {
		if rec.Processed {
			continue
		}
		out = append(out, landings.UnprocessedValidationReport{
			ID:           rec.ID,
			DocumentType: rec.DocumentType,
			Payload:      rec.Payload,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkProcessed(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return s.MarkErr
	}
	marked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}
	for i := range s.reports {
		if _, ok := marked[s.reports[i].ID]; ok {
			s.reports[i].Processed = true
		}
	}
	return nil
}

// Reports returns a copy of everything inserted so far.
func (s *MemoryStore) Reports() []ValidationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ValidationReport(nil), s.reports...)
}

// Seed inserts a report directly, bypassing error injection.
func (s *MemoryStore) Seed(rec ValidationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, rec)
}
