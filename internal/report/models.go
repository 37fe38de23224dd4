package report

import (
	"time"

	"catchrec/internal/landings"
)

// ValidationReport is the persisted outcome of reporting one certificate. The
// drain loop later snapshots unprocessed rows to object storage.
type ValidationReport struct {
	ID             string
	DocumentNumber string
	DocumentType   landings.DocumentType
	Payload        []byte
	Breakdown      []landings.BreakdownEntry
	CreatedAt      time.Time
	Processed      bool
}

// Outcome is the per-certificate result of a grouped reporting run. Err is nil
// when the certificate was reported successfully.
type Outcome struct {
	DocumentNumber string
	Err            error
}

// Failed returns the outcomes whose report call failed.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
