// Package rules holds the contracts this core consumes from the external rule
// library. The boundary functions are specified by shape only; their internals
// are owned elsewhere and must not be re-derived here.
package rules

import (
	"time"

	"catchrec/internal/landings"
)

// WindowRule decides whether a landing's status change is still eligible for
// reporting at the given reference time.
type WindowRule interface {
	InWindow(rec landings.ValidatedLandingRecord, ref time.Time) bool
}

// RetrospectiveDays is the documented width of the reporting window.
const RetrospectiveDays = 14

// StdWindowRule applies the documented retrospective window: 14 days back from
// the start of the reference day, with a same-day cutoff at the top end. The
// exact boundary is the rule library's contract, treated as given.
type StdWindowRule struct{}

func (StdWindowRule) InWindow(rec landings.ValidatedLandingRecord, ref time.Time) bool {
	refDay := startOfDay(ref)
	landed := startOfDay(rec.LandingDate)
	if landed.After(refDay) {
		return false
	}
	return !landed.Before(refDay.AddDate(0, 0, -RetrospectiveDays))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
