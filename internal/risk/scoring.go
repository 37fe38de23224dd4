// Package risk computes per-dimension and composite risk scores over the
// reference data cache. All functions are pure lookups and arithmetic; no I/O,
// no side effects.
package risk

import "catchrec/internal/refdata"

// Level is the high/low classification of a composite score.
type Level string

const (
	High Level = "HIGH"
	Low  Level = "LOW"
)

// Scorer evaluates risk against a reference data cache.
type Scorer struct {
	cache *refdata.Cache
}

// NewScorer wraps a cache. The cache may still be unpopulated; every lookup
// then serves its documented default.
func NewScorer(cache *refdata.Cache) *Scorer {
	return &Scorer{cache: cache}
}

// SpeciesScore returns the cached species risk score, 0.5 when unknown or
// unscored.
func (s *Scorer) SpeciesScore(code string) float64 {
	return s.cache.LookupSpeciesRisk(code)
}

// VesselScore returns 1.0 for a vessel of interest, 0.5 otherwise.
func (s *Scorer) VesselScore(pln string) float64 {
	return s.cache.LookupVesselOfInterestScore(pln)
}

// ExporterScore returns the specificity-matched exporter behaviour score,
// neutral 1.0 when no row matches.
func (s *Scorer) ExporterScore(accountID, contactID string) float64 {
	return s.cache.LookupExporterRisk(accountID, contactID)
}

// CompositeScore returns the pre-supplied score when present, otherwise the
// weighted sum of the three dimension scores. An all-zero weighting collapses
// the composite to zero: a valid "always low risk until configured" state.
func (s *Scorer) CompositeScore(presupplied *float64, pln, speciesCode, accountID, contactID string) float64 {
	if presupplied != nil {
		return *presupplied
	}
	w := s.cache.Weighting()
	return s.VesselScore(pln)*w.VesselWeight +
		s.SpeciesScore(speciesCode)*w.SpeciesWeight +
		s.ExporterScore(accountID, contactID)*w.ExporterWeight
}

// Classify maps a score to High when it meets the threshold, Low otherwise.
func Classify(score, threshold float64) Level {
	if score >= threshold {
		return High
	}
	return Low
}

// ToLiveWeightFactor returns the conversion factor used to derive live weight
// for exceedance calculations, 1.0 when the triple is not cached.
func (s *Scorer) ToLiveWeightFactor(species, state, presentation string) float64 {
	return s.cache.LookupConversionFactor(species, state, presentation)
}
