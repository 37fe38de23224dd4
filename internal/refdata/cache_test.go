package refdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Reference Data Cache Test Suite
// =============================================================================
// Justification for unit tests: the cache's lookup defaults and specificity
// ordering drive every scoring decision; the exact sentinel values are load
// bearing for the detector and must not drift.

type CacheSuite struct {
	suite.Suite
	cache *Cache
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.cache = New()
}

func f(v float64) *float64 { return &v }

// =============================================================================
// Defaults Before First Refresh
// =============================================================================

func (s *CacheSuite) TestEmptyCacheDefaults() {
	s.Run("weighting is all zero", func() {
		s.Equal(RiskWeighting{}, s.cache.Weighting())
		s.True(s.cache.Weighting().IsZero())
	})

	s.Run("lists are empty", func() {
		s.Empty(s.cache.Species())
		s.Empty(s.cache.Vessels())
	})

	s.Run("toggle is false", func() {
		s.False(s.cache.SpeciesRiskEnabled())
	})

	s.Run("species risk defaults to 0.5", func() {
		s.Equal(0.5, s.cache.LookupSpeciesRisk("COD"))
	})

	s.Run("conversion factor defaults to 1.0", func() {
		s.Equal(1.0, s.cache.LookupConversionFactor("COD", "FRE", "WHL"))
	})

	s.Run("exporter risk defaults to 1.0", func() {
		s.Equal(1.0, s.cache.LookupExporterRisk("", ""))
	})
}

// =============================================================================
// Species Risk
// =============================================================================

func (s *CacheSuite) TestLookupSpeciesRisk() {
	s.cache.ReplaceSpecies([]Species{
		{Code: "COD", Name: "Atlantic cod", RiskScore: f(0.9)},
		{Code: "HAD", Name: "Haddock"},
	})

	s.Run("scored species returns its score", func() {
		s.Equal(0.9, s.cache.LookupSpeciesRisk("COD"))
	})

	s.Run("known but unscored species returns 0.5", func() {
		s.Equal(0.5, s.cache.LookupSpeciesRisk("HAD"))
	})

	s.Run("unknown species also returns 0.5", func() {
		// Unknown and known-but-unscored are indistinguishable by this
		// accessor alone.
		s.Equal(0.5, s.cache.LookupSpeciesRisk("XXX"))
	})

	s.Run("alias resolves to canonical code", func() {
		s.cache.ReplaceSpeciesAliases(map[string]string{"CO1": "COD"})
		s.Equal(0.9, s.cache.LookupSpeciesRisk("CO1"))
	})
}

// =============================================================================
// Conversion Factors
// =============================================================================

func (s *CacheSuite) TestLookupConversionFactor() {
	s.cache.ReplaceConversionFactors([]ConversionFactor{
		{SpeciesCode: "COD", State: "FRE", Presentation: "GUT", Factor: f(1.17)},
		{SpeciesCode: "HAD", State: "FRE", Presentation: "GUT"},
	})

	s.Run("exact triple match returns factor", func() {
		s.Equal(1.17, s.cache.LookupConversionFactor("COD", "FRE", "GUT"))
	})

	s.Run("absent triple returns 1.0", func() {
		s.Equal(1.0, s.cache.LookupConversionFactor("COD", "FRE", "WHL"))
	})

	s.Run("non-numeric factor returns 1.0", func() {
		s.Equal(1.0, s.cache.LookupConversionFactor("HAD", "FRE", "GUT"))
	})
}

// =============================================================================
// Exporter Risk Specificity
// =============================================================================

func (s *CacheSuite) TestLookupExporterRisk() {
	s.cache.ReplaceExporterBehaviour([]ExporterBehaviour{
		{AccountID: "acc1", ContactID: "con2", Score: 0.7},
		{AccountID: "acc1", ContactID: "con3", Score: 0.8},
		{AccountID: "acc1", Score: 0.3},
		{ContactID: "con4", Score: 0.9},
	})

	s.Run("exact account and contact match", func() {
		s.Equal(0.7, s.cache.LookupExporterRisk("acc1", "con2"))
		s.Equal(0.8, s.cache.LookupExporterRisk("acc1", "con3"))
	})

	s.Run("unknown contact falls back to account row", func() {
		s.Equal(0.3, s.cache.LookupExporterRisk("acc1", "con99"))
	})

	s.Run("individual with no account matches contact-only row", func() {
		s.Equal(0.9, s.cache.LookupExporterRisk("", "con4"))
	})

	s.Run("contact known only under an account yields default without account", func() {
		s.Equal(1.0, s.cache.LookupExporterRisk("", "con2"))
	})

	s.Run("nothing known yields neutral 1.0", func() {
		s.Equal(1.0, s.cache.LookupExporterRisk("", ""))
		s.Equal(1.0, s.cache.LookupExporterRisk("acc9", "con9"))
	})
}

// =============================================================================
// Vessels of Interest
// =============================================================================

func (s *CacheSuite) TestLookupVesselOfInterestScore() {
	s.cache.ReplaceVesselsOfInterest([]string{"PH1100"})

	s.Equal(1.0, s.cache.LookupVesselOfInterestScore("PH1100"))
	s.Equal(0.5, s.cache.LookupVesselOfInterestScore("WA1"))
}

// =============================================================================
// Vessel Lookup
// =============================================================================

func (s *CacheSuite) TestLookupVessel() {
	asOf := time.Date(2019, 7, 10, 0, 0, 0, 0, time.UTC)
	s.cache.ReplaceVessels([]Vessel{
		{PLN: "PH1100", Name: "WIRON 5", RSSNumber: "rssWA1",
			LicenceValidFrom: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			LicenceValidTo:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PLN: "PH1100", Name: "WIRON 5 (relicensed)", RSSNumber: "rssWA1",
			LicenceValidFrom: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
			LicenceValidTo:   time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	s.Run("most recent covering licence wins", func() {
		res := s.cache.LookupVessel("PH1100", asOf)
		s.Equal(VesselFound, res.Kind)
		s.Equal("WIRON 5 (relicensed)", res.Vessel.Name)
	})

	s.Run("date outside every licence misses", func() {
		res := s.cache.LookupVessel("PH1100", time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC))
		s.Equal(VesselNotFound, res.Kind)
	})

	s.Run("unknown pln misses", func() {
		res := s.cache.LookupVessel("XX999", asOf)
		s.Equal(VesselNotFound, res.Kind)
	})
}

func (s *CacheSuite) TestSentinelVessel() {
	cache := New(WithSentinelVessel("UNKNOWN VESSEL", "N/A"))
	asOf := time.Date(2019, 7, 10, 0, 0, 0, 0, time.UTC)

	s.Run("miss resolves to the configured sentinel", func() {
		res := cache.LookupVessel("XX999", asOf)
		s.Equal(VesselNotFoundSentinel, res.Kind)
		s.Equal("UNKNOWN VESSEL", res.Vessel.Name)
		s.Equal("N/A", res.Vessel.PLN)
	})

	s.Run("sentinel row is injected on vessel load", func() {
		cache.ReplaceVessels([]Vessel{{PLN: "PH1100", Name: "WIRON 5"}})
		vessels := cache.Vessels()
		s.Len(vessels, 2)
		s.Equal("N/A", vessels[1].PLN)
	})
}

// =============================================================================
// Replace Semantics
// =============================================================================

func (s *CacheSuite) TestReplaceIsIdempotent() {
	rows := []ExporterBehaviour{{AccountID: "acc1", ContactID: "con2", Score: 0.7}}

	s.cache.ReplaceExporterBehaviour(rows)
	first := s.cache.LookupExporterRisk("acc1", "con2")
	s.cache.ReplaceExporterBehaviour(rows)
	second := s.cache.LookupExporterRisk("acc1", "con2")

	s.Equal(first, second)
	s.Equal(0.7, second)
}

func (s *CacheSuite) TestDimensionsAreIndependent() {
	s.cache.ReplaceWeighting(RiskWeighting{SpeciesWeight: 1, Threshold: 0.6})
	s.cache.ReplaceSpecies([]Species{{Code: "COD", RiskScore: f(0.9)}})

	s.cache.ReplaceSpecies(nil)

	// Species replace must not disturb the weighting slot.
	s.Equal(RiskWeighting{SpeciesWeight: 1, Threshold: 0.6}, s.cache.Weighting())
	s.Equal(0.5, s.cache.LookupSpeciesRisk("COD"))
}
