package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"catchrec/internal/landings"
	"catchrec/internal/refdata"
)

// =============================================================================
// Update Detector Test Suite
// =============================================================================
// Justification for unit tests: the per-status inclusion rules interact with
// the ignore flag and the 14-day escalation in ways that are hard to exercise
// end to end; each branch is pinned here.

type DetectorSuite struct {
	suite.Suite
	cache    *refdata.Cache
	detector *Detector
	ref      time.Time
}

func TestDetectorSuite(t *testing.T) {
	suite.Run(t, new(DetectorSuite))
}

func (s *DetectorSuite) SetupTest() {
	s.cache = refdata.New()
	var err error
	s.detector, err = New(s.cache)
	s.Require().NoError(err)
	s.ref = time.Date(2019, 7, 12, 10, 0, 0, 0, time.UTC)
}

func (s *DetectorSuite) record(status landings.Status) landings.ValidatedLandingRecord {
	return landings.ValidatedLandingRecord{
		DocumentNumber: "GBR-2019-CC-1",
		SpeciesCode:    "COD",
		LandingDate:    time.Date(2019, 7, 10, 0, 0, 0, 0, time.UTC),
		RSSNumber:      "rssWA1",
		PLN:            "PH1100",
		Source:         "CatchRecording",
		Status:         status,
	}
}

func (s *DetectorSuite) observed(ignore bool) landings.ObservedLanding {
	return landings.ObservedLanding{
		LandingDate: time.Date(2019, 7, 10, 14, 30, 0, 0, time.UTC),
		RSSNumber:   "rssWA1",
		Source:      "CatchRecording",
		Ignore:      ignore,
	}
}

// markHighRisk configures the cache so any composite score classifies High.
func (s *DetectorSuite) markHighRisk() {
	s.cache.ReplaceWeighting(refdata.RiskWeighting{SpeciesWeight: 1, Threshold: 0.4})
	score := 0.9
	s.cache.ReplaceSpecies([]refdata.Species{{Code: "COD", RiskScore: &score}})
}

func (s *DetectorSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
}

// =============================================================================
// Pending
// =============================================================================

func (s *DetectorSuite) TestPending() {
	s.Run("included when a matching observed landing exists", func() {
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{s.record(landings.StatusPending)},
			[]landings.ObservedLanding{s.observed(false)}, s.ref)
		s.Len(out, 1)
	})

	s.Run("included regardless of the ignore flag", func() {
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{s.record(landings.StatusPending)},
			[]landings.ObservedLanding{s.observed(true)}, s.ref)
		s.Len(out, 1)
	})

	s.Run("excluded without a matching observed landing", func() {
		other := s.observed(false)
		other.RSSNumber = "rssXX9"
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{s.record(landings.StatusPending)},
			[]landings.ObservedLanding{other}, s.ref)
		s.Empty(out)
	})

	s.Run("match requires same source", func() {
		other := s.observed(false)
		other.Source = "Elog"
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{s.record(landings.StatusPending)},
			[]landings.ObservedLanding{other}, s.ref)
		s.Empty(out)
	})
}

// =============================================================================
// Overuse and Elog
// =============================================================================

func (s *DetectorSuite) TestHighRiskOveruse() {
	s.markHighRisk()

	s.Run("ignored overuse not yet escalated is excluded", func() {
		rec := s.record(landings.StatusLandingOveruse)
		rec.IsOverusedThisCert = false
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(true)}, s.ref)
		s.Empty(out)
	})

	s.Run("unacknowledged overuse is included", func() {
		rec := s.record(landings.StatusLandingOveruse)
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(false)}, s.ref)
		s.Len(out, 1)
	})

	s.Run("low risk overuse is excluded even when unacknowledged", func() {
		s.cache.ReplaceWeighting(refdata.RiskWeighting{SpeciesWeight: 1, Threshold: 2})
		rec := s.record(landings.StatusLandingOveruse)
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(false)}, s.ref)
		s.Empty(out)
	})
}

func (s *DetectorSuite) TestElogEscalation() {
	s.Run("escalation overrides the ignore flag", func() {
		rec := s.record(landings.StatusElog)
		rec.ExceedsTimeLimit = true
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(true)}, s.ref)
		s.Len(out, 1)
	})

	s.Run("ignored elog without escalation is excluded", func() {
		rec := s.record(landings.StatusElog)
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(true)}, s.ref)
		s.Empty(out)
	})

	s.Run("escalated overuse does not override ignore, only elog does", func() {
		s.markHighRisk()
		rec := s.record(landings.StatusLandingOveruse)
		rec.ExceedsTimeLimit = true
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{s.observed(true)}, s.ref)
		s.Empty(out)
	})
}

// =============================================================================
// Window and Status Filters
// =============================================================================

func (s *DetectorSuite) TestRetrospectiveWindow() {
	s.Run("landing older than 14 days is excluded", func() {
		rec := s.record(landings.StatusPending)
		rec.LandingDate = s.ref.AddDate(0, 0, -20)
		obs := s.observed(false)
		obs.LandingDate = rec.LandingDate
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{obs}, s.ref)
		s.Empty(out)
	})

	s.Run("same-day landing is inside the window", func() {
		rec := s.record(landings.StatusPending)
		rec.LandingDate = s.ref
		obs := s.observed(false)
		obs.LandingDate = s.ref
		out := s.detector.DetectNew(
			[]landings.ValidatedLandingRecord{rec},
			[]landings.ObservedLanding{obs}, s.ref)
		s.Len(out, 1)
	})
}

func (s *DetectorSuite) TestOtherStatusesExcluded() {
	rec := s.record(landings.Status("SOMETHING_ELSE"))
	out := s.detector.DetectNew(
		[]landings.ValidatedLandingRecord{rec},
		[]landings.ObservedLanding{s.observed(false)}, s.ref)
	s.Empty(out)
}
