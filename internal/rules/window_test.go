package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"catchrec/internal/landings"
	"catchrec/internal/rules"
)

func TestStdWindowRule(t *testing.T) {
	rule := rules.StdWindowRule{}
	ref := time.Date(2019, 7, 15, 16, 45, 0, 0, time.UTC)

	rec := func(landed time.Time) landings.ValidatedLandingRecord {
		return landings.ValidatedLandingRecord{LandingDate: landed}
	}

	cases := []struct {
		name   string
		landed time.Time
		want   bool
	}{
		{"same day", time.Date(2019, 7, 15, 23, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2019, 7, 14, 0, 0, 0, 0, time.UTC), true},
		{"exactly 14 days back", time.Date(2019, 7, 1, 8, 0, 0, 0, time.UTC), true},
		{"15 days back", time.Date(2019, 6, 30, 23, 59, 0, 0, time.UTC), false},
		{"day after reference", time.Date(2019, 7, 16, 0, 0, 1, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rule.InWindow(rec(tc.landed), ref))
		})
	}

	t.Run("boundaries compare on utc days", func(t *testing.T) {
		// 23:30 UTC-5 on July 1 is July 2 in UTC and stays in window even at
		// the 14-day edge.
		offset := time.FixedZone("UTC-5", -5*60*60)
		landed := time.Date(2019, 7, 1, 23, 30, 0, 0, offset)
		assert.True(t, rule.InWindow(rec(landed), ref))
	})
}
