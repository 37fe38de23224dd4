package refdata

import "time"

// Species is one row of the reference species list. RiskScore is nil when the
// upstream feed carries no numeric score for the code.
type Species struct {
	Code      string   `json:"faoCode"`
	Name      string   `json:"reportingName"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Vessel is one historical licence row for a registered vessel. A PLN can
// appear many times with different validity ranges.
type Vessel struct {
	PLN              string    `json:"pln"`
	Name             string    `json:"vesselName"`
	RSSNumber        string    `json:"rssNumber"`
	LicenceValidFrom time.Time `json:"licenceValidFrom"`
	LicenceValidTo   time.Time `json:"licenceValidTo"`
}

// ConversionFactor maps a (species, state, presentation) triple to the factor
// used to convert recorded weight to live weight. Factor is nil when the feed
// value was missing or non-numeric.
type ConversionFactor struct {
	SpeciesCode  string   `json:"speciesCode"`
	State        string   `json:"state"`
	Presentation string   `json:"presentation"`
	Factor       *float64 `json:"factor,omitempty"`
}

// ExporterBehaviour is a risk row keyed by exporter account and contact. An
// empty ContactID marks the account-wide "all other contacts" fallback row; an
// empty AccountID marks an individual with no account.
type ExporterBehaviour struct {
	AccountID string  `json:"accountId"`
	ContactID string  `json:"contactId"`
	Score     float64 `json:"score"`
}

// RiskWeighting holds the composite-score weights and the high/low threshold.
// The zero value is the sentinel default before the first refresh; a zero
// weighting is a valid "always low risk until configured" state.
type RiskWeighting struct {
	ExporterWeight float64 `json:"exporterWeight"`
	VesselWeight   float64 `json:"vesselWeight"`
	SpeciesWeight  float64 `json:"speciesWeight"`
	Threshold      float64 `json:"threshold"`
}

// IsZero reports whether the weighting is still the unconfigured default.
func (w RiskWeighting) IsZero() bool {
	return w == RiskWeighting{}
}

// Lookup defaults per dimension. Unknown and known-but-unscored species are
// deliberately conflated at 0.5; callers must not read deeper semantics into
// the default.
const (
	DefaultSpeciesRisk      = 0.5
	DefaultExporterRisk     = 1.0
	DefaultConversionFactor = 1.0
	VesselOfInterestScore   = 1.0
	VesselNotOfInterest     = 0.5
)

// VesselLookupKind tags the outcome of a historical vessel lookup.
type VesselLookupKind int

const (
	// VesselFound means a licence row covering the as-of date was resolved.
	VesselFound VesselLookupKind = iota
	// VesselNotFoundSentinel means no row matched and the configured sentinel
	// vessel was substituted (vessel-not-found feature enabled).
	VesselNotFoundSentinel
	// VesselNotFound means no row matched and no sentinel is configured.
	VesselNotFound
)

// VesselLookupResult is the tagged outcome of Cache.LookupVessel. Callers
// decide behaviour per variant instead of relying on a pre-injected fake row.
type VesselLookupResult struct {
	Kind   VesselLookupKind
	Vessel Vessel
}
