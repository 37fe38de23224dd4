package refdata

import (
	"strings"
	"sync/atomic"
	"time"
)

// Cache holds the latest reference-data snapshot, one independently-replaceable
// slot per dimension. Readers always see the last fully-replaced value for a
// dimension because replacement is a single pointer swap; no lock guards the
// dimensions together and there is no cross-dimension invariant.
//
// Every getter is non-blocking and returns a sentinel default (empty list,
// zero weighting, false toggle) until the dimension is first populated.
type Cache struct {
	species     atomic.Pointer[speciesDim]
	vessels     atomic.Pointer[vesselDim]
	factors     atomic.Pointer[factorDim]
	exporters   atomic.Pointer[exporterDim]
	interest    atomic.Pointer[interestDim]
	weighting   atomic.Pointer[RiskWeighting]
	aliases     atomic.Pointer[map[string]string]
	riskEnabled atomic.Bool

	sentinel *Vessel // non-nil when the vessel-not-found feature is enabled
}

// Dimension snapshots carry their source rows plus derived indexes so lookups
// stay O(1) without re-deriving per call.
type speciesDim struct {
	rows  []Species
	index map[string]Species
}

type vesselDim struct {
	rows  []Vessel
	byPLN map[string][]Vessel
}

type factorDim struct {
	rows  []ConversionFactor
	index map[string]ConversionFactor
}

type exporterDim struct {
	rows  []ExporterBehaviour
	index map[string]float64
}

type interestDim struct {
	plns map[string]struct{}
}

// Option configures a Cache.
type Option func(*Cache)

// WithSentinelVessel enables the vessel-not-found feature: lookups that miss
// resolve to this configured vessel, and it is injected as an extra row on
// every vessel replace so downstream joins succeed.
func WithSentinelVessel(name, pln string) Option {
	return func(c *Cache) {
		c.sentinel = &Vessel{PLN: pln, Name: name}
	}
}

// New returns an empty cache. All getters serve defaults until the refresher
// populates the dimensions.
func New(opts ...Option) *Cache {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReplaceSpecies atomically swaps the species dimension.
func (c *Cache) ReplaceSpecies(rows []Species) {
	dim := &speciesDim{rows: rows, index: make(map[string]Species, len(rows))}
	for _, s := range rows {
		dim.index[s.Code] = s
	}
	c.species.Store(dim)
}

// ReplaceVessels atomically swaps the vessel dimension. When the sentinel
// vessel is configured it is appended as an extra row.
func (c *Cache) ReplaceVessels(rows []Vessel) {
	if c.sentinel != nil {
		rows = append(append([]Vessel(nil), rows...), *c.sentinel)
	}
	dim := &vesselDim{rows: rows, byPLN: make(map[string][]Vessel)}
	for _, v := range rows {
		dim.byPLN[v.PLN] = append(dim.byPLN[v.PLN], v)
	}
	c.vessels.Store(dim)
}

// ReplaceConversionFactors atomically swaps the conversion-factor dimension.
func (c *Cache) ReplaceConversionFactors(rows []ConversionFactor) {
	dim := &factorDim{rows: rows, index: make(map[string]ConversionFactor, len(rows))}
	for _, f := range rows {
		dim.index[factorKey(f.SpeciesCode, f.State, f.Presentation)] = f
	}
	c.factors.Store(dim)
}

// ReplaceExporterBehaviour atomically swaps the exporter-behaviour dimension.
func (c *Cache) ReplaceExporterBehaviour(rows []ExporterBehaviour) {
	dim := &exporterDim{rows: rows, index: make(map[string]float64, len(rows))}
	for _, e := range rows {
		dim.index[exporterKey(e.AccountID, e.ContactID)] = e.Score
	}
	c.exporters.Store(dim)
}

// ReplaceVesselsOfInterest atomically swaps the vessel-of-interest list.
func (c *Cache) ReplaceVesselsOfInterest(plns []string) {
	dim := &interestDim{plns: make(map[string]struct{}, len(plns))}
	for _, p := range plns {
		dim.plns[p] = struct{}{}
	}
	c.interest.Store(dim)
}

// ReplaceWeighting atomically swaps the risk weighting.
func (c *Cache) ReplaceWeighting(w RiskWeighting) {
	c.weighting.Store(&w)
}

// ReplaceSpeciesAliases atomically swaps the alias map (alias code to
// canonical reference code).
func (c *Cache) ReplaceSpeciesAliases(aliases map[string]string) {
	c.aliases.Store(&aliases)
}

// SetSpeciesRiskEnabled flips the species-risk toggle.
func (c *Cache) SetSpeciesRiskEnabled(enabled bool) {
	c.riskEnabled.Store(enabled)
}

// Species returns the current species list, empty if never populated.
func (c *Cache) Species() []Species {
	if dim := c.species.Load(); dim != nil {
		return dim.rows
	}
	return nil
}

// Vessels returns the current vessel list, including the sentinel row when the
// feature is enabled and the dimension has been populated.
func (c *Cache) Vessels() []Vessel {
	if dim := c.vessels.Load(); dim != nil {
		return dim.rows
	}
	return nil
}

// Weighting returns the current risk weighting, all-zero until populated.
func (c *Cache) Weighting() RiskWeighting {
	if w := c.weighting.Load(); w != nil {
		return *w
	}
	return RiskWeighting{}
}

// SpeciesRiskEnabled reports the current toggle state, false until populated.
func (c *Cache) SpeciesRiskEnabled() bool {
	return c.riskEnabled.Load()
}

// ResolveSpeciesAlias maps an alias code to its canonical reference code,
// returning the input unchanged when no alias is registered.
func (c *Cache) ResolveSpeciesAlias(code string) string {
	if m := c.aliases.Load(); m != nil {
		if canonical, ok := (*m)[code]; ok {
			return canonical
		}
	}
	return code
}

// LookupVessel resolves a vessel by PLN against historical licence records: of
// the rows whose licence validity covers asOf, the one with the most recent
// start wins. A miss resolves to the configured sentinel when the
// vessel-not-found feature is enabled.
func (c *Cache) LookupVessel(pln string, asOf time.Time) VesselLookupResult {
	if dim := c.vessels.Load(); dim != nil {
		var best *Vessel
		for i, v := range dim.byPLN[pln] {
			if asOf.Before(v.LicenceValidFrom) || asOf.After(v.LicenceValidTo) {
				continue
			}
			if best == nil || v.LicenceValidFrom.After(best.LicenceValidFrom) {
				best = &dim.byPLN[pln][i]
			}
		}
		if best != nil {
			return VesselLookupResult{Kind: VesselFound, Vessel: *best}
		}
	}
	if c.sentinel != nil {
		return VesselLookupResult{Kind: VesselNotFoundSentinel, Vessel: *c.sentinel}
	}
	return VesselLookupResult{Kind: VesselNotFound}
}

// LookupExporterRisk applies the specificity-ordered exporter match: exact
// account+contact, then contact-only (individual, no account), then the
// account-wide fallback row, then the neutral default 1.0.
func (c *Cache) LookupExporterRisk(accountID, contactID string) float64 {
	dim := c.exporters.Load()
	if dim == nil {
		return DefaultExporterRisk
	}
	if s, ok := dim.index[exporterKey(accountID, contactID)]; ok {
		return s
	}
	if s, ok := dim.index[exporterKey("", contactID)]; ok && contactID != "" {
		return s
	}
	if s, ok := dim.index[exporterKey(accountID, "")]; ok && accountID != "" {
		return s
	}
	return DefaultExporterRisk
}

// LookupSpeciesRisk returns the cached numeric score for a species code, or
// 0.5 for an unknown or unscored code. Alias codes resolve to their canonical
// species first.
func (c *Cache) LookupSpeciesRisk(code string) float64 {
	dim := c.species.Load()
	if dim == nil {
		return DefaultSpeciesRisk
	}
	sp, ok := dim.index[c.ResolveSpeciesAlias(code)]
	if !ok || sp.RiskScore == nil {
		return DefaultSpeciesRisk
	}
	return *sp.RiskScore
}

// LookupConversionFactor returns the factor for an exact (species, state,
// presentation) triple, or 1.0 when the triple is absent or non-numeric.
func (c *Cache) LookupConversionFactor(species, state, presentation string) float64 {
	dim := c.factors.Load()
	if dim == nil {
		return DefaultConversionFactor
	}
	f, ok := dim.index[factorKey(species, state, presentation)]
	if !ok || f.Factor == nil {
		return DefaultConversionFactor
	}
	return *f.Factor
}

// LookupVesselOfInterestScore returns 1.0 for a listed PLN, 0.5 otherwise.
func (c *Cache) LookupVesselOfInterestScore(pln string) float64 {
	if dim := c.interest.Load(); dim != nil {
		if _, ok := dim.plns[pln]; ok {
			return VesselOfInterestScore
		}
	}
	return VesselNotOfInterest
}

func factorKey(species, state, presentation string) string {
	return strings.Join([]string{species, state, presentation}, "|")
}

func exporterKey(accountID, contactID string) string {
	return accountID + "|" + contactID
}
