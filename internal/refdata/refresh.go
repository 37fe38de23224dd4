package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ReferenceSource supplies the blob-backed reference dimensions (species,
// vessels, conversion factors, alias map) in remote mode.
type ReferenceSource interface {
	FetchSpecies(ctx context.Context) ([]Species, error)
	FetchVessels(ctx context.Context) ([]Vessel, error)
	FetchConversionFactors(ctx context.Context) ([]ConversionFactor, error)
	FetchSpeciesAliases(ctx context.Context) (map[string]string, error)
}

// RuleProviderSource supplies the risk dimensions owned by the rule-provider
// service.
type RuleProviderSource interface {
	FetchExporterBehaviour(ctx context.Context) ([]ExporterBehaviour, error)
	FetchRiskWeighting(ctx context.Context) (RiskWeighting, error)
	FetchVesselsOfInterest(ctx context.Context) ([]string, error)
	FetchSpeciesRiskEnabled(ctx context.Context) (bool, error)
}

// RemoteRefresher re-seeds the cache from external sources, one dimension at a
// time. Each dimension replace is atomic; a failed fetch stops the cycle and
// propagates without rolling back dimensions already replaced. That
// inconsistency window is accepted, not a transactional guarantee.
type RemoteRefresher struct {
	cache  *Cache
	source ReferenceSource
	rules  RuleProviderSource
	logger *slog.Logger
}

// NewRemoteRefresher wires a refresher; all three collaborators are required.
func NewRemoteRefresher(cache *Cache, source ReferenceSource, rules RuleProviderSource, logger *slog.Logger) (*RemoteRefresher, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if source == nil {
		return nil, fmt.Errorf("reference source is required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule provider source is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteRefresher{cache: cache, source: source, rules: rules, logger: logger}, nil
}

// Refresh fetches and replaces every dimension in a fixed order, logging each
// fetch. The first failure aborts the remaining dimensions.
func (r *RemoteRefresher) Refresh(ctx context.Context) error {
	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "species")
	species, err := r.source.FetchSpecies(ctx)
	if err != nil {
		return r.fail(ctx, "species", err)
	}
	r.cache.ReplaceSpecies(species)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "speciesAliases")
	aliases, err := r.source.FetchSpeciesAliases(ctx)
	if err != nil {
		return r.fail(ctx, "speciesAliases", err)
	}
	r.cache.ReplaceSpeciesAliases(aliases)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "vessels")
	vessels, err := r.source.FetchVessels(ctx)
	if err != nil {
		return r.fail(ctx, "vessels", err)
	}
	r.cache.ReplaceVessels(vessels)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "conversionFactors")
	factors, err := r.source.FetchConversionFactors(ctx)
	if err != nil {
		return r.fail(ctx, "conversionFactors", err)
	}
	r.cache.ReplaceConversionFactors(factors)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "exporterBehaviour")
	behaviour, err := r.rules.FetchExporterBehaviour(ctx)
	if err != nil {
		return r.fail(ctx, "exporterBehaviour", err)
	}
	r.cache.ReplaceExporterBehaviour(behaviour)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "riskWeighting")
	weighting, err := r.rules.FetchRiskWeighting(ctx)
	if err != nil {
		return r.fail(ctx, "riskWeighting", err)
	}
	r.cache.ReplaceWeighting(weighting)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "vesselsOfInterest")
	interest, err := r.rules.FetchVesselsOfInterest(ctx)
	if err != nil {
		return r.fail(ctx, "vesselsOfInterest", err)
	}
	r.cache.ReplaceVesselsOfInterest(interest)

	r.logger.InfoContext(ctx, "fetching reference data", "dimension", "speciesRiskEnabled")
	enabled, err := r.rules.FetchSpeciesRiskEnabled(ctx)
	if err != nil {
		return r.fail(ctx, "speciesRiskEnabled", err)
	}
	r.cache.SetSpeciesRiskEnabled(enabled)

	return nil
}

func (r *RemoteRefresher) fail(ctx context.Context, dimension string, err error) error {
	r.logger.ErrorContext(ctx, "reference data fetch failed", "dimension", dimension, "error", err)
	return fmt.Errorf("fetch %s: %w", dimension, err)
}

// LocalRefresher seeds the cache synchronously from small JSON fixture files.
// Missing files are skipped so partial fixture sets stay usable in dev.
type LocalRefresher struct {
	cache  *Cache
	dir    string
	logger *slog.Logger
}

// NewLocalRefresher builds a fixture-backed refresher rooted at dir.
func NewLocalRefresher(cache *Cache, dir string, logger *slog.Logger) (*LocalRefresher, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalRefresher{cache: cache, dir: dir, logger: logger}, nil
}

type localToggles struct {
	SpeciesRiskEnabled bool `json:"speciesRiskEnabled"`
}

// Refresh loads every fixture file present and replaces the matching
// dimension. File-level decode errors propagate; dimensions already replaced
// stay replaced, matching remote-mode semantics.
func (l *LocalRefresher) Refresh(_ context.Context) error {
	var species []Species
	if ok, err := l.load("species.json", &species); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceSpecies(species)
	}

	aliases := map[string]string{}
	if ok, err := l.load("species-aliases.json", &aliases); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceSpeciesAliases(aliases)
	}

	var vessels []Vessel
	if ok, err := l.load("vessels.json", &vessels); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceVessels(vessels)
	}

	var factors []ConversionFactor
	if ok, err := l.load("conversion-factors.json", &factors); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceConversionFactors(factors)
	}

	var behaviour []ExporterBehaviour
	if ok, err := l.load("exporter-behaviour.json", &behaviour); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceExporterBehaviour(behaviour)
	}

	var weighting RiskWeighting
	if ok, err := l.load("risk-weighting.json", &weighting); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceWeighting(weighting)
	}

	var interest []string
	if ok, err := l.load("vessels-of-interest.json", &interest); err != nil {
		return err
	} else if ok {
		l.cache.ReplaceVesselsOfInterest(interest)
	}

	var toggles localToggles
	if ok, err := l.load("toggles.json", &toggles); err != nil {
		return err
	} else if ok {
		l.cache.SetSpeciesRiskEnabled(toggles.SpeciesRiskEnabled)
	}

	return nil
}

func (l *LocalRefresher) load(name string, dest any) (bool, error) {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Info("reference fixture missing, skipping", "file", name)
			return false, nil
		}
		return false, fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return true, nil
}
