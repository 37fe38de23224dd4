package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// BlobReader is the slice of object storage the blob-backed source needs.
type BlobReader interface {
	ReadText(ctx context.Context, name string) (string, error)
}

// BlobSource reads reference dimensions as JSON documents from object storage.
type BlobSource struct {
	reader BlobReader
	prefix string
}

// NewBlobSource builds a source reading `<prefix><name>.json` objects.
func NewBlobSource(reader BlobReader, prefix string) (*BlobSource, error) {
	if reader == nil {
		return nil, fmt.Errorf("blob reader is required")
	}
	return &BlobSource{reader: reader, prefix: prefix}, nil
}

func (s *BlobSource) FetchSpecies(ctx context.Context) ([]Species, error) {
	var out []Species
	if err := s.fetch(ctx, "species", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlobSource) FetchVessels(ctx context.Context) ([]Vessel, error) {
	var out []Vessel
	if err := s.fetch(ctx, "vessels", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlobSource) FetchConversionFactors(ctx context.Context) ([]ConversionFactor, error) {
	var out []ConversionFactor
	if err := s.fetch(ctx, "conversion-factors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlobSource) FetchSpeciesAliases(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := s.fetch(ctx, "species-aliases", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BlobSource) fetch(ctx context.Context, name string, dest any) error {
	text, err := s.reader.ReadText(ctx, s.prefix+name+".json")
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(text), dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// RuleProviderClient fetches risk dimensions from the rule-provider service
// over HTTP. Timeouts belong to the injected http.Client.
type RuleProviderClient struct {
	baseURL string
	client  *http.Client
}

// NewRuleProviderClient builds a client for the rule-provider service.
func NewRuleProviderClient(baseURL string, client *http.Client) (*RuleProviderClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("rule provider base URL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RuleProviderClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

func (c *RuleProviderClient) FetchExporterBehaviour(ctx context.Context) ([]ExporterBehaviour, error) {
	var out []ExporterBehaviour
	if err := c.get(ctx, "/reference/exporter-behaviour", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RuleProviderClient) FetchRiskWeighting(ctx context.Context) (RiskWeighting, error) {
	var out RiskWeighting
	if err := c.get(ctx, "/reference/risk-weighting", &out); err != nil {
		return RiskWeighting{}, err
	}
	return out, nil
}

func (c *RuleProviderClient) FetchVesselsOfInterest(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/reference/vessels-of-interest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RuleProviderClient) FetchSpeciesRiskEnabled(ctx context.Context) (bool, error) {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.get(ctx, "/reference/species-risk-enabled", &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

func (c *RuleProviderClient) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s: unexpected status %d: %s", path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
