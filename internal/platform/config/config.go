package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config gathers per-concern configuration so main stays lean. Everything is
// sourced from environment variables; scheduling beyond process-level tickers
// belongs to the external scheduler.
type Config struct {
	OpsAddr  string
	Postgres PostgresConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Storage  StorageConfig
	Refresh  RefreshConfig
	Drain    DrainConfig
	Features FeatureFlags
}

// PostgresConfig holds the document-store connection settings.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds connection settings for the extended-data store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// QueueConfig holds the message-queue settings for case-management and trade
// dispatch.
type QueueConfig struct {
	Brokers    []string
	CaseTopic  string
	TradeTopic string
	// Enabled=false still publishes; consumers treat such messages as
	// non-authoritative (test-only routing).
	Enabled bool
}

// StorageConfig holds object-storage settings. BaseURL is also used to infer
// the environment segment of snapshot blob names.
type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	BaseURL   string
	PathStyle bool
}

// RefreshMode selects how reference data is loaded.
type RefreshMode string

const (
	RefreshLocal  RefreshMode = "local"
	RefreshRemote RefreshMode = "remote"
)

// RefreshConfig holds reference-data refresh settings.
type RefreshConfig struct {
	Mode       RefreshMode
	FixtureDir string
	// RuleProviderURL is the base URL of the rule-provider service used in
	// remote mode for weighting and behaviour data.
	RuleProviderURL string
	Interval        time.Duration
}

// DrainConfig bounds the unprocessed-report drain loop.
type DrainConfig struct {
	MaxBatch int
	Interval time.Duration
}

// FeatureFlags are resolved once at startup and passed to the components that
// branch on them.
type FeatureFlags struct {
	// VesselNotFound enables the configured sentinel vessel on lookup misses.
	VesselNotFound     bool
	SentinelVesselName string
	SentinelVesselPLN  string
	// DisableTradeValidation switches the trade gateway to the raw
	// (unvalidated) export policy.
	DisableTradeValidation bool
	TradeSchemaPath        string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		OpsAddr: getenv("CATCHREC_OPS_ADDR", ":9090"),
		Postgres: PostgresConfig{
			URL: os.Getenv("CATCHREC_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("CATCHREC_REDIS_URL"),
			PoolSize:     getint("CATCHREC_REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("CATCHREC_REDIS_MIN_IDLE", 2),
			DialTimeout:  getduration("CATCHREC_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("CATCHREC_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("CATCHREC_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Queue: QueueConfig{
			Brokers:    splitlist(getenv("CATCHREC_QUEUE_BROKERS", "localhost:9092")),
			CaseTopic:  getenv("CATCHREC_QUEUE_CASE_TOPIC", "case-management"),
			TradeTopic: getenv("CATCHREC_QUEUE_TRADE_TOPIC", "trade-export"),
			Enabled:    os.Getenv("CATCHREC_QUEUE_DISABLED") != "true",
		},
		Storage: StorageConfig{
			Bucket:    os.Getenv("CATCHREC_STORAGE_BUCKET"),
			Region:    os.Getenv("CATCHREC_STORAGE_REGION"),
			Endpoint:  os.Getenv("CATCHREC_STORAGE_ENDPOINT"),
			BaseURL:   os.Getenv("CATCHREC_STORAGE_BASE_URL"),
			PathStyle: os.Getenv("CATCHREC_STORAGE_PATH_STYLE") == "true",
		},
		Refresh: RefreshConfig{
			Mode:            RefreshMode(getenv("CATCHREC_REFRESH_MODE", string(RefreshRemote))),
			FixtureDir:      getenv("CATCHREC_REFRESH_FIXTURE_DIR", "fixtures"),
			RuleProviderURL: os.Getenv("CATCHREC_RULE_PROVIDER_URL"),
			Interval:        getduration("CATCHREC_REFRESH_INTERVAL", 30*time.Minute),
		},
		Drain: DrainConfig{
			MaxBatch: getint("CATCHREC_DRAIN_MAX_BATCH", 500),
			Interval: getduration("CATCHREC_DRAIN_INTERVAL", 5*time.Minute),
		},
		Features: FeatureFlags{
			VesselNotFound:         os.Getenv("CATCHREC_VESSEL_NOT_FOUND") == "true",
			SentinelVesselName:     getenv("CATCHREC_SENTINEL_VESSEL_NAME", "UNKNOWN VESSEL"),
			SentinelVesselPLN:      getenv("CATCHREC_SENTINEL_VESSEL_PLN", "N/A"),
			DisableTradeValidation: os.Getenv("CATCHREC_DISABLE_TRADE_VALIDATION") == "true",
			TradeSchemaPath:        getenv("CATCHREC_TRADE_SCHEMA_PATH", "schemas/trade-export.json"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getduration rejects non-positive values: every duration here feeds a ticker
// or a timeout, and time.NewTicker panics on zero.
func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitlist(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
