package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration, loaded from carscout.yaml with
// environment-variable overrides for credentials.
type Config struct {
	MinYear int `koanf:"min_year"`
	MaxYear int `koanf:"max_year"`

	// SearchURLs seed the collector when scraping is enabled.
	SearchURLs []string `koanf:"search_urls"`

	// UseCached skips collection and re-runs the pipeline from the latest
	// raw CSV plus any manual CSVs.
	UseCached bool `koanf:"use_cached"`

	Scraper   ScraperConfig   `koanf:"scraper"`
	Options   OptionsConfig   `koanf:"options"`
	FairValue FairValueConfig `koanf:"fair_value"`
	Output    OutputConfig    `koanf:"output"`
	Postgres  PostgresConfig  `koanf:"postgres"`
}

// ScraperConfig controls the browser-driven collaborator.
type ScraperConfig struct {
	Enabled        bool   `koanf:"enabled"`
	MaxConcurrency int    `koanf:"max_concurrency"`
	RateLimitMs    int    `koanf:"rate_limit_ms"`
	MaxRetries     int    `koanf:"max_retries"`
	CapListings    int    `koanf:"cap_listings"`
	ChromeBin      string `koanf:"chrome_bin"`
}

// OptionsConfig selects and parameterizes the option-detection strategy.
type OptionsConfig struct {
	// Engine is "catalog", "legacy", or "off".
	Engine  string               `koanf:"engine"`
	Catalog []CatalogEntryConfig `koanf:"catalog"`
	// Top5 maps a canonical label to its text-match patterns (legacy engine).
	Top5 map[string][]string `koanf:"top5"`
}

// CatalogEntryConfig is one configured option feature.
type CatalogEntryConfig struct {
	ID         string   `koanf:"id"`
	Display    string   `koanf:"display"`
	ValueUSD   int      `koanf:"value_usd"`
	CodesAlias []string `koanf:"codes_alias"`
	StandardOn []string `koanf:"standard_on"`
	Synonyms   []string `koanf:"synonyms"`
}

// FairValueConfig holds the dollar parameters of the additive pricing model.
type FairValueConfig struct {
	BaseValueUSD        int            `koanf:"base_value_usd"`
	YearStepUSD         int            `koanf:"year_step_usd"`
	TrimPremiums        map[string]int `koanf:"trim_premiums"`
	MileageBandBonusUSD map[string]int `koanf:"mileage_band_bonus_usd"`
	ExteriorColorUSD    int            `koanf:"exterior_color_usd"`
	InteriorColorUSD    int            `koanf:"interior_color_usd"`
	// PerOptionUSD is the legacy fallback value per detected top-5 option,
	// used only when the catalog engine did not run.
	PerOptionUSD int `koanf:"per_option_usd"`
}

// OutputConfig holds the data directories.
type OutputConfig struct {
	RawDir        string `koanf:"raw_dir"`
	NormalizedDir string `koanf:"normalized_dir"`
	ManualDir     string `koanf:"manual_dir"`
}

// PostgresConfig holds the optional database sink settings. Credentials come
// from the environment, not the YAML file.
type PostgresConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"-"`
	Password string `koanf:"-"`
	DB       string `koanf:"db"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + p.SSLMode
}

// Validate checks the loaded configuration for conditions that would make a
// run pointless. It plays the role of a pre-flight doctor check.
func (c *Config) Validate() error {
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("config: min_year %d exceeds max_year %d", c.MinYear, c.MaxYear)
	}
	switch c.Options.Engine {
	case "catalog", "legacy", "off":
	default:
		return fmt.Errorf("config: options.engine must be catalog, legacy, or off (got %q)", c.Options.Engine)
	}
	if c.Scraper.Enabled && len(c.SearchURLs) == 0 {
		return fmt.Errorf("config: scraper enabled but search_urls is empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
