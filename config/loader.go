package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file looked up in the working
// directory.
const ConfigFileName = "carscout.yaml"

var defaults = map[string]any{
	"min_year": 2009,
	"max_year": 2012,

	"options.engine": "catalog",

	"fair_value.base_value_usd": 24000,
	"fair_value.year_step_usd":  500,
	"fair_value.trim_premiums": map[string]int{
		"S":        3000,
		"R":        9000,
		"Cayman R": 9000,
	},
	"fair_value.mileage_band_bonus_usd": map[string]int{
		"<40k":   1500,
		"40-59k": 500,
		"60-79k": 0,
		"80-99k": -1000,
		">=100k": -2500,
	},
	"fair_value.exterior_color_usd": 1000,
	"fair_value.interior_color_usd": 0,
	"fair_value.per_option_usd":     500,

	"scraper.max_concurrency": 2,
	"scraper.rate_limit_ms":   900,
	"scraper.max_retries":     3,
	"scraper.cap_listings":    150,

	"output.raw_dir":        "./data/raw",
	"output.normalized_dir": "./data/normalized",
	"output.manual_dir":     "./data/manual",

	"postgres.host":    "localhost",
	"postgres.port":    "5432",
	"postgres.db":      "carscout",
	"postgres.sslmode": "disable",
}

// Load reads the .env file, carscout.yaml (when present), and environment
// overrides, and returns a validated Config.
func Load() (*Config, error) {
	return LoadFile(ConfigFileName)
}

// LoadFile loads configuration from the given YAML path. A missing file is
// not an error; defaults apply.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.applyDefaults()

	cfg.Postgres.User = getEnv("POSTGRES_USER", "carscout")
	cfg.Postgres.Password = getEnv("POSTGRES_PASSWORD", "carscout123")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills values the confmap provider cannot express cleanly:
// the built-in options catalog and the legacy top-5 keyword map.
func (c *Config) applyDefaults() {
	if len(c.Options.Catalog) == 0 {
		c.Options.Catalog = defaultCatalog()
	}
	if len(c.Options.Top5) == 0 {
		c.Options.Top5 = map[string][]string{
			"Sport Chrono": {"sport chrono"},
			"PASM":         {"pasm"},
			"PSE":          {"pse", "sport exhaust"},
			"LSD":          {"limited slip", "lsd"},
			"Sport Seats":  {"sport seats", "adaptive sport seats"},
		}
	}
}

// defaultCatalog is the catalog shipped when the YAML file defines none.
// Entry 250 is the PDK transmission code: tracked for valuation, hidden from
// the display label list, and force-detected on 2009-2012 automatics.
func defaultCatalog() []CatalogEntryConfig {
	return []CatalogEntryConfig{
		{ID: "639", Display: "Sport Chrono", ValueUSD: 1200, Synonyms: []string{`sport chrono`}},
		{ID: "475", Display: "PASM", ValueUSD: 800, Synonyms: []string{`pasm`, `adaptive suspension`}},
		{ID: "176", Display: "PSE", ValueUSD: 800, Synonyms: []string{`pse`, `sport exhaust`}},
		{ID: "220", Display: "LSD", ValueUSD: 1200, StandardOn: []string{"Cayman R"}, Synonyms: []string{`limited slip`, `\blsd\b`}},
		{ID: "P77", Display: "Sport Seats", ValueUSD: 500, Synonyms: []string{`sport seats`, `adaptive sport seats`}},
		{ID: "250", Display: "PDK", ValueUSD: 2000, Synonyms: []string{`pdk`, `doppelkupplung`}},
		{ID: "XRG", Display: "19\" Wheels", ValueUSD: 400, StandardOn: []string{"Cayman R"}, Synonyms: []string{`19["”]? ?(inch|wheels)`}},
	}
}
