package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"milk-bench/domain/kpi"
)

// Config represents the structure of config.yml used by the tool.
// Only the fields currently needed by commands are modeled.
type Config struct {
	Server struct {
		Addr  string `yaml:"addr"`
		UIDir string `yaml:"ui"`
	} `yaml:"server"`

	Dataset struct {
		// Files are chunked JSON exports, concatenated in order.
		Files []string `yaml:"files"`
	} `yaml:"dataset"`

	Remote struct {
		TokenURL string   `yaml:"token_url"`
		ClientID string   `yaml:"client_id"`
		Scopes   []string `yaml:"scopes"`
		URLs     []string `yaml:"urls"`
	} `yaml:"remote"`

	// KPIs overrides the built-in catalog when non-empty.
	KPIs []kpi.Definition `yaml:"kpis"`

	// Providers substitute the peer-value source for specific processor
	// groups: peer values come from the group's own pre-filtered sample
	// files instead of per-entity monthly means.
	Providers []Provider `yaml:"providers"`
}

// Provider binds a processor group label to its external sample files.
type Provider struct {
	Group string   `yaml:"group"`
	Files []string `yaml:"files"`
}

// Path resolves the config file location: CONFIG_PATH env or ./config.yml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config.yml"
}

// Load parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return &c, nil
}

// Catalog builds the KPI catalog from the config, falling back to the
// built-in one when no override is present.
func (c *Config) Catalog() (*kpi.Catalog, error) {
	if len(c.KPIs) == 0 {
		return kpi.Default(), nil
	}
	return kpi.NewCatalog(c.KPIs)
}
