// Package config loads extractor settings from config/extractor.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"sec_extractor/pkg/core/companies"
	"sec_extractor/pkg/core/etl"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// DefaultPath is where the commands look for the config file.
const DefaultPath = "config/extractor.yaml"

// Environment overrides
const (
	EnvDataDir     = "SEC_DATA_DIR"
	EnvOutputDir   = "SEC_OUTPUT_DIR"
	EnvCompanies   = "SEC_COMPANIES" // ';' separated, company names contain commas. Empty or "*" loads all
	EnvDatabaseURL = "DATABASE_URL"
	EnvAPIAddr     = "API_ADDR"
	EnvLogLevel    = "LOG_LEVEL"
)

type Config struct {
	DataDir     string `yaml:"data_dir"`
	OutputDir   string `yaml:"output_dir"`
	DatabaseURL string `yaml:"database_url"`
	APIAddr     string `yaml:"api_addr"`
	LogLevel    string `yaml:"log_level"`

	// Companies restricts the submissions pass to these names. Empty loads all.
	Companies      []string       `yaml:"companies"`
	UnknownFilings string         `yaml:"unknown_filings"` // skip | fail
	Interest       InterestConfig `yaml:"interest"`
	Layout         etl.Layout     `yaml:"layout"`
}

type InterestConfig struct {
	Forms []string `yaml:"forms"`
	Facts []string `yaml:"facts"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	layout := etl.DefaultLayout()
	layout.SkipHeader = true
	return Config{
		DataDir:        "./data/extracted",
		OutputDir:      "./data/exports",
		APIAddr:        ":8080",
		LogLevel:       "info",
		UnknownFilings: "skip",
		Interest: InterestConfig{
			Forms: companies.DefaultForms,
			Facts: companies.DefaultFacts,
		},
		Layout: layout,
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvAPIAddr); v != "" {
		c.APIAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvCompanies); ok {
		var names []string
		if strings.TrimSpace(v) == "*" {
			v = ""
		}
		for _, n := range strings.Split(v, ";") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		c.Companies = names
	}
}

// Validate checks the layout and the unknown filing policy.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if _, err := etl.ParsePolicy(c.UnknownFilings); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	return nil
}

// CompanyInterest converts the configured interest sets.
func (c *Config) CompanyInterest() companies.Interest {
	return companies.Interest{
		Forms: companies.NewNameSet(c.Interest.Forms...),
		Facts: companies.NewNameSet(c.Interest.Facts...),
	}
}

// LoaderOptions builds etl.Options from the config.
func (c *Config) LoaderOptions(log *zap.Logger) (etl.Options, error) {
	policy, err := etl.ParsePolicy(c.UnknownFilings)
	if err != nil {
		return etl.Options{}, err
	}
	layout := c.Layout
	return etl.Options{
		Layout:         &layout,
		Include:        etl.AllowList(c.Companies),
		UnknownFilings: policy,
		Logger:         log,
	}, nil
}
