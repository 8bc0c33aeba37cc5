package application

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	feasibility "dealer-feasibility/internal/feasibility/domain"
)

// Config defines engine defaults configuration. Product assumption tables
// live here rather than at call sites so every caller projects against the
// same fallback figures.
type Config struct {
	Products      map[string]feasibility.ProductDefaults `yaml:"products"`
	InsuranceRate float64                                `yaml:"insurance_rate"`
	HorizonYears  int                                    `yaml:"horizon_years"`

	// SignageIntervalYears applies to scenarios saved with a signage
	// maintenance amount but no interval. Zero disables the fallback.
	SignageIntervalYears int `yaml:"signage_interval_years"`
}

// LoadConfig loads defaults from yaml or env. With no FEASIBILITY_CONFIG
// set, the builtin product table applies.
func LoadConfig() (Config, error) {
	cfg := Config{
		InsuranceRate: feasibility.DefaultInsuranceRate,
		HorizonYears:  getenvIntDefault("FEASIBILITY_HORIZON_YEARS", 15),
	}

	if path := os.Getenv("FEASIBILITY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.HorizonYears < 1 {
		return cfg, fmt.Errorf("feasibility config: horizon_years must be at least 1")
	}
	if _, err := cfg.EngineDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EngineDefaults converts the configured product table into engine
// defaults, validating product names.
func (c Config) EngineDefaults() (feasibility.Defaults, error) {
	if len(c.Products) == 0 {
		return feasibility.BuiltinDefaults(), nil
	}
	defaults := make(feasibility.Defaults, len(c.Products))
	for name, def := range c.Products {
		product, err := feasibility.ParseProduct(name)
		if err != nil {
			return nil, fmt.Errorf("feasibility config: %w", err)
		}
		defaults[product] = def
	}
	return defaults, nil
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
