// Package config holds the run settings of a search. Settings are
// unmarshalled from Viper, which merges defaults, an optional config file,
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/filter"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/protein"
)

// EnvPrefix prefixes environment overrides, e.g. GLYCOSEQ_THREADS
const EnvPrefix = "GLYCOSEQ"

// ToleranceConfig is one matching window
type ToleranceConfig struct {
	// window width
	Value float64 `mapstructure:"value"`

	// "ppm" or "dalton"
	Kind string `mapstructure:"kind"`
}

// Tolerance converts the setting to a validated core.Tolerance
func (t ToleranceConfig) Tolerance() (core.Tolerance, error) {
	kind, err := core.ParseToleranceKind(t.Kind)
	if err != nil {
		return core.Tolerance{}, err
	}
	tol := core.Tolerance{Kind: kind, Value: t.Value}
	return tol, tol.Validate()
}

// DigestionConfig controls in-silico digestion
type DigestionConfig struct {
	// protease letters (T trypsin, G GluC, C chymotrypsin, P pepsin) or names
	Proteases string `mapstructure:"proteases"`

	// maximum missed cleavages per peptide
	MissedCleavages int `mapstructure:"missed-cleavages"`

	// peptide length limits, 0 disables
	MinLength int `mapstructure:"min-length"`
	MaxLength int `mapstructure:"max-length"`

	// dynamic modifications: oxidation, deamidation
	Modifications []string `mapstructure:"modifications"`
}

// Config is the root-level settings struct
type Config struct {
	// number of search workers
	Threads int `mapstructure:"threads"`

	// glycan residue bounds
	Glycan glycan.Bounds `mapstructure:"glycan"`

	// glycan classes, letters (C, H, M) or names
	Classes string `mapstructure:"classes"`

	// precursor and fragment windows
	MS1 ToleranceConfig `mapstructure:"ms1"`
	MS2 ToleranceConfig `mapstructure:"ms2"`

	Digestion DigestionConfig `mapstructure:"digestion"`

	// fragment peak filtering
	Peaks filter.Config `mapstructure:"peaks"`

	// accepted false discovery rate
	FDR float64 `mapstructure:"fdr"`

	// unmatched extensions allowed in a row during fragment matching
	MissingCeiling int `mapstructure:"missing-ceiling"`

	// retention window in minutes for co-elution rescoring, 0 disables
	CoElution float64 `mapstructure:"coelution"`
}

// SetDefaults registers the default settings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("threads", 6)
	v.SetDefault("glycan.hexnac", 12)
	v.SetDefault("glycan.hex", 12)
	v.SetDefault("glycan.fuc", 5)
	v.SetDefault("glycan.neuac", 4)
	v.SetDefault("glycan.neugc", 0)
	v.SetDefault("classes", "C")
	v.SetDefault("ms1.value", 10.0)
	v.SetDefault("ms1.kind", "ppm")
	v.SetDefault("ms2.value", 0.01)
	v.SetDefault("ms2.kind", "dalton")
	v.SetDefault("digestion.proteases", "TG")
	v.SetDefault("digestion.missed-cleavages", 2)
	v.SetDefault("digestion.min-length", 0)
	v.SetDefault("digestion.max-length", 0)
	v.SetDefault("digestion.modifications", []string{})
	v.SetDefault("peaks.top-n", 0)
	v.SetDefault("peaks.intensity-cutoff", 0.0)
	v.SetDefault("fdr", 0.01)
	v.SetDefault("missing-ceiling", 4)
	v.SetDefault("coelution", 0.0)
}

// New returns a Viper instance with defaults and environment overrides.
// file, when not empty, is read as a config file (YAML, TOML or JSON).
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}
	return v, nil
}

// Load unmarshals and validates the settings held by v
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks every setting
func (c Config) Validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be at least 1, got %d", c.Threads))
	}
	if err := c.Glycan.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.GlycanClasses(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.MS1.Tolerance(); err != nil {
		errs = append(errs, fmt.Errorf("ms1: %w", err))
	}
	if _, err := c.MS2.Tolerance(); err != nil {
		errs = append(errs, fmt.Errorf("ms2: %w", err))
	}
	if _, err := c.Digester(); err != nil {
		errs = append(errs, err)
	}
	if _, err := core.ParseModificationOptions(c.Digestion.Modifications); err != nil {
		errs = append(errs, err)
	}
	if err := c.Peaks.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("peaks: %w", err))
	}
	if c.FDR < 0 || c.FDR > 1 {
		errs = append(errs, fmt.Errorf("fdr must be within [0, 1], got %v", c.FDR))
	}
	if c.MissingCeiling < 0 {
		errs = append(errs, fmt.Errorf("missing-ceiling must not be negative, got %d", c.MissingCeiling))
	}
	if c.CoElution < 0 {
		errs = append(errs, fmt.Errorf("coelution must not be negative, got %v", c.CoElution))
	}
	return errors.Join(errs...)
}

// GlycanClasses parses Classes
func (c Config) GlycanClasses() ([]glycan.Class, error) {
	return glycan.ParseClasses(c.Classes)
}

// Digester builds the configured protein digester
func (c Config) Digester() (protein.Digester, error) {
	proteases, err := protein.ParseProteases(c.Digestion.Proteases)
	if err != nil {
		return protein.Digester{}, err
	}
	if c.Digestion.MissedCleavages < 0 {
		return protein.Digester{}, fmt.Errorf("missed-cleavages must not be negative, got %d", c.Digestion.MissedCleavages)
	}
	return protein.Digester{
		Proteases:       proteases,
		MissedCleavages: c.Digestion.MissedCleavages,
		MinLength:       c.Digestion.MinLength,
		MaxLength:       c.Digestion.MaxLength,
	}, nil
}
