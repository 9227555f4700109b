// Package config loads tree configuration: cell kits, families, species
// with their growth features, and per-location species overrides.
//
// Files are TOML or YAML, chosen by extension. Both are decoded into a
// generic map first and then read field by field through pkg/getters, so
// the two formats share one schema and one set of error messages.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	"github.com/ferreusveritas/dynamictrees/pkg/getters"
)

//go:embed default.toml
var defaultTOML []byte

// Format identifies a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Config is a decoded configuration file.
type Config struct {
	MaxDepth  int
	Seed      uint64
	Kits      []Kit
	Families  []Family
	Species   []Species
	Overrides []Override
}

// Kit declares a cell kit.
type Kit struct {
	Name       string
	Shape      string
	MaxValue   int
	Decay      int
	TwigRadius int
}

// Family declares a family and the blocks it owns.
type Family struct {
	Name      string
	Branch    string
	Leaves    string
	Root      string
	MaxRadius int
	Kit       string
	// Common names the fallback species; empty means the species named
	// like the family, or else the family's first species.
	Common            string
	ConnectableLeaves []string
}

// Species declares a species of a family.
type Species struct {
	Name     string
	Family   string
	Kit      string
	Features []Feature
}

// Feature is a growth feature with its raw parameters.
type Feature struct {
	Name string
	// Path locates the feature in the file, e.g. "species[1].features[0]".
	Path   string
	Params getters.Object
}

// Override picks Species for trees of Family rooted on Soil.
type Override struct {
	Family  string
	Soil    string
	Species string
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Parse(defaultTOML, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}
	return cfg
}

// Load reads a configuration file, choosing the syntax by extension.
func Load(path string) (*Config, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	raw := make(map[string]any)
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
	}
	return Decode(raw)
}

// Decode reads a configuration from a generic decoded document.
func Decode(raw map[string]any) (*Config, error) {
	f := getters.NewRegistry().Fields("", raw)

	cfg := &Config{
		MaxDepth: getters.Optional(f, "max_depth", 0),
		Seed:     uint64(getters.Optional(f, "seed", 1)),
	}
	getters.Each(f, "kits", func(k *getters.Fields) {
		cfg.Kits = append(cfg.Kits, Kit{
			Name:       getters.Required[string](k, "name"),
			Shape:      getters.Optional(k, "shape", "normal"),
			MaxValue:   getters.Optional(k, "max_value", 4),
			Decay:      getters.Optional(k, "decay", 1),
			TwigRadius: getters.Optional(k, "twig_radius", 1),
		})
	})
	getters.Each(f, "families", func(fam *getters.Fields) {
		cfg.Families = append(cfg.Families, Family{
			Name:              getters.Required[string](fam, "name"),
			Branch:            getters.Required[string](fam, "branch"),
			Leaves:            getters.Required[string](fam, "leaves"),
			Root:              getters.Optional(fam, "root", "rooty_dirt"),
			MaxRadius:         getters.Optional(fam, "max_radius", 8),
			Kit:               getters.Optional(fam, "kit", "deciduous"),
			Common:            getters.Optional(fam, "common", ""),
			ConnectableLeaves: getters.Optional[[]string](fam, "connectable_leaves", nil),
		})
	})
	getters.Each(f, "species", func(sp *getters.Fields) {
		s := Species{
			Name:   getters.Required[string](sp, "name"),
			Family: getters.Required[string](sp, "family"),
			Kit:    getters.Optional(sp, "kit", ""),
		}
		getters.Each(sp, "features", func(ft *getters.Fields) {
			feat := Feature{
				Name:   getters.Required[string](ft, "name"),
				Path:   ft.Path(),
				Params: getters.Object{},
			}
			for key, v := range ft.Object() {
				if key != "name" {
					feat.Params[key] = v
				}
			}
			s.Features = append(s.Features, feat)
		})
		cfg.Species = append(cfg.Species, s)
	})
	getters.Each(f, "overrides", func(o *getters.Fields) {
		cfg.Overrides = append(cfg.Overrides, Override{
			Family:  getters.Required[string](o, "family"),
			Soil:    getters.Required[string](o, "soil"),
			Species: getters.Required[string](o, "species"),
		})
	})
	if err := f.Err(); err != nil {
		return nil, err
	}
	if cfg.MaxDepth < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "max_depth must not be negative, got %d", cfg.MaxDepth)
	}
	return cfg, nil
}
