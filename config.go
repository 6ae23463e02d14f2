package cityblocks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	defaultTileCount           = 500
	defaultBuildingCount       = 500
	defaultScale               = 20.0
	defaultDistricts           = 1
	defaultMaxRoadFailures     = 100000
	defaultMaxBuildingFailures = 100000
	defaultGroundExtraSpacing  = 4
	defaultPathWidth           = 0.2
)

// Spacing is the minimum gap roads keep from parallel roads.
// X is checked when a road grows along Y and vice versa.
type Spacing struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// Tiers are resolution tiers passed to the Factory when loading textures (eg. "1k", "2k").
type Tiers struct {
	Building string `yaml:"building" toml:"building"`
	Path     string `yaml:"path" toml:"path"`
	Ground   string `yaml:"ground" toml:"ground"`
}

// Palettes hold the texture names buildings & paths pick from.
type Palettes struct {
	Centre    []string `yaml:"centre" toml:"centre"`
	Outskirts []string `yaml:"outskirts" toml:"outskirts"`
	Path      []string `yaml:"path" toml:"path"`
}

// Config for a single city.
// Zero values for the optional fields are replaced by defaults when a city is
// created; see DefaultConfig.
type Config struct {
	// Spacing between parallel roads, in cells
	Spacing Spacing `yaml:"spacing" toml:"spacing"`

	// TileCount is how many road cells to add beyond the origin
	TileCount int `yaml:"tile_count" toml:"tile_count"`

	// BuildingCount is how many buildings we try to place
	BuildingCount int `yaml:"building_count" toml:"building_count"`

	// Scale is the world size of a single cell
	Scale float64 `yaml:"scale" toml:"scale"`

	Tiers Tiers `yaml:"resolution_tiers" toml:"resolution_tiers"`

	// Seed for the city, 0 implies "pick one based on the time"
	Seed int64 `yaml:"seed" toml:"seed"`

	// Districts is the number of districts we try to place. The first
	// is the city centre.
	Districts int `yaml:"districts" toml:"districts"`

	// consecutive rejections allowed before we give up placing more
	MaxRoadFailures     int `yaml:"max_road_failures" toml:"max_road_failures"`
	MaxBuildingFailures int `yaml:"max_building_failures" toml:"max_building_failures"`

	// GroundExtraSpacing is the number of cells the ground extends past the roads
	GroundExtraSpacing int `yaml:"ground_extra_spacing" toml:"ground_extra_spacing"`

	// PathWidth is the width of building paths in cells (0-1]
	PathWidth float64 `yaml:"path_width" toml:"path_width"`

	Palettes Palettes `yaml:"palettes" toml:"palettes"`
}

// DefaultConfig returns a reasonable default Config.
func DefaultConfig() *Config {
	return &Config{
		Spacing:             Spacing{X: 8, Y: 1},
		TileCount:           defaultTileCount,
		BuildingCount:       defaultBuildingCount,
		Scale:               defaultScale,
		Tiers:               Tiers{Building: "1k", Path: "1k", Ground: "2k"},
		Districts:           defaultDistricts,
		MaxRoadFailures:     defaultMaxRoadFailures,
		MaxBuildingFailures: defaultMaxBuildingFailures,
		GroundExtraSpacing:  defaultGroundExtraSpacing,
		PathWidth:           defaultPathWidth,
		Palettes:            defaultPalettes(),
	}
}

// LoadConfig reads a config file over the top of DefaultConfig.
// Files ending in .toml are read as TOML, everything else as YAML.
// Unknown keys are an error in both cases.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse config %s: unknown keys %v", path, undecoded)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate returns an error wrapping ErrInvalidConfig if the config cannot be
// used to build a city. Zero valued optional fields are fine, they're
// defaulted later.
func (c *Config) Validate() error {
	switch {
	case c.Spacing.X <= 0 || c.Spacing.Y <= 0:
		return fmt.Errorf("%w: spacing must be positive, got (%v,%v)", ErrInvalidConfig, c.Spacing.X, c.Spacing.Y)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidConfig, c.Scale)
	case c.TileCount <= 0:
		return fmt.Errorf("%w: tile_count must be positive, got %d", ErrInvalidConfig, c.TileCount)
	case c.BuildingCount < 0:
		return fmt.Errorf("%w: building_count must not be negative, got %d", ErrInvalidConfig, c.BuildingCount)
	case c.Districts < 0:
		return fmt.Errorf("%w: districts must not be negative, got %d", ErrInvalidConfig, c.Districts)
	case c.MaxRoadFailures < 0 || c.MaxBuildingFailures < 0:
		return fmt.Errorf("%w: failure caps must not be negative", ErrInvalidConfig)
	case c.GroundExtraSpacing < 0:
		return fmt.Errorf("%w: ground_extra_spacing must not be negative, got %d", ErrInvalidConfig, c.GroundExtraSpacing)
	case c.PathWidth < 0 || c.PathWidth > 1:
		return fmt.Errorf("%w: path_width must be within [0,1], got %v", ErrInvalidConfig, c.PathWidth)
	}

	for name, palette := range map[string][]string{
		"centre":    c.Palettes.Centre,
		"outskirts": c.Palettes.Outskirts,
		"path":      c.Palettes.Path,
	} {
		if palette != nil && len(palette) == 0 {
			return fmt.Errorf("%w: %s palette is empty", ErrInvalidConfig, name)
		}
	}

	return nil
}

// withDefaults returns a copy of the config with zero valued optional fields
// filled in.
func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()

	if out.Districts == 0 {
		out.Districts = def.Districts
	}
	if out.MaxRoadFailures == 0 {
		out.MaxRoadFailures = def.MaxRoadFailures
	}
	if out.MaxBuildingFailures == 0 {
		out.MaxBuildingFailures = def.MaxBuildingFailures
	}
	if out.PathWidth == 0 {
		out.PathWidth = def.PathWidth
	}
	if out.Tiers.Building == "" {
		out.Tiers.Building = def.Tiers.Building
	}
	if out.Tiers.Path == "" {
		out.Tiers.Path = def.Tiers.Path
	}
	if out.Tiers.Ground == "" {
		out.Tiers.Ground = def.Tiers.Ground
	}
	if out.Palettes.Centre == nil {
		out.Palettes.Centre = def.Palettes.Centre
	}
	if out.Palettes.Outskirts == nil {
		out.Palettes.Outskirts = def.Palettes.Outskirts
	}
	if out.Palettes.Path == nil {
		out.Palettes.Path = def.Palettes.Path
	}

	return &out
}
