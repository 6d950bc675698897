// Package config holds the runtime settings for the stacmap service.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures the map-building pipeline. Zero values fall back to
// the defaults from Default.
type Settings struct {
	GeoJSONPath   string  `yaml:"geojson_path"`
	Catalog       string  `yaml:"catalog"`
	Collection    string  `yaml:"collection"`
	AssetKey      string  `yaml:"asset_key"`
	NameKey       string  `yaml:"name_key"`
	SearchPeriod  int     `yaml:"search_period_days"`
	SearchLimit   int     `yaml:"search_limit"`
	MaxCloudCover float64 `yaml:"max_cloud_cover"`
	TilerURL      string  `yaml:"tiler_url"`
}

// Default returns the built-in settings: the bundled national parks dataset,
// the Element 84 Earth Search catalog and the Sentinel-2 L2A collection.
func Default() Settings {
	return Settings{
		GeoJSONPath:   "data/national-parks.geojson",
		Catalog:       "https://earth-search.aws.element84.com/v1",
		Collection:    "sentinel-2-l2a",
		AssetKey:      "visual",
		NameKey:       "Name",
		SearchPeriod:  30,
		SearchLimit:   50,
		MaxCloudCover: 20,
		TilerURL:      "https://api.cogeo.xyz/cog/tiles/{z}/{x}/{y}",
	}
}

// Load reads a YAML settings file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	return s.withDefaults(), nil
}

// withDefaults fills unset fields so a partial YAML file still yields a
// usable configuration.
func (s Settings) withDefaults() Settings {
	def := Default()
	if s.GeoJSONPath == "" {
		s.GeoJSONPath = def.GeoJSONPath
	}
	if s.Catalog == "" {
		s.Catalog = def.Catalog
	}
	if s.Collection == "" {
		s.Collection = def.Collection
	}
	if s.AssetKey == "" {
		s.AssetKey = def.AssetKey
	}
	if s.NameKey == "" {
		s.NameKey = def.NameKey
	}
	if s.SearchPeriod <= 0 {
		s.SearchPeriod = def.SearchPeriod
	}
	if s.SearchLimit <= 0 {
		s.SearchLimit = def.SearchLimit
	}
	if s.MaxCloudCover <= 0 {
		s.MaxCloudCover = def.MaxCloudCover
	}
	if s.TilerURL == "" {
		s.TilerURL = def.TilerURL
	}
	return s
}
