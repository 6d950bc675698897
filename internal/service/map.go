// Package service composes the map-building pipeline.
package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/config"
	"github.com/mlanghor/stacmap/internal/feature"
	"github.com/mlanghor/stacmap/internal/mapspec"
	"github.com/mlanghor/stacmap/internal/scene"
	"github.com/mlanghor/stacmap/internal/stac"
	"github.com/mlanghor/stacmap/internal/tiler"
)

// MapService runs the pipeline: sample a feature, search the catalog,
// select a scene, build the tile template and assemble the map. Each call
// is independent; there is no state shared between invocations beyond the
// catalog client and random source.
type MapService struct {
	settings config.Settings
	catalog  *stac.Client
	rng      *rand.Rand
	log      zerolog.Logger
	now      func() time.Time
}

// NewMapService wires a MapService from settings. rng may be nil, in which
// case a time-seeded source is used; tests pass a fixed seed to make
// feature selection deterministic.
func NewMapService(settings config.Settings, catalog *stac.Client, rng *rand.Rand, log zerolog.Logger) *MapService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MapService{
		settings: settings,
		catalog:  catalog,
		rng:      rng,
		log:      log,
		now:      time.Now,
	}
}

// BuildOptions override settings for a single BuildMap call. Zero values
// keep the configured defaults.
type BuildOptions struct {
	GeoJSONPath   string
	Collection    string
	AssetKey      string
	NameKey       string
	SearchPeriod  int
	MaxCloudCover *float64
	Render        tiler.RenderOptions
}

// BuildMap runs the full pipeline and returns a complete MapSpec or the
// first error. Error kinds from the stage packages pass through unwrapped
// so callers can map them to exit codes or HTTP statuses with errors.Is.
func (s *MapService) BuildMap(ctx context.Context, opts BuildOptions) (mapspec.MapSpec, error) {
	cfg := s.effective(opts)

	fc, err := feature.Load(ctx, cfg.GeoJSONPath)
	if err != nil {
		return mapspec.MapSpec{}, err
	}

	feat, err := feature.SampleOne(s.rng, fc)
	if err != nil {
		return mapspec.MapSpec{}, err
	}
	s.log.Info().
		Str("feature", featureLabel(feat, cfg.NameKey)).
		Str("source", cfg.GeoJSONPath).
		Msg("feature sampled")

	end := s.now().UTC()
	candidates, err := s.catalog.Search(ctx, stac.SearchQuery{
		Collections: []string{cfg.Collection},
		Intersects:  feat.Geometry,
		Start:       end.AddDate(0, 0, -cfg.SearchPeriod),
		End:         end,
		Limit:       cfg.SearchLimit,
	})
	if err != nil {
		return mapspec.MapSpec{}, err
	}
	s.log.Info().Int("candidates", len(candidates)).Msg("catalog searched")

	selector := scene.Selector{MaxCloudCover: cfg.MaxCloudCover, Log: s.log}
	selected, err := selector.Select(candidates)
	if err != nil {
		return mapspec.MapSpec{}, err
	}
	s.log.Info().
		Str("scene", selected.ID).
		Time("captured", selected.Properties.Datetime).
		Msg("scene selected")

	tileURL, err := tiler.BuildTileTemplate(selected, cfg.AssetKey, cfg.TilerURL, opts.Render)
	if err != nil {
		return mapspec.MapSpec{}, err
	}

	return mapspec.Assemble(feat, selected, tileURL, cfg.AssetKey, cfg.NameKey), nil
}

// effective merges per-call overrides onto the configured settings.
func (s *MapService) effective(opts BuildOptions) config.Settings {
	cfg := s.settings
	if opts.GeoJSONPath != "" {
		cfg.GeoJSONPath = opts.GeoJSONPath
	}
	if opts.Collection != "" {
		cfg.Collection = opts.Collection
	}
	if opts.AssetKey != "" {
		cfg.AssetKey = opts.AssetKey
	}
	if opts.NameKey != "" {
		cfg.NameKey = opts.NameKey
	}
	if opts.SearchPeriod > 0 {
		cfg.SearchPeriod = opts.SearchPeriod
	}
	if opts.MaxCloudCover != nil {
		cfg.MaxCloudCover = *opts.MaxCloudCover
	}
	return cfg
}

func featureLabel(f *geojson.Feature, nameKey string) string {
	if v, ok := f.Properties[nameKey]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "(unnamed)"
}
