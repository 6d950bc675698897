// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/feature"
	"github.com/mlanghor/stacmap/internal/mapspec"
	"github.com/mlanghor/stacmap/internal/scene"
	"github.com/mlanghor/stacmap/internal/service"
	"github.com/mlanghor/stacmap/internal/stac"
	"github.com/mlanghor/stacmap/internal/tiler"
)

// MapBuilder is the slice of MapService the handlers need.
type MapBuilder interface {
	BuildMap(ctx context.Context, opts service.BuildOptions) (mapspec.MapSpec, error)
}

// APIHandler holds the REST API handlers.
type APIHandler struct {
	maps MapBuilder
	log  zerolog.Logger
}

func NewAPIHandler(maps MapBuilder, log zerolog.Logger) *APIHandler {
	return &APIHandler{maps: maps, log: log}
}

// RegisterRoutes registers all REST routes with Huma.
func (h *APIHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/map", h.GetMap, huma.OperationTags("maps"))
}

// Types

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Features []string `json:"features" doc:"Available features"`
}

// MapInput carries the per-request overrides for map building.
type MapInput struct {
	Geojson       string  `query:"geojson" doc:"GeoJSON FeatureCollection path or URL to sample from"`
	Collection    string  `query:"collection" doc:"STAC collection ID to search" example:"sentinel-2-l2a"`
	AssetKey      string  `query:"asset_key" doc:"STAC asset key to tile" example:"visual"`
	NameKey       string  `query:"name_key" doc:"Feature property shown as the map title" example:"Name"`
	SearchPeriod  int     `query:"search_period" minimum:"0" maximum:"365" doc:"Search window in days before now"`
	MaxCloudCover float64 `query:"max_cloud_cover" minimum:"-1" maximum:"100" default:"-1" doc:"Preferred cloud cover ceiling in percent; -1 keeps the configured default"`
}

// MapSpecBody is the JSON MapSpec payload. The overlay is raw GeoJSON.
type MapSpecBody struct {
	Center      mapspec.Coordinate `json:"center" doc:"Initial map center"`
	Zoom        int                `json:"zoom" doc:"Initial zoom level"`
	TileURL     string             `json:"tileUrl" doc:"Tile URL template with {z}/{x}/{y} placeholders"`
	Attribution string             `json:"attribution" doc:"Imagery attribution"`
	Name        string             `json:"name" doc:"Name of the sampled feature"`
	SceneID     string             `json:"sceneId" doc:"Selected STAC item ID"`
	SceneDate   string             `json:"sceneDate" doc:"Scene capture date (YYYY-MM-DD)"`
	Overlay     json.RawMessage    `json:"overlay" doc:"GeoJSON Feature overlay for the sampled feature"`
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "stacmap",
		Version:  "1.0.0",
		Features: []string{"stac-search", "cog-tiles", "geojson-sampling"},
	}}, nil
}

func (h *APIHandler) GetMap(ctx context.Context, input *MapInput) (*struct{ Body MapSpecBody }, error) {
	spec, err := h.maps.BuildMap(ctx, buildOptions(input))
	if err != nil {
		h.log.Error().Err(err).Msg("map build failed")
		return nil, pipelineError(err)
	}

	body, err := specBody(spec)
	if err != nil {
		return nil, err
	}
	return &struct{ Body MapSpecBody }{Body: body}, nil
}

func buildOptions(input *MapInput) service.BuildOptions {
	opts := service.BuildOptions{
		GeoJSONPath:  input.Geojson,
		Collection:   input.Collection,
		AssetKey:     input.AssetKey,
		NameKey:      input.NameKey,
		SearchPeriod: input.SearchPeriod,
	}
	if input.MaxCloudCover >= 0 {
		cc := input.MaxCloudCover
		opts.MaxCloudCover = &cc
	}
	return opts
}

func specBody(spec mapspec.MapSpec) (MapSpecBody, error) {
	overlay, err := json.Marshal(spec.Overlay)
	if err != nil {
		return MapSpecBody{}, err
	}
	return MapSpecBody{
		Center:      spec.Center,
		Zoom:        spec.Zoom,
		TileURL:     spec.TileURL,
		Attribution: spec.Attribution,
		Name:        spec.Name,
		SceneID:     spec.SceneID,
		SceneDate:   spec.SceneDate,
		Overlay:     overlay,
	}, nil
}

// pipelineError maps pipeline error kinds to HTTP statuses while keeping
// the kind visible in the response detail.
func pipelineError(err error) error {
	switch {
	case errors.Is(err, stac.ErrCatalogUnavailable):
		return huma.Error502BadGateway("satellite catalog unavailable", err)
	case errors.Is(err, scene.ErrNoScenesFound):
		return huma.Error404NotFound("no matching scenes for the sampled feature")
	case errors.Is(err, tiler.ErrMissingAsset):
		return huma.Error502BadGateway("selected scene has no imagery asset", err)
	case errors.Is(err, feature.ErrDataFormat), errors.Is(err, feature.ErrEmptyCollection):
		return huma.Error500InternalServerError("feature dataset unusable", err)
	default:
		return huma.Error500InternalServerError("map build failed", err)
	}
}
