package live

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/mapspec"
	"github.com/mlanghor/stacmap/internal/service"
	"github.com/mlanghor/stacmap/internal/templates"
)

// MapBuilder matches service.MapService.
type MapBuilder interface {
	BuildMap(ctx context.Context, opts service.BuildOptions) (mapspec.MapSpec, error)
}

// MapHandler streams freshly built map fragments to the live page.
type MapHandler struct {
	maps     MapBuilder
	renderer *templates.Renderer
	log      zerolog.Logger
}

// NewMapHandler creates a live map handler.
func NewMapHandler(maps MapBuilder, renderer *templates.Renderer, log zerolog.Logger) *MapHandler {
	return &MapHandler{maps: maps, renderer: renderer, log: log}
}

// RegisterRoutes registers the live map routes with Huma.
func (h *MapHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/live/map", h.Refresh)
}

// Refresh builds a new random map and patches it into the page.
func (h *MapHandler) Refresh(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSEContext(humaCtx)
			sse.SendSignals(map[string]any{"status": "Searching for a scene...", "error": ""})

			spec, err := h.maps.BuildMap(ctx, service.BuildOptions{})
			if err != nil {
				h.log.Error().Err(err).Msg("live map build failed")
				sse.SendError(err.Error())
				return
			}

			html, err := h.renderer.Render("map_fragment.html", spec)
			if err != nil {
				h.log.Error().Err(err).Msg("fragment render failed")
				sse.SendError("could not render map")
				return
			}

			sse.PatchElements(html, "#map-panel")
			sse.SendSignals(map[string]any{
				"status": spec.Name + " (" + spec.SceneDate + ")",
			})
		},
	}, nil
}
