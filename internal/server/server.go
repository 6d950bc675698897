// Package server wires the HTTP surface: Huma JSON API, HTML map pages and
// the live SSE endpoints.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/zerolog"

	"github.com/mlanghor/stacmap/internal/api"
	"github.com/mlanghor/stacmap/internal/api/live"
	"github.com/mlanghor/stacmap/internal/config"
	"github.com/mlanghor/stacmap/internal/feature"
	"github.com/mlanghor/stacmap/internal/scene"
	"github.com/mlanghor/stacmap/internal/service"
	"github.com/mlanghor/stacmap/internal/stac"
	"github.com/mlanghor/stacmap/internal/templates"
	"github.com/mlanghor/stacmap/internal/tiler"
)

// Config holds the server configuration.
type Config struct {
	Host     string
	Port     string
	WebDir   string // path to web/ directory for templates
	Settings config.Settings
	Logger   zerolog.Logger
	Rand     *rand.Rand // nil for a time-seeded source
}

// Server is the stacmap HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	maps     *service.MapService
	renderer *templates.Renderer
	log      zerolog.Logger
}

// New creates a new stacmap server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("stacmap API", "1.0.0")
	humaConfig.Info.Description = "Picks a random geographic feature, finds a recent satellite scene over it and serves an interactive COG map."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaAPI := humago.New(mux, humaConfig)

	catalog := stac.NewClient(cfg.Settings.Catalog, stac.WithLogger(cfg.Logger))
	maps := service.NewMapService(cfg.Settings, catalog, cfg.Rand, cfg.Logger)

	var renderer *templates.Renderer
	if cfg.WebDir != "" {
		templatesDir := filepath.Join(cfg.WebDir, "templates")
		if r, err := templates.New(templatesDir); err == nil {
			renderer = r
		} else {
			cfg.Logger.Warn().Err(err).Str("dir", templatesDir).Msg("templates unavailable, HTML routes disabled")
		}
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		maps:     maps,
		renderer: renderer,
		log:      cfg.Logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// MapService exposes the pipeline, used by the render CLI path.
func (s *Server) MapService() *service.MapService {
	return s.maps
}

// Renderer exposes the template renderer, used by the render CLI path.
func (s *Server) Renderer() *templates.Renderer {
	return s.renderer
}

func (s *Server) routes() {
	handler := api.NewAPIHandler(s.maps, s.log)
	handler.RegisterRoutes(s.humaAPI)

	if s.renderer != nil {
		liveHandler := live.NewMapHandler(s.maps, s.renderer, s.log)
		liveHandler.RegisterRoutes(s.humaAPI)

		s.mux.HandleFunc("/map", s.handleMapPage)
		s.mux.HandleFunc("/live", s.handleLivePage)
	}

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "stacmap",
		"status":  "running",
	})
}

// handleMapPage builds a map and renders the full HTML page, honoring the
// same per-request overrides as the JSON route.
func (s *Server) handleMapPage(w http.ResponseWriter, r *http.Request) {
	opts := buildOptionsFromQuery(r)

	spec, err := s.maps.BuildMap(r.Context(), opts)
	if err != nil {
		s.log.Error().Err(err).Msg("map page build failed")
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	html, err := s.renderer.Render("map.html", spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleLivePage(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "live.html")
	http.ServeFile(w, r, templatePath)
}

func buildOptionsFromQuery(r *http.Request) service.BuildOptions {
	q := r.URL.Query()
	opts := service.BuildOptions{
		GeoJSONPath: q.Get("geojson"),
		Collection:  q.Get("collection"),
		AssetKey:    q.Get("asset_key"),
		NameKey:     q.Get("name_key"),
	}
	if v := q.Get("search_period"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.SearchPeriod = n
		}
	}
	if v := q.Get("max_cloud_cover"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			opts.MaxCloudCover = &f
		}
	}
	return opts
}

// statusFor maps pipeline error kinds to HTTP statuses for the HTML routes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, stac.ErrCatalogUnavailable), errors.Is(err, tiler.ErrMissingAsset):
		return http.StatusBadGateway
	case errors.Is(err, scene.ErrNoScenesFound):
		return http.StatusNotFound
	case errors.Is(err, feature.ErrDataFormat), errors.Is(err, feature.ErrEmptyCollection):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
