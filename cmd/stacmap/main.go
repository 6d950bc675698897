package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mlanghor/stacmap/internal/config"
	"github.com/mlanghor/stacmap/internal/logger"
	"github.com/mlanghor/stacmap/internal/server"
	"github.com/mlanghor/stacmap/internal/service"
	"github.com/mlanghor/stacmap/internal/stac"
	"github.com/mlanghor/stacmap/internal/templates"
	"github.com/mlanghor/stacmap/internal/tiler"
)

// Options defines all CLI flags and env vars for stacmap.
// Flags: --host, --port, --web-dir, --config, --geojson, --catalog, ...
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_WEB_DIR, ...
type Options struct {
	Host          string  `doc:"Host to bind to" default:"0.0.0.0"`
	Port          int     `doc:"Port to listen on" short:"p" default:"8080"`
	WebDir        string  `doc:"Path to web/ directory" default:"web"`
	Config        string  `doc:"Path to a YAML settings file"`
	Geojson       string  `doc:"GeoJSON FeatureCollection path or URL"`
	Catalog       string  `doc:"URL to a public STAC catalog"`
	Collection    string  `doc:"STAC collection ID to search"`
	AssetKey      string  `doc:"STAC asset key to add to the map"`
	NameKey       string  `doc:"Feature property shown in the map popup"`
	SearchPeriod  int     `doc:"Search period in days"`
	MaxCloudCover int     `doc:"Preferred cloud cover ceiling in percent"`
	LogLevel      string  `doc:"Log level: debug|info|warn|error" default:"info"`
	LogConsole    bool    `doc:"Human-readable console logs instead of JSON" default:"true"`
}

// loadSettings overlays explicit flag values on the YAML file / defaults.
func loadSettings(opts *Options) (config.Settings, error) {
	settings, err := config.Load(opts.Config)
	if err != nil {
		return config.Settings{}, err
	}
	if opts.Geojson != "" {
		settings.GeoJSONPath = opts.Geojson
	}
	if opts.Catalog != "" {
		settings.Catalog = opts.Catalog
	}
	if opts.Collection != "" {
		settings.Collection = opts.Collection
	}
	if opts.AssetKey != "" {
		settings.AssetKey = opts.AssetKey
	}
	if opts.NameKey != "" {
		settings.NameKey = opts.NameKey
	}
	if opts.SearchPeriod > 0 {
		settings.SearchPeriod = opts.SearchPeriod
	}
	if opts.MaxCloudCover > 0 {
		settings.MaxCloudCover = float64(opts.MaxCloudCover)
	}
	return settings, nil
}

func newServer(opts *Options) (*server.Server, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	log := logger.Build(logger.Config{
		Level:     opts.LogLevel,
		Console:   opts.LogConsole,
		Component: "stacmap",
	}, nil)

	return server.New(server.Config{
		Host:     opts.Host,
		Port:     fmt.Sprintf("%d", opts.Port),
		WebDir:   opts.WebDir,
		Settings: settings,
		Logger:   log,
	}), nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		hooks.OnStart(func() {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("stacmap server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Map:     %s/map, %s/live\n", baseURL, baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
				os.Exit(1)
			}
		})
	})

	cli.Root().Use = "stacmap"
	cli.Root().Short = "Random-feature satellite scene maps from STAC and COGs"
	cli.Root().Version = "1.0.0"

	// render subcommand: one-shot static HTML map
	renderCmd := &cobra.Command{
		Use:   "render [geojson_file] [output_file]",
		Short: "Pick a random feature, find a scene and write a static HTML map",
		Args:  cobra.MaximumNArgs(2),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			if len(args) > 0 {
				opts.Geojson = args[0]
			}
			output := "map.html"
			if len(args) > 1 {
				output = args[1]
			}
			if err := runRender(opts, output); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Map written to %s\n", output)
		}),
	}
	cli.Root().AddCommand(renderCmd)

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}

// runRender executes the pipeline once and writes the rendered map page.
func runRender(opts *Options, output string) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}
	log := logger.Build(logger.Config{
		Level:     opts.LogLevel,
		Console:   opts.LogConsole,
		Component: "render",
	}, os.Stderr)

	catalog := stac.NewClient(settings.Catalog, stac.WithLogger(log))
	maps := service.NewMapService(settings, catalog, nil, log)

	spec, err := maps.BuildMap(context.Background(), service.BuildOptions{
		Render: tiler.RenderOptions{},
	})
	if err != nil {
		return err
	}

	renderer, err := templates.New(filepath.Join(opts.WebDir, "templates"))
	if err != nil {
		return err
	}
	html, err := renderer.Render("map.html", spec)
	if err != nil {
		return err
	}

	return os.WriteFile(output, []byte(html), 0o644)
}
