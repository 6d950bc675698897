// Lambda entrypoint: serves the same HTTP surface as cmd/stacmap behind an
// API Gateway proxy integration.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/mlanghor/stacmap/internal/config"
	"github.com/mlanghor/stacmap/internal/logger"
	"github.com/mlanghor/stacmap/internal/server"
)

func main() {
	settings, err := config.Load(os.Getenv("STACMAP_CONFIG"))
	if err != nil {
		panic(err)
	}

	log := logger.Build(logger.Config{
		Level:     envOr("LOG_LEVEL", "info"),
		Component: "stacmap-lambda",
	}, nil)

	srv := server.New(server.Config{
		Host:     "lambda",
		Port:     "443",
		WebDir:   envOr("WEB_DIR", "web"),
		Settings: settings,
		Logger:   log,
	})

	lambda.Start(httpadapter.New(srv).ProxyWithContext)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
