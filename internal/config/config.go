// Package config provides environment configuration for the shopwatch server.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds the detection server configuration, populated from the
// environment. All fields have working defaults except the captioning
// endpoint, which must point at a running inference server.
type Server struct {
	// Addr is the listen address for the HTTP API.
	Addr string `env:"ADDR" envDefault:":8080"`

	// CaptionURL is the base URL of the image captioning inference server.
	CaptionURL string `env:"CAPTION_URL" envDefault:"http://localhost:9000"`

	// CaptionAPIKey authenticates against the captioning server, if required.
	CaptionAPIKey string `env:"CAPTION_API_KEY"`

	// CaptionTimeout bounds a single captioning request.
	CaptionTimeout time.Duration `env:"CAPTION_TIMEOUT" envDefault:"30s"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadServer parses the server configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}
