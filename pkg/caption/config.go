package caption

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds captioning provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Provider endpoint
	BaseURL string
	APIKey  string

	// Model selection, for servers that host more than one.
	Model string

	// Timeout bounds a single captioning request. Note that the detection
	// loop applies no timeout of its own: if the provider hangs for the
	// full timeout, the current tick hangs with it.
	Timeout time.Duration

	// HTTPClient overrides the shared default client.
	HTTPClient *http.Client

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring captioning providers.
type Option func(*Config)

// WithBaseURL sets the inference server base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the API key for the provider.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger for provider diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
