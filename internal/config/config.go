// Package config loads the client configuration from environment variables,
// command-line flags, and an optional JSON file.
//
// Sources are merged in priority order (first non-zero value wins):
// environment, flags, JSON file. The JSON file path itself is resolved from
// the first two sources (CONFIG env variable or the -c/-config flag).
package config

import "time"

// ClientConfig is the top-level configuration for the attendance client.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type ClientConfig struct {
	// App holds application-level behavior settings.
	App App `envPrefix:"NEXUS_APP_" json:"app,omitempty"`

	// API holds the backend endpoint settings. An empty BaseURL (or one
	// pointing at a loopback host) selects fallback mode.
	API API `envPrefix:"NEXUS_API_" json:"api,omitempty"`

	// Store holds the persistent credential store settings.
	Store Store `envPrefix:"NEXUS_STORE_" json:"store,omitempty"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c/-config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// API holds network settings for the outbound transport layer.
type API struct {
	// BaseURL is the backend base URL (e.g. "https://api.nexus.example").
	// Env: NEXUS_API_URL
	BaseURL string `env:"URL" json:"url"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request (e.g. "15s"). Env: NEXUS_API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Store holds settings for the durable credential store.
type Store struct {
	// Path is the sqlite file the session token and cached profile are
	// persisted to. Env: NEXUS_STORE_PATH
	Path string `env:"PATH" json:"path"`
}

// App holds application-level behavior settings.
type App struct {
	// RefreshInterval is how often the background session refresh revalidates
	// the token against the backend. Env: NEXUS_APP_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" json:"refresh_interval"`

	// Location is the default check-in location sent when the caller does
	// not provide one. Env: NEXUS_APP_LOCATION
	Location string `env:"LOCATION" json:"location"`

	// DeviceID identifies this client installation in check-in metadata.
	// Env: NEXUS_APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID" json:"device_id"`
}

// Defaults applied by validate for fields left unset by every source.
const (
	DefaultRequestTimeout  = 15 * time.Second
	DefaultRefreshInterval = 5 * time.Minute
	DefaultStorePath       = "nexus-session.db"
	DefaultLocation        = "Main Office - Floor 3"
	DefaultDeviceID        = "go-client"
)

// GetClientConfig loads, merges, and validates the client configuration from
// all available sources.
//
// Returns a fully populated *ClientConfig or an error if any source fails to
// load.
func GetClientConfig() (*ClientConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// validate fills defaults for unset fields. An empty API.BaseURL is valid:
// it means the client runs in fallback mode.
func (cfg *ClientConfig) validate() error {
	if cfg.API.RequestTimeout <= 0 {
		cfg.API.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.App.RefreshInterval <= 0 {
		cfg.App.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.App.Location == "" {
		cfg.App.Location = DefaultLocation
	}
	if cfg.App.DeviceID == "" {
		cfg.App.DeviceID = DefaultDeviceID
	}
	return nil
}
