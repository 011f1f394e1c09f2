package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a backend base URL (empty selects fallback mode)
//	-s credential store sqlite file path
//	-c/-config json file path with configs
//	-request-timeout outbound request timeout (e.g., "15s")
//	-refresh-interval session refresh interval (e.g., "5m")
//	-location default check-in location
//	-device-id client device identifier
func ParseFlags() *ClientConfig {
	var apiURL string
	var storePath string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var refreshInterval time.Duration
	var location string
	var deviceID string

	flag.StringVar(&apiURL, "a", "", "Backend base URL")
	flag.StringVar(&storePath, "s", "", "Credential store file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Session refresh interval (e.g., 5m)")
	flag.StringVar(&location, "location", "", "Default check-in location")
	flag.StringVar(&deviceID, "device-id", "", "Client device identifier")

	flag.Parse()

	return &ClientConfig{
		App: App{
			RefreshInterval: refreshInterval,
			Location:        location,
			DeviceID:        deviceID,
		},
		API: API{
			BaseURL:        apiURL,
			RequestTimeout: requestTimeout,
		},
		Store: Store{
			Path: storePath,
		},
		JSONFilePath: jsonConfigPath,
	}
}
