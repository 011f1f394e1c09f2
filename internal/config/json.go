package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonClientConfig mirrors [ClientConfig] with JSON-friendly field types
// (durations are accepted as strings like "15s" or "5m").
type jsonClientConfig struct {
	App struct {
		RefreshInterval Duration `json:"refresh_interval"`
		Location        string   `json:"location"`
		DeviceID        string   `json:"device_id"`
	} `json:"app,omitempty"`

	API struct {
		BaseURL        string   `json:"url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"api,omitempty"`

	Store struct {
		Path string `json:"path"`
	} `json:"store,omitempty"`
}

func parseJSON(jsonFilePath string) (*ClientConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonClientConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &ClientConfig{
		App: App{
			RefreshInterval: time.Duration(jsonCfg.App.RefreshInterval),
			Location:        jsonCfg.App.Location,
			DeviceID:        jsonCfg.App.DeviceID,
		},
		API: API{
			BaseURL:        jsonCfg.API.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.API.RequestTimeout),
		},
		Store: Store{
			Path: jsonCfg.Store.Path,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
