package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/finapp/internal/flagx"
	"github.com/dmitrijs2005/finapp/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the splash time either as a string
// like "2s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL    string         `json:"server_base_url"`
	LocalDBPath      string         `json:"local_db_path"`
	SplashMinDisplay timex.Duration `json:"splash_min_display"`
}

// parseJson overlays Config with values loaded from the JSON file given via
// -c/-config. Missing flag means no JSON is loaded. Read or unmarshal
// errors panic; config is resolved before anything else starts.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.SplashMinDisplay.Duration != 0 {
		cfg.SplashMinDisplay = jc.SplashMinDisplay.Duration
	}
}
