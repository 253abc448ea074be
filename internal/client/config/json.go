package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/charkeeper/internal/flagx"
	"github.com/dmitrijs2005/charkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	DataDir             string         `json:"data_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DebounceInterval    timex.Duration `json:"debounce_interval"`
}

// parseJson overlays cfg with values loaded from the JSON file referenced by
// the -c/-config flags. When no file is given the function returns without
// touching cfg. Read or unmarshal errors panic; the caller treats a broken
// explicit config file as unrecoverable.
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
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.DebounceInterval.Duration != 0 {
		cfg.DebounceInterval = time.Duration(jc.DebounceInterval.Duration)
	}
}
