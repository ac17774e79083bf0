package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/identity-client/internal/flagx"
	"github.com/dmitrijs2005/identity-client/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key from a zero value.
type JSONConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	StatusCheckInterval *timex.Duration `json:"status_check_interval"`
	StorageDriver       *string         `json:"storage_driver"`
	DatabasePath        *string         `json:"database_path"`
	RedisAddr           *string         `json:"redis_addr"`
	RedisDB             *int            `json:"redis_db"`
	RedisKeyPrefix      *string         `json:"redis_key_prefix"`
	LogLevel            *string         `json:"log_level"`
	LogOutput           *string         `json:"log_output"`
	LogJSON             *bool           `json:"log_json"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJSON overlays cfg with the file named by -c/-config, if any.
// Read and unmarshal errors panic.
func parseJSON(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerBaseURL, jc.ServerBaseURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatusCheckInterval != nil {
		cfg.StatusCheckInterval = jc.StatusCheckInterval.Duration
	}
	setIf(&cfg.StorageDriver, jc.StorageDriver)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisDB, jc.RedisDB)
	setIf(&cfg.RedisKeyPrefix, jc.RedisKeyPrefix)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogOutput, jc.LogOutput)
	setIf(&cfg.LogJSON, jc.LogJSON)
}
