package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userapp/internal/flagx"
	"github.com/dmitrijs2005/userapp/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "15s" style strings or integer nanoseconds. Pointer fields distinguish
// an absent key from a zero value, so a partial file only overrides what
// it names.
type JsonConfig struct {
	EndpointAddrHTTP     *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC     *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN          *string         `json:"database_dsn"`
	ConnectRetryInterval *timex.Duration `json:"connect_retry_interval"`
	StrictMode           *bool           `json:"strict_mode"`
	PasswordScheme       *string         `json:"password_scheme"`
	RedisURL             *string         `json:"redis_url"`
	LogLevel             *string         `json:"log_level"`
	LogFormat            *string         `json:"log_format"`
	ShutdownTimeout      *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config into config. Without the
// flag nothing happens; an unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.StrictMode, c.StrictMode)
	setIf(&config.PasswordScheme, c.PasswordScheme)
	setIf(&config.RedisURL, c.RedisURL)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)
	if c.ConnectRetryInterval != nil {
		config.ConnectRetryInterval = c.ConnectRetryInterval.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
