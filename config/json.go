package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("3s") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// jsonConfig is only used for unmarshalling; zero values leave the
// corresponding Config field untouched.
type jsonConfig struct {
	ListenAddr     string   `json:"listen_addr"`
	APIURL         string   `json:"api_url"`
	AuthProvider   string   `json:"auth_provider"`
	KratosURL      string   `json:"kratos_url"`
	JWKSURL        string   `json:"jwks_url"`
	TokenDBPath    string   `json:"token_db_path"`
	RequestTimeout Duration `json:"request_timeout"`
	PageSize       int      `json:"page_size"`
	LogLevel       string   `json:"log_level"`
	LogFormat      string   `json:"log_format"`
}

func parseJSON(cfg *Config, args []string) error {
	path := configFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.AuthProvider, jc.AuthProvider)
	setString(&cfg.KratosURL, jc.KratosURL)
	setString(&cfg.JWKSURL, jc.JWKSURL)
	setString(&cfg.TokenDBPath, jc.TokenDBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
