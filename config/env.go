package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "EQUIPCHAIN_"

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LISTEN_ADDR":   &cfg.ListenAddr,
		"API_URL":       &cfg.APIURL,
		"AUTH_PROVIDER": &cfg.AuthProvider,
		"KRATOS_URL":    &cfg.KratosURL,
		"JWKS_URL":      &cfg.JWKSURL,
		"TOKEN_DB_PATH": &cfg.TokenDBPath,
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FORMAT":    &cfg.LogFormat,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}

	if v, ok := lookup(envPrefix + "PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPAGE_SIZE: %w", envPrefix, err)
		}
		cfg.PageSize = n
	}
	return nil
}
