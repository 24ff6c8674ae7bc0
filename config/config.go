package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

const (
	ProviderEquipChain = "equipchain"
	ProviderKratos     = "kratos"
)

var (
	ErrInvalidAPIURL   = errors.New("invalid api url")
	ErrUnknownProvider = errors.New("unknown auth provider")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Config holds runtime settings. APIURL is read once at start-up and never
// changes afterwards.
type Config struct {
	ListenAddr     string
	APIURL         string
	AuthProvider   string
	KratosURL      string
	JWKSURL        string
	TokenDBPath    string
	RequestTimeout time.Duration
	PageSize       int
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:3000"
	c.APIURL = "http://127.0.0.1:8080"
	c.AuthProvider = ProviderEquipChain
	c.KratosURL = "http://127.0.0.1:4433"
	c.JWKSURL = ""
	c.TokenDBPath = "equipchain.db"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 10
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.APIURL)
	}
	switch c.AuthProvider {
	case ProviderEquipChain, ProviderKratos:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.AuthProvider)
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file, the environment and the
// command-line flags in that order.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
