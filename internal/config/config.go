// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL   = "https://api.interkassa.com/v1/"
	DefaultSCIURL   = "https://sci.interkassa.com/"
	DefaultSignAlgo = "md5"
)

type RuntimeConfig struct {
	Dev bool
}

// InterkassaConfig holds checkout and API credentials. Secrets may come from the environment.
type InterkassaConfig struct {
	CoID       string        `yaml:"co_id" env:"IK_CO_ID"`
	SecretKey  string        `yaml:"secret_key" env:"IK_SECRET_KEY"`
	TestKey    string        `yaml:"test_key" env:"IK_TEST_KEY"`
	SignAlgo   string        `yaml:"sign_algo" env:"IK_SIGN_ALGO"`
	APIUserID  string        `yaml:"api_user_id" env:"IK_API_USER_ID"`
	APIUserKey string        `yaml:"api_user_key" env:"IK_API_USER_KEY"`
	APIURL     string        `yaml:"api_url"`
	SCIURL     string        `yaml:"sci_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// WarmInterval refreshes the cached account id and listings in the background.
	WarmInterval time.Duration `yaml:"warm_interval"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer key for /api/v1; empty disables auth

	// WithdrawLimit caps withdrawal submissions per client and window; 0 disables.
	// Only enforced with a Redis backend.
	WithdrawLimit  int           `yaml:"withdraw_limit"`
	WithdrawWindow time.Duration `yaml:"withdraw_window"`
}

// RedisConfig is optional; an empty URL selects the in-process cache.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Interkassa InterkassaConfig `yaml:"interkassa"`
	Log        LogConfig        `yaml:"log"`
	HTTP       HTTPConfig       `yaml:"http"`
	Redis      RedisConfig      `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies IK_* environment overrides,
// fills defaults and validates.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b, dev)
}

// Parse is LoadConfig without the file read.
func Parse(b []byte, dev bool) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(&cfg.Interkassa); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Interkassa.SignAlgo == "" {
		c.Interkassa.SignAlgo = DefaultSignAlgo
	}
	c.Interkassa.SignAlgo = strings.ToLower(c.Interkassa.SignAlgo)
	if c.Interkassa.APIURL == "" {
		c.Interkassa.APIURL = DefaultAPIURL
	}
	if !strings.HasSuffix(c.Interkassa.APIURL, "/") {
		c.Interkassa.APIURL += "/"
	}
	if c.Interkassa.SCIURL == "" {
		c.Interkassa.SCIURL = DefaultSCIURL
	}
	if c.Interkassa.Timeout <= 0 {
		c.Interkassa.Timeout = 15 * time.Second
	}
	if c.Interkassa.WarmInterval <= 0 {
		c.Interkassa.WarmInterval = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.WithdrawWindow <= 0 {
		c.HTTP.WithdrawWindow = time.Minute
	}
}

// Validate checks the options the merchant cannot run without.
func (c *Config) Validate() error {
	ik := c.Interkassa
	if ik.CoID == "" {
		return errors.New("interkassa.co_id is required")
	}
	if ik.SecretKey == "" {
		return errors.New("interkassa.secret_key is required")
	}
	if c.Runtime.Dev && ik.TestKey == "" {
		return errors.New("interkassa.test_key is required in dev mode")
	}
	if (ik.APIUserID == "") != (ik.APIUserKey == "") {
		return errors.New("interkassa.api_user_id and interkassa.api_user_key must be set together")
	}
	if c.HTTP.WithdrawLimit < 0 {
		return errors.New("http.withdraw_limit must not be negative")
	}
	switch ik.SignAlgo {
	case "md5", "sha1", "sha256", "sha512":
	default:
		return fmt.Errorf("interkassa.sign_algo %q is not supported", ik.SignAlgo)
	}
	return nil
}

// APIEnabled reports whether REST credentials are configured.
func (c *Config) APIEnabled() bool {
	return c.Interkassa.APIUserID != "" && c.Interkassa.APIUserKey != ""
}
