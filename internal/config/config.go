// Package config provides YAML configuration file loading and validation.
// It handles environment variable expansion, default value application,
// and ensures all required configuration fields are present.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBlockCount  = 20
	DefaultAddr        = ":8080"
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 100
	DefaultLogLevel    = "info"
)

// warnOut receives validation warnings.
var warnOut io.Writer = os.Stderr

// Config represents the root configuration structure loaded from YAML.
type Config struct {
	Providers []Provider `yaml:"providers"`
	Defaults  Defaults   `yaml:"defaults"`
	Dashboard Dashboard  `yaml:"dashboard"`
	Server    Server     `yaml:"server"`
	Log       Log        `yaml:"log"`
}

// Provider is a single Ethereum JSON-RPC endpoint.
type Provider struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`               // supports ${VAR} env expansion
	Timeout time.Duration `yaml:"timeout,omitempty"` // falls back to Defaults.Timeout
}

// Defaults apply to every provider.
type Defaults struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffInitial time.Duration `yaml:"backoff_initial"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
	Concurrency    int           `yaml:"concurrency"` // parallel block requests, 0 = unbounded
}

// Dashboard controls the view synchronizer.
type Dashboard struct {
	BlockCount   int           `yaml:"block_count"`
	Revalidate   Revalidate    `yaml:"revalidate"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type Revalidate struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type Server struct {
	Addr       string        `yaml:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	// MaxSessions caps concurrently mounted dashboards.
	MaxSessions int `yaml:"max_sessions"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Validate checks required fields and applies defaults to optional ones.
// Suspicious values produce warnings on stderr but do not fail validation.
func (c *Config) Validate() error {
	if c.Defaults.Timeout == 0 {
		return fmt.Errorf("defaults.timeout is required")
	}
	if c.Defaults.MaxRetries < 0 {
		return fmt.Errorf("defaults.max_retries must be >= 0")
	}
	if c.Defaults.Concurrency < 0 {
		return fmt.Errorf("defaults.concurrency must be >= 0")
	}
	if c.Defaults.BackoffMax > 0 && c.Defaults.BackoffInitial > c.Defaults.BackoffMax {
		return fmt.Errorf("defaults.backoff_initial (%s) exceeds defaults.backoff_max (%s)",
			c.Defaults.BackoffInitial, c.Defaults.BackoffMax)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}

	switch {
	case c.Dashboard.BlockCount == 0:
		c.Dashboard.BlockCount = DefaultBlockCount
	case c.Dashboard.BlockCount < 0:
		return fmt.Errorf("dashboard.block_count must be > 0")
	}
	if c.Dashboard.Revalidate.Enabled && c.Dashboard.Revalidate.Interval <= 0 {
		return fmt.Errorf("dashboard.revalidate.interval is required when revalidation is enabled")
	}
	if c.Dashboard.FetchTimeout < 0 {
		return fmt.Errorf("dashboard.fetch_timeout must be >= 0")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	switch {
	case c.Server.MaxSessions == 0:
		c.Server.MaxSessions = DefaultMaxSessions
	case c.Server.MaxSessions < 0:
		return fmt.Errorf("server.max_sessions must be > 0")
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	warnTimeout := func(scope string, d time.Duration) {
		const low = 500 * time.Millisecond
		const high = 2 * time.Minute
		if d > 0 && d < low {
			fmt.Fprintf(warnOut, "Warning: %s timeout is very low (%s); requests may fail under normal network jitter\n", scope, d)
		}
		if d > high {
			fmt.Fprintf(warnOut, "Warning: %s timeout is very high (%s); failures may take a long time to surface\n", scope, d)
		}
	}
	warnTimeout("defaults", c.Defaults.Timeout)

	if r := c.Dashboard.Revalidate; r.Enabled && r.Interval < time.Second {
		fmt.Fprintf(warnOut, "Warning: revalidation interval is very short (%s); providers may rate limit the dashboard\n", r.Interval)
	}

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			return fmt.Errorf("provider #%d: name is required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %s: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.Timeout == 0 {
			p.Timeout = c.Defaults.Timeout
		}
		if p.URL == "" {
			return fmt.Errorf("provider %s: url is required", p.Name)
		}

		u, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("provider %s: invalid url: %w", p.Name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %s: invalid url (missing scheme or host)", p.Name)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("provider %s: invalid url scheme %q (expected http or https)", p.Name, u.Scheme)
		}

		warnTimeout(fmt.Sprintf("provider %s", p.Name), p.Timeout)
	}

	return nil
}

// Provider returns the named provider, or the first configured one when name
// is empty.
func (c *Config) Provider(name string) (Provider, error) {
	if name == "" {
		return c.Providers[0], nil
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("provider %q not found in config", name)
}

// Load reads a YAML configuration file, expands ${VAR} references from the
// environment and validates the result.
//
// Required: defaults.timeout and at least one provider with a name and an
// http(s) url. Everything else has a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
