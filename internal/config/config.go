package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Listen string `yaml:"listen"`
}

type Common struct {
	// Timeout for JSON status APIs. Default: 10s
	JSONTimeout time.Duration `yaml:"json_timeout"`
	// Timeout for RSS/XML feeds, which tend to be slower. Default: 30s
	XMLTimeout time.Duration `yaml:"xml_timeout"`
	// How often the server refreshes its snapshot. Default: 2m
	Interval time.Duration `yaml:"interval"`
	// HTTP user agent sent upstream
	UserAgent string `yaml:"user_agent"`
	// Log level: debug|info|warn|error
	LogLevel string `yaml:"log_level"`
}

// Feed describes the channel of the generated RSS feed.
type Feed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

type Provider struct {
	// Stable identifier, used by /api/status/{id}
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Human-facing status page
	URL string `yaml:"url"`
	// Endpoint that is polled
	APIURL string `yaml:"api_url"`
	// statuspage|google|salesforce|slack|rss
	Format string `yaml:"format"`
	// Skip TLS certificate validation for this endpoint only
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

type Config struct {
	Server    Server     `yaml:"server"`
	Common    Common     `yaml:"common"`
	Feed      Feed       `yaml:"feed"`
	Providers []Provider `yaml:"providers"`
}

// Load reads the YAML file at path and applies defaults. An empty path
// yields the defaults alone.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":3000"
	}
	if c.Common.JSONTimeout == 0 {
		c.Common.JSONTimeout = 10 * time.Second
	}
	if c.Common.XMLTimeout == 0 {
		c.Common.XMLTimeout = 30 * time.Second
	}
	if c.Common.Interval == 0 {
		c.Common.Interval = 2 * time.Minute
	}
	if c.Common.UserAgent == "" {
		c.Common.UserAgent = "Cloud-Status-Monitor/1.0"
	}
	if c.Feed.Title == "" {
		c.Feed.Title = "Cloud Status Monitor"
	}
	if c.Feed.Description == "" {
		c.Feed.Description = "Real-time monitoring of major cloud provider incidents and outages"
	}
	if c.Feed.Link == "" {
		c.Feed.Link = "https://cloudstatus.monitor"
	}
}

func (c *Config) validate() error {
	if c.Common.JSONTimeout < 0 || c.Common.XMLTimeout < 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Common.Interval < 0 {
		return fmt.Errorf("interval must be positive")
	}
	for i, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("providers[%d]: id is required", i)
		}
		if p.APIURL == "" {
			return fmt.Errorf("providers[%d] (%s): api_url is required", i, p.ID)
		}
	}
	return nil
}
