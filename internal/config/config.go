// Package config provides layered configuration for repo-analyzer.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the cmd package)
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the output package.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .repo-analyzer.yaml (current directory)
//   - .repo-analyzer.yml (current directory)
//   - ~/.config/repo-analyzer/config.yaml
//
// Succeeds with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			".repo-analyzer.yaml",
			".repo-analyzer.yml",
			filepath.Join(home, ".config", "repo-analyzer", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if branch := os.Getenv("REPO_ANALYZER_DEFAULT_BRANCH"); branch != "" {
		cfg.Analysis.DefaultBranch = branch
	}
	if timeout := os.Getenv("REPO_ANALYZER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid REPO_ANALYZER_TIMEOUT %q: %w", timeout, err)
		}
		cfg.GitHub.RequestTimeout = d
	}
	return nil
}

// Token returns the access token from the configured environment variable.
// An empty result means anonymous access.
func (c *Config) Token() string {
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// Validate checks if the configuration contains valid values.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.GitHub.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got: %s", c.GitHub.RequestTimeout)
	}
	if c.GitHub.RateLimitMaxWait < 0 {
		return fmt.Errorf("rate limit max wait must not be negative, got: %s", c.GitHub.RateLimitMaxWait)
	}
	if c.Analysis.StalePullDays < 0 {
		return fmt.Errorf("stale pull days must not be negative, got: %d", c.Analysis.StalePullDays)
	}
	if c.Analysis.StaleIssueDays < 0 {
		return fmt.Errorf("stale issue days must not be negative, got: %d", c.Analysis.StaleIssueDays)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q, want %s or %s", c.Output.Format, FormatText, FormatJSON)
	}
	return nil
}
