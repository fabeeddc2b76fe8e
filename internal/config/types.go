package config

import "time"

// Config represents the complete configuration structure for repo-analyzer.
// It supports GitHub Enterprise endpoints, analysis policy and output settings.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
}

// GitHubConfig contains GitHub API connection settings.
type GitHubConfig struct {
	// APIEndpoint is the REST API root
	APIEndpoint string `yaml:"api_endpoint"`

	// GraphQLEndpoint is the GraphQL endpoint used for repository metadata
	GraphQLEndpoint string `yaml:"graphql_endpoint"`

	// TokenEnv names the environment variable holding the access token
	TokenEnv string `yaml:"token_env"`

	// RequestTimeout bounds every HTTP request; 0 disables the timeout
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RateLimitMaxWait is the longest single wait on a secondary rate limit; 0 never waits
	RateLimitMaxWait time.Duration `yaml:"rate_limit_max_wait"`
}

// AnalysisConfig contains the aggregation policy.
type AnalysisConfig struct {
	// DefaultBranch is used when no branch is given and none can be looked up
	DefaultBranch string `yaml:"default_branch"`

	// MaxContributors bounds the contributor table
	MaxContributors int `yaml:"max_contributors"`

	// StalePullDays is the age after which an open pull request counts as stale
	StalePullDays int `yaml:"stale_pull_days"`

	// StaleIssueDays is the age after which an open issue counts as stale
	StaleIssueDays int `yaml:"stale_issue_days"`
}

// OutputConfig contains report rendering settings.
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:      "https://api.github.com",
			GraphQLEndpoint:  "https://api.github.com/graphql",
			TokenEnv:         "GITHUB_TOKEN",
			RequestTimeout:   30 * time.Second,
			RateLimitMaxWait: 0,
		},
		Analysis: AnalysisConfig{
			DefaultBranch:   "master",
			MaxContributors: 30,
			StalePullDays:   30,
			StaleIssueDays:  14,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
