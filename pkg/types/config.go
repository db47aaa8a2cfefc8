// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for API calls.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pplx/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig holds settings for the Perplexity API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Perplexity API bearer token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the local history subsystem.
type HistoryConfig struct {
	// DataDir is the base directory for history state. It contains the
	// SQLite database and the transcripts/ directory. Defaults to
	// ~/.local/share/pplx; overridable via PPLX_DATA_DIR.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Config groups all CLI configuration.
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	History HistoryConfig `json:"history" yaml:"history"`
}
