package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig loads the optional TOML file with pipeline tuning and the
// assistant persona. Missing values fall back to the pipeline defaults.
type AppConfig struct {
	path string

	Persona  string         `toml:"persona"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// PipelineConfig holds the tunable pipeline parameters
type PipelineConfig struct {
	TopK              int `toml:"top_k"`
	ReplyLimit        int `toml:"reply_limit"`
	TimeoutSeconds    int `toml:"timeout_seconds"`
	DedupeTTLSeconds  int `toml:"dedupe_ttl_seconds"`
	PendingTTLSeconds int `toml:"pending_ttl_seconds"`
	WindowTTLSeconds  int `toml:"window_ttl_seconds"`
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file (persona, pipeline tuning)",
			Sources:     cli.EnvVars("MEMOVOX_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML file (when given) and returns the pipeline
// configuration
func (a *AppConfig) Configure() (usecase.Config, error) {
	if a.path != "" {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return usecase.Config{}, goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
		}
		if err := toml.Unmarshal(data, a); err != nil {
			return usecase.Config{}, goerr.Wrap(err, "failed to parse config file", goerr.V("path", a.path))
		}
	}

	return usecase.Config{
		Persona:         a.Persona,
		TopK:            a.Pipeline.TopK,
		ReplyLimit:      a.Pipeline.ReplyLimit,
		PipelineTimeout: time.Duration(a.Pipeline.TimeoutSeconds) * time.Second,
		DedupeTTL:       time.Duration(a.Pipeline.DedupeTTLSeconds) * time.Second,
		PendingTTL:      time.Duration(a.Pipeline.PendingTTLSeconds) * time.Second,
		WindowTTL:       time.Duration(a.Pipeline.WindowTTLSeconds) * time.Second,
	}, nil
}
