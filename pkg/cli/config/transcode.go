package config

import (
	"github.com/memovox/memovox/pkg/service/transcode"
	"github.com/urfave/cli/v3"
)

// Transcode holds configuration for the audio converter service
type Transcode struct {
	baseURL string
}

// Flags returns CLI flags for converter configuration
func (t *Transcode) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "converter-url",
			Usage:       "Base URL of the audio converter service",
			Sources:     cli.EnvVars("MEMOVOX_CONVERTER_URL"),
			Destination: &t.baseURL,
		},
	}
}

// Configure creates a converter client, or nil when no endpoint is
// configured
func (t *Transcode) Configure() (*transcode.Client, error) {
	if t.baseURL == "" {
		return nil, nil
	}
	return transcode.New(t.baseURL)
}
