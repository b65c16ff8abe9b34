package config

import (
	"context"

	"github.com/memovox/memovox/pkg/service/storage"
	"github.com/urfave/cli/v3"
)

// Storage holds configuration for the raw audio archive
type Storage struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for archive configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "audio-bucket",
			Usage:       "Cloud Storage bucket for raw voice-note archival (optional)",
			Sources:     cli.EnvVars("MEMOVOX_AUDIO_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "audio-prefix",
			Usage:       "Object key prefix inside the audio bucket",
			Value:       "audio",
			Sources:     cli.EnvVars("MEMOVOX_AUDIO_PREFIX"),
			Destination: &s.prefix,
		},
	}
}

// Configure creates an archive client, or nil when no bucket is configured
func (s *Storage) Configure(ctx context.Context) (*storage.Client, error) {
	if s.bucket == "" {
		return nil, nil
	}
	return storage.New(ctx, s.bucket, storage.WithPrefix(s.prefix))
}
