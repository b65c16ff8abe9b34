package config

import (
	"log/slog"

	"github.com/memovox/memovox/pkg/service/twilio"
	"github.com/urfave/cli/v3"
)

// Twilio holds configuration for the message gateway
type Twilio struct {
	accountSID string
	authToken  string
}

// Flags returns CLI flags for Twilio configuration
func (t *Twilio) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "twilio-account-sid",
			Usage:       "Twilio account SID for media downloads",
			Sources:     cli.EnvVars("MEMOVOX_TWILIO_ACCOUNT_SID"),
			Destination: &t.accountSID,
		},
		&cli.StringFlag{
			Name:        "twilio-auth-token",
			Usage:       "Twilio auth token for media downloads and webhook signature verification",
			Sources:     cli.EnvVars("MEMOVOX_TWILIO_AUTH_TOKEN"),
			Destination: &t.authToken,
		},
	}
}

func (t Twilio) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account-sid", t.accountSID),
		slog.Int("auth-token.len", len(t.authToken)),
	)
}

// AuthToken returns the webhook signature secret
func (t *Twilio) AuthToken() string {
	return t.authToken
}

// IsConfigured reports whether gateway credentials are present
func (t *Twilio) IsConfigured() bool {
	return t.accountSID != "" && t.authToken != ""
}

// Configure creates a media download client, or nil when credentials are
// not configured
func (t *Twilio) Configure() (*twilio.Client, error) {
	if !t.IsConfigured() {
		return nil, nil
	}
	return twilio.New(t.accountSID, t.authToken)
}
