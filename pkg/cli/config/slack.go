package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack app credentials
type Slack struct {
	clientID      string
	clientSecret  string
	signingSecret string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack app client ID for OAuth",
			Category:    "Slack",
			Sources:     cli.EnvVars("POLLWIZ_SLACK_CLIENT_ID"),
			Destination: &s.clientID,
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack app client secret for OAuth",
			Category:    "Slack",
			Sources:     cli.EnvVars("POLLWIZ_SLACK_CLIENT_SECRET"),
			Destination: &s.clientSecret,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for webhook verification",
			Category:    "Slack",
			Sources:     cli.EnvVars("POLLWIZ_SLACK_SIGNING_SECRET"),
			Destination: &s.signingSecret,
		},
	}
}

// SigningSecret returns the configured signing secret
func (s *Slack) SigningSecret() string {
	return s.signingSecret
}

// Configure builds the Slack service. The redirect URI is derived from the
// app's base URL.
func (s *Slack) Configure(baseURL string) (slack.Service, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, goerr.New("slack-client-id and slack-client-secret are required")
	}
	if s.signingSecret == "" {
		return nil, goerr.New("slack-signing-secret is required")
	}

	redirectURI := ""
	if baseURL != "" {
		redirectURI = baseURL + "/auth/callback"
	}

	return slack.New(s.clientID, s.clientSecret, redirectURI)
}
