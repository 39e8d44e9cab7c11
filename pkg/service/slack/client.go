package slack

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service
type client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient overrides the HTTP client, used by tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a Slack service with the app's OAuth credentials
func New(clientID, clientSecret, redirectURI string, opts ...Option) (Service, error) {
	if clientID == "" || clientSecret == "" {
		return nil, goerr.New("Slack client ID and secret are required")
	}

	c := &client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) ExchangeOAuthCode(ctx context.Context, code string) (*Authorization, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, c.httpClient, c.clientID, c.clientSecret, code, c.redirectURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange OAuth code")
	}

	auth := &Authorization{
		TeamID:      resp.Team.ID,
		UserID:      resp.AuthedUser.ID,
		AccessToken: resp.AccessToken,
	}
	if auth.AccessToken == "" {
		auth.AccessToken = resp.AuthedUser.AccessToken
	}

	if auth.TeamID == "" || auth.UserID == "" {
		return nil, goerr.New("OAuth response missing team or user",
			goerr.V("teamID", auth.TeamID),
			goerr.V("userID", auth.UserID),
		)
	}

	return auth, nil
}

func (c *client) PostResponse(ctx context.Context, responseURL string, msg *slack.Msg) error {
	webhookMsg := &slack.WebhookMessage{
		Text:            msg.Text,
		Attachments:     msg.Attachments,
		ResponseType:    msg.ResponseType,
		ReplaceOriginal: msg.ReplaceOriginal,
		DeleteOriginal:  msg.DeleteOriginal,
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, c.httpClient, webhookMsg); err != nil {
		return goerr.Wrap(err, "failed to post to response URL")
	}
	return nil
}
