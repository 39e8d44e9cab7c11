package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Authorization is the result of an OAuth code exchange
type Authorization struct {
	TeamID      string
	UserID      string
	AccessToken string
}

// Service covers the outbound Slack calls the app makes. Message payloads
// themselves are built by the render functions; this interface only moves
// them over the wire.
type Service interface {
	// ExchangeOAuthCode trades an OAuth v2 authorization code for tokens
	ExchangeOAuthCode(ctx context.Context, code string) (*Authorization, error)

	// PostResponse delivers a message to an interaction's response URL
	PostResponse(ctx context.Context, responseURL string, msg *slack.Msg) error
}
