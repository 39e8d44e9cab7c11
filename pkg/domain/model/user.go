package model

import (
	"time"

	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// User represents a workspace member who has authorized the app.
// (TeamID, ID) resolves to exactly one record; re-authorization overwrites
// the token fields in place.
type User struct {
	ID               types.UserID
	TeamID           types.TeamID
	SlackAccessToken string
	AccessToken      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
