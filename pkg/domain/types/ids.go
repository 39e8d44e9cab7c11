package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TeamID is the chat platform's workspace identifier (e.g. "T0123ABCD")
type TeamID string

// Validate checks if the TeamID is valid
func (x TeamID) Validate() error {
	if x == "" {
		return goerr.New("team ID cannot be empty")
	}
	return nil
}

// String returns the string representation of TeamID
func (x TeamID) String() string {
	return string(x)
}

// UserID is the chat platform's member identifier, unique within a team
type UserID string

// Validate checks if the UserID is valid
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (x UserID) String() string {
	return string(x)
}

// CallbackID correlates a rendered message's buttons back to its poll
type CallbackID string

// NewCallbackID generates a fresh unique callback ID
func NewCallbackID() CallbackID {
	return CallbackID(uuid.NewString())
}

// String returns the string representation of CallbackID
func (x CallbackID) String() string {
	return string(x)
}

// PlanID identifies a billing plan
type PlanID string

// String returns the string representation of PlanID
func (x PlanID) String() string {
	return string(x)
}

// NewAccessToken issues an opaque credential for this app's own requests
func NewAccessToken() string {
	return uuid.NewString()
}
