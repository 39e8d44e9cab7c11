package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// ErrNotFound is returned (wrapped) by repositories when a record does not
// exist. Backends re-export it so tests can assert per-package.
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	Team() TeamRepository
	User() UserRepository
	Poll() PollRepository
	Close() error
}

// TeamRepository persists teams and their quota counters
type TeamRepository interface {
	// GetOrCreate atomically creates the team on first reference and
	// returns the existing record on every later call.
	GetOrCreate(ctx context.Context, id types.TeamID) (*model.Team, error)

	Get(ctx context.Context, id types.TeamID) (*model.Team, error)

	// ConsumeQuota checks and increments the team's counter for the given
	// month key inside a single transaction. When the stored count has
	// reached max it writes nothing and returns model.ErrQuotaExceeded.
	// The returned value is the count after the increment.
	ConsumeQuota(ctx context.Context, id types.TeamID, month string, max int) (int, error)

	// SetExpiration writes the expiration date, or clears it when date is nil
	SetExpiration(ctx context.Context, id types.TeamID, date *time.Time) error

	// SetPlan applies a plan's allowance and clears the expiration date
	SetPlan(ctx context.Context, id types.TeamID, maxCount int) error
}

// UserRepository persists workspace members who authorized the app
type UserRepository interface {
	// Upsert creates the user or overwrites its token fields, keyed on
	// (TeamID, ID)
	Upsert(ctx context.Context, user *model.User) (*model.User, error)

	GetByAccessToken(ctx context.Context, accessToken string) (*model.User, error)
}

// PollRepository persists polls and their votes
type PollRepository interface {
	Create(ctx context.Context, poll *model.Poll) error

	GetByCallbackID(ctx context.Context, id types.CallbackID) (*model.Poll, error)

	// RecordVote applies the vote inside a single transaction and returns
	// the updated poll
	RecordVote(ctx context.Context, id types.CallbackID, optionIndex int, voter types.UserID) (*model.Poll, error)

	Delete(ctx context.Context, id types.CallbackID) error
}
