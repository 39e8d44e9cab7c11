package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// userKey is the composite key (teamID, userID)
type userKey struct {
	teamID types.TeamID
	userID types.UserID
}

type userRepository struct {
	mu    sync.Mutex
	users map[userKey]*model.User
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[userKey]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	return &copied
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	if err := user.ID.Validate(); err != nil {
		return nil, err
	}
	if err := user.TeamID.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := userKey{teamID: user.TeamID, userID: user.ID}
	now := time.Now().UTC()

	stored := copyUser(user)
	stored.UpdatedAt = now
	stored.CreatedAt = now
	if existing, exists := r.users[key]; exists {
		stored.CreatedAt = existing.CreatedAt
	}

	r.users[key] = stored
	return copyUser(stored), nil
}

func (r *userRepository) GetByAccessToken(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, goerr.Wrap(ErrNotFound, "empty access token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.AccessToken == accessToken {
			return copyUser(user), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "no user for access token")
}
