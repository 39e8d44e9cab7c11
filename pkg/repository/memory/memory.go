package memory

import (
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
)

// ErrNotFound re-exports the repository-level sentinel for this backend
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the backend pattern
type Repository = Memory

// Memory is the in-memory backend used for development and tests. Every
// logical operation serializes on its repository's mutex, which stands in
// for the document store's transaction primitive.
type Memory struct {
	team *teamRepository
	user *userRepository
	poll *pollRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		team: newTeamRepository(),
		user: newUserRepository(),
		poll: newPollRepository(),
	}
}

func (m *Memory) Team() interfaces.TeamRepository {
	return m.team
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Poll() interfaces.PollRepository {
	return m.poll
}

func (m *Memory) Close() error {
	return nil
}
