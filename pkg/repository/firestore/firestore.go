package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
)

// ErrNotFound re-exports the repository-level sentinel for this backend
var ErrNotFound = interfaces.ErrNotFound

// Firestore is the document store backend. Collections: teams, users, polls.
type Firestore struct {
	client *firestore.Client
	team   *teamRepository
	user   *userRepository
	poll   *pollRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests sharing a
// project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.team.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
		f.poll.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client: client,
		team:   newTeamRepository(client),
		user:   newUserRepository(client),
		poll:   newPollRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Team() interfaces.TeamRepository {
	return f.team
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Poll() interfaces.PollRepository {
	return f.poll
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
