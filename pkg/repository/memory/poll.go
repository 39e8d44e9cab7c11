package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

type pollRepository struct {
	mu    sync.Mutex
	polls map[types.CallbackID]*model.Poll
}

var _ interfaces.PollRepository = &pollRepository{}

func newPollRepository() *pollRepository {
	return &pollRepository{
		polls: make(map[types.CallbackID]*model.Poll),
	}
}

func (r *pollRepository) Create(ctx context.Context, poll *model.Poll) error {
	if poll.CallbackID == "" {
		return goerr.New("poll has no callback ID")
	}
	if len(poll.Options) == 0 {
		return goerr.New("poll has no options", goerr.V("callbackID", poll.CallbackID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.polls[poll.CallbackID]; exists {
		return goerr.New("duplicate callback ID", goerr.V("callbackID", poll.CallbackID))
	}

	r.polls[poll.CallbackID] = poll.Clone()
	return nil
}

func (r *pollRepository) GetByCallbackID(ctx context.Context, id types.CallbackID) (*model.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	poll, exists := r.polls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
	}
	return poll.Clone(), nil
}

func (r *pollRepository) RecordVote(ctx context.Context, id types.CallbackID, optionIndex int, voter types.UserID) (*model.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	poll, exists := r.polls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
	}

	updated := poll.Clone()
	if err := updated.RecordVote(optionIndex, voter); err != nil {
		return nil, err
	}

	r.polls[id] = updated
	return updated.Clone(), nil
}

func (r *pollRepository) Delete(ctx context.Context, id types.CallbackID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.polls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
	}

	delete(r.polls, id)
	return nil
}
