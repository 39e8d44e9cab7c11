package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/repository/firestore"
	"github.com/pollwiz/pollwiz/pkg/repository/memory"
)

func newStoredPoll(t *testing.T, ctx context.Context, repo interfaces.Repository) *model.Poll {
	t.Helper()

	input, err := model.ParsePoll(`"Lunch spot?" "Tacos" "Sushi"`)
	gt.NoError(t, err).Required()

	poll := model.NewPoll("T001", "U_OWNER", "C001", input)
	gt.NoError(t, repo.Poll().Create(ctx, poll)).Required()
	return poll
}

func runPollRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create then GetByCallbackID round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		poll := newStoredPoll(t, ctx, repo)

		found, err := repo.Poll().GetByCallbackID(ctx, poll.CallbackID)
		gt.NoError(t, err).Required()

		gt.Value(t, found.CallbackID).Equal(poll.CallbackID)
		gt.Value(t, found.Question).Equal("Lunch spot?")
		gt.Value(t, found.TeamID).Equal(poll.TeamID)
		gt.Array(t, found.Options).Length(2)
		gt.Value(t, found.Options[1].Value).Equal("Sushi")
		gt.Array(t, found.Options[0].Votes).Length(0)
	})

	t.Run("Create rejects duplicate callback ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		poll := newStoredPoll(t, ctx, repo)

		err := repo.Poll().Create(ctx, poll)
		gt.Value(t, err == nil).Equal(false)
	})

	t.Run("GetByCallbackID returns ErrNotFound for unknown poll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Poll().GetByCallbackID(ctx, types.CallbackID("no-such-poll"))
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RecordVote persists and returns the updated poll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		poll := newStoredPoll(t, ctx, repo)

		updated, err := repo.Poll().RecordVote(ctx, poll.CallbackID, 0, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Options[0].Votes).Equal([]types.UserID{"U1"})

		// Revote moves the stored vote
		updated, err = repo.Poll().RecordVote(ctx, poll.CallbackID, 1, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Options[0].Votes).Length(0)
		gt.Array(t, updated.Options[1].Votes).Equal([]types.UserID{"U1"})

		found, err := repo.Poll().GetByCallbackID(ctx, poll.CallbackID)
		gt.NoError(t, err).Required()
		gt.Array(t, found.Options[1].Votes).Equal([]types.UserID{"U1"})
	})

	t.Run("RecordVote rejects invalid option index", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		poll := newStoredPoll(t, ctx, repo)

		_, err := repo.Poll().RecordVote(ctx, poll.CallbackID, 5, "U1")
		gt.Value(t, errors.Is(err, model.ErrInvalidOption)).Equal(true)

		found, err := repo.Poll().GetByCallbackID(ctx, poll.CallbackID)
		gt.NoError(t, err).Required()
		gt.Number(t, found.VoterCount()).Equal(0)
	})

	t.Run("Delete removes the poll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		poll := newStoredPoll(t, ctx, repo)

		gt.NoError(t, repo.Poll().Delete(ctx, poll.CallbackID)).Required()

		_, err := repo.Poll().GetByCallbackID(ctx, poll.CallbackID)
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		// Second delete reports not found; idempotence is the caller's concern
		err = repo.Poll().Delete(ctx, poll.CallbackID)
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestMemoryPollRepository(t *testing.T) {
	runPollRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestorePollRepository(t *testing.T) {
	runPollRepositoryTest(t, newFirestoreRepository)
}
