package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

// HandleVote records a vote and returns the updated poll for re-rendering.
// Votes are chargeable like poll creations: the option index is validated
// first so an invalid press never burns quota, then the quota is consumed,
// then the vote lands.
func (uc *UseCases) HandleVote(ctx context.Context, callbackID types.CallbackID, optionIndex int, voter types.UserID) (*model.Poll, error) {
	poll, err := uc.repo.Poll().GetByCallbackID(ctx, callbackID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrPollNotFound, "vote for unknown poll", goerr.V("callbackID", callbackID))
		}
		return nil, err
	}

	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, goerr.Wrap(model.ErrInvalidOption, "vote references unknown option",
			goerr.V("callbackID", callbackID),
			goerr.V("optionIndex", optionIndex),
			goerr.V("optionCount", len(poll.Options)),
		)
	}

	team, err := uc.repo.Team().Get(ctx, poll.TeamID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve poll's team", goerr.V("teamID", poll.TeamID))
	}

	today := uc.now()
	if team.IsExpired(today) {
		return nil, goerr.Wrap(model.ErrTeamExpired, "vote blocked",
			goerr.V("teamID", team.ID),
			goerr.V("expirationDate", team.ExpirationDate),
		)
	}

	if _, err := uc.repo.Team().ConsumeQuota(ctx, team.ID, types.MonthKey(today), team.MaxVotes()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Poll().RecordVote(ctx, callbackID, optionIndex, voter)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("vote recorded",
		"team_id", team.ID,
		"callback_id", callbackID,
		"option_index", optionIndex,
	)

	return updated, nil
}

// DeletePoll removes the poll. Deletion is idempotent from the caller's
// perspective: a poll that is already gone is not an error.
func (uc *UseCases) DeletePoll(ctx context.Context, callbackID types.CallbackID) error {
	if err := uc.repo.Poll().Delete(ctx, callbackID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			logging.From(ctx).Info("delete for already-removed poll", "callback_id", callbackID)
			return nil
		}
		return goerr.Wrap(err, "failed to delete poll", goerr.V("callbackID", callbackID))
	}

	logging.From(ctx).Info("poll deleted", "callback_id", callbackID)
	return nil
}
