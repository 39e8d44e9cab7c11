package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

// CreatePoll parses the message text, gates it on the team's expiration and
// monthly quota, and persists the new poll. The quota check and the counter
// increment run in one store transaction, so concurrent creations cannot
// overshoot the allowance.
func (uc *UseCases) CreatePoll(ctx context.Context, teamID types.TeamID, createdBy types.UserID, channelID, text string) (*model.Poll, error) {
	input, err := model.ParsePoll(text)
	if err != nil {
		return nil, err
	}

	team, err := uc.repo.Team().GetOrCreate(ctx, teamID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve team", goerr.V("teamID", teamID))
	}

	today := uc.now()
	if team.IsExpired(today) {
		return nil, goerr.Wrap(model.ErrTeamExpired, "poll creation blocked",
			goerr.V("teamID", teamID),
			goerr.V("expirationDate", team.ExpirationDate),
		)
	}

	if _, err := uc.repo.Team().ConsumeQuota(ctx, teamID, types.MonthKey(today), team.MaxVotes()); err != nil {
		return nil, err
	}

	poll := model.NewPoll(teamID, createdBy, channelID, input)
	if err := uc.repo.Poll().Create(ctx, poll); err != nil {
		return nil, goerr.Wrap(err, "failed to persist poll", goerr.V("callbackID", poll.CallbackID))
	}

	logging.From(ctx).Info("poll created",
		"team_id", teamID,
		"callback_id", poll.CallbackID,
		"options", len(poll.Options),
		"anonymous", poll.Anonymous,
	)

	return poll, nil
}
