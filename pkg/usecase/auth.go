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

// AuthorizeUser records an OAuth authorization: the team is created on
// first reference, the user is upserted with the new Slack token, and a
// fresh app access token is issued. Re-authorization rotates the tokens in
// place rather than duplicating the user.
func (uc *UseCases) AuthorizeUser(ctx context.Context, teamID types.TeamID, userID types.UserID, slackAccessToken string) (string, error) {
	if _, err := uc.repo.Team().GetOrCreate(ctx, teamID); err != nil {
		return "", goerr.Wrap(err, "failed to resolve team", goerr.V("teamID", teamID))
	}

	accessToken := types.NewAccessToken()
	user := &model.User{
		ID:               userID,
		TeamID:           teamID,
		SlackAccessToken: slackAccessToken,
		AccessToken:      accessToken,
	}

	if _, err := uc.repo.User().Upsert(ctx, user); err != nil {
		return "", goerr.Wrap(err, "failed to upsert user",
			goerr.V("teamID", teamID),
			goerr.V("userID", userID),
		)
	}

	logging.From(ctx).Info("user authorized", "team_id", teamID, "user_id", userID)
	return accessToken, nil
}

// ResolveTeamByAccessToken authenticates a request by this app's own
// credential and returns the owning team.
func (uc *UseCases) ResolveTeamByAccessToken(ctx context.Context, accessToken string) (*model.Team, error) {
	user, err := uc.repo.User().GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrUnauthorized, "access token does not match any user")
		}
		return nil, err
	}

	team, err := uc.repo.Team().Get(ctx, user.TeamID)
	if err != nil {
		return nil, goerr.Wrap(err, "user references missing team",
			goerr.V("teamID", user.TeamID),
			goerr.V("userID", user.ID),
		)
	}

	return team, nil
}
